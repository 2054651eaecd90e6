package analysis

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

type TemplateKind string

const (
	TemplateGeneric   TemplateKind = "generic"
	TemplateTechnical TemplateKind = "technical"
)

//go:embed templates/*.json
var templateFS embed.FS

// FallbackTemplate is a complete, contract-satisfying result used when the
// completion cannot be trusted. Its data is shared process-wide and must
// only be read through Clone.
type FallbackTemplate struct {
	kind TemplateKind
	data map[string]any
}

func (t FallbackTemplate) Kind() TemplateKind {
	return t.kind
}

// Clone returns a deep copy that the caller may freely modify.
func (t FallbackTemplate) Clone() map[string]any {
	return cloneObject(t.data)
}

var loadTemplates = sync.OnceValue(func() map[TemplateKind]FallbackTemplate {
	templates := make(map[TemplateKind]FallbackTemplate, 2)
	for _, kind := range []TemplateKind{TemplateGeneric, TemplateTechnical} {
		data, err := readTemplate(kind)
		if err != nil {
			// The templates are compiled into the binary; a broken one is a
			// build defect, not a runtime condition.
			panic(err)
		}
		templates[kind] = FallbackTemplate{kind: kind, data: data}
	}
	return templates
})

func readTemplate(kind TemplateKind) (map[string]any, error) {
	raw, err := templateFS.ReadFile(fmt.Sprintf("templates/%s.json", kind))
	if err != nil {
		return nil, fmt.Errorf("read %s template: %w", kind, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s template: %w", kind, err)
	}
	return data, nil
}

// Template returns the fallback template of the given kind, defaulting to
// the generic one.
func Template(kind TemplateKind) FallbackTemplate {
	templates := loadTemplates()
	if tpl, ok := templates[kind]; ok {
		return tpl
	}
	return templates[TemplateGeneric]
}

// SelectTemplate picks the technical template when the job or résumé text
// mentions any technical keyword. This is a best-effort substring match and
// borderline postings may land on either side.
func SelectTemplate(policy Policy, jobText, resumeText string) FallbackTemplate {
	if looksTechnical(policy.TechnicalKeywords, jobText) || looksTechnical(policy.TechnicalKeywords, resumeText) {
		return Template(TemplateTechnical)
	}
	return Template(TemplateGeneric)
}

func looksTechnical(keywords []string, text string) bool {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
