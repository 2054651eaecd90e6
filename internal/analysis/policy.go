package analysis

// ListLimit caps the length of one string list of the result.
type ListLimit struct {
	Section string
	// Field is empty for top-level lists such as responsabilidades.
	Field string
	Max   int
}

// Path returns the dotted wire path of the list.
func (l ListLimit) Path() string {
	return listPath(l.Section, l.Field)
}

// ScalarPrecedence decides which side wins when a template and partial
// scalar are both non-empty during a merge.
type ScalarPrecedence int

const (
	// PartialWins lets a non-empty partial value replace the template value.
	PartialWins ScalarPrecedence = iota
	// TemplateWins keeps a non-empty template value and only fills blanks.
	TemplateWins
)

func (p ScalarPrecedence) String() string {
	switch p {
	case PartialWins:
		return "partial_wins"
	case TemplateWins:
		return "template_wins"
	default:
		return "unknown"
	}
}

// Policy holds the compiled-in thresholds of the pipeline. The plausibility
// rules are heuristics; the numbers are judgment calls meant to be tuned here
// rather than in control flow.
type Policy struct {
	Limits []ListLimit

	// DefaultCompatibility replaces a missing or non-numeric score.
	DefaultCompatibility float64

	HighCompatibility         float64
	HighCompatibilityMaxTerms int
	LowCompatibility          float64
	LowCompatibilityMinTerms  int

	// MinTechnicalSkills applies only when at least one job profile exists.
	MinTechnicalSkills int

	TechnicalAreaMinSkills int
	// TechnicalAreaTokens match whole words of the normalized area.
	TechnicalAreaTokens []string
	// TechnicalAreaTerms match anywhere in the normalized area.
	TechnicalAreaTerms []string

	RepetitionMinTerms       int
	RepetitionMinUniqueRatio float64

	// SanitizerResolvedRules are issues fully repaired by capping and
	// de-duplication; when nothing else fires the sanitized output is kept.
	SanitizerResolvedRules []Rule

	// TechnicalKeywords select the technical fallback template.
	TechnicalKeywords []string
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		Limits: []ListLimit{
			{Section: KeyHardSkills, Field: KeyTechnical, Max: 50},
			{Section: KeyHardSkills, Field: KeyEducation, Max: 20},
			{Section: KeyHardSkills, Field: KeyLanguages, Max: 10},
			{Section: KeyHardSkills, Field: KeyExperience, Max: 30},
			{Section: KeySoftSkills, Field: KeyBehavioral, Max: 30},
			{Section: KeySoftSkills, Field: KeyManagement, Max: 20},
			{Section: KeyResponsibilities, Max: 40},
			{Section: KeyRecommendations, Field: KeyTermsToAdd, Max: 30},
			{Section: KeyRecommendations, Field: KeySectionsToExpand, Max: 15},
			{Section: KeyRecommendations, Field: KeyRephrasings, Max: 20},
			{Section: KeyRecommendations, Field: KeyFormatting, Max: 15},
		},
		DefaultCompatibility:      50,
		HighCompatibility:         95,
		HighCompatibilityMaxTerms: 10,
		LowCompatibility:          10,
		LowCompatibilityMinTerms:  3,
		MinTechnicalSkills:        1,
		TechnicalAreaMinSkills:    3,
		TechnicalAreaTokens:       []string{"ti", "it"},
		TechnicalAreaTerms:        []string{"tecnologia", "technology"},
		RepetitionMinTerms:        5,
		RepetitionMinUniqueRatio:  0.7,
		SanitizerResolvedRules:    []Rule{RuleExcessiveItems, RuleDuplicateTechnical},
		TechnicalKeywords: []string{
			"programa", "desenvolve", "software", "system", "código",
			"java", "python", "javascript", "react", "angular", "vue", "node",
			"cloud", "aws", "azure", "devops", "agile", "scrum", "kanban",
			"front-end", "frontend", "back-end", "backend", "fullstack", "full-stack",
			"developer", "desenvolvedor", "programador", "engineer", "engenheiro de software",
		},
	}
}

// limit returns the cap configured for the list at section.field.
func (p Policy) limit(section, field string) (int, bool) {
	for _, l := range p.Limits {
		if l.Section == section && l.Field == field {
			return l.Max, true
		}
	}
	return 0, false
}

func (p Policy) resolvedBySanitizing(issues []Issue) bool {
	if len(issues) == 0 {
		return true
	}
	for _, issue := range issues {
		resolved := false
		for _, rule := range p.SanitizerResolvedRules {
			if issue.Rule == rule {
				resolved = true
				break
			}
		}
		if !resolved {
			return false
		}
	}
	return true
}
