package analysis

import (
	"fmt"
)

// ValidationResult describes how far a parsed completion matches the
// required shape.
type ValidationResult struct {
	Valid  bool
	Errors []string

	invalidSections    map[string]bool
	invalidSubsections map[string]map[string]bool
	invalidProfiles    map[int]bool
}

// ValidateStructure checks every structural rule and collects all
// violations. The input is never modified.
func ValidateStructure(v any) ValidationResult {
	res := ValidationResult{
		invalidSections:    make(map[string]bool),
		invalidSubsections: make(map[string]map[string]bool),
		invalidProfiles:    make(map[int]bool),
	}

	obj, ok := asObject(v)
	if !ok || obj == nil {
		res.Errors = append(res.Errors, "completion is empty or not an object")
		for _, section := range RequiredSections {
			res.invalidSections[section] = true
		}
		return res
	}

	for _, section := range RequiredSections {
		if obj[section] == nil {
			res.fail(section, "", "required section is missing")
		}
	}

	if raw := obj[KeyJobProfiles]; raw != nil {
		res.validateProfiles(raw)
	}

	for _, section := range []string{KeyHardSkills, KeySoftSkills, KeyRecommendations} {
		if raw := obj[section]; raw != nil {
			res.validateSubsections(section, raw)
		}
	}

	if raw := obj[KeyResponsibilities]; raw != nil {
		if _, ok := asArray(raw); !ok {
			res.fail(KeyResponsibilities, "", "must be an array")
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func (r *ValidationResult) validateProfiles(raw any) {
	profiles, ok := asArray(raw)
	if !ok {
		r.fail(KeyJobProfiles, "", "must be an array")
		return
	}
	if len(profiles) == 0 {
		r.fail(KeyJobProfiles, "", "must not be empty")
		return
	}

	for i, item := range profiles {
		profile, ok := asObject(item)
		if !ok || profile == nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%s[%d]: must be an object", KeyJobProfiles, i))
			r.invalidProfiles[i] = true
			continue
		}

		for _, field := range RequiredJobFields {
			if value, present := profile[field]; !present || value == nil {
				r.Errors = append(r.Errors, fmt.Sprintf("%s[%d].%s: required field is missing", KeyJobProfiles, i, field))
				r.invalidProfiles[i] = true
			}
		}

		// An out-of-range score keeps the profile: the sanitizer clamps it.
		score, present := profile[KeyCompatibility]
		if !present || score == nil {
			continue
		}
		if !isNumber(score) {
			r.Errors = append(r.Errors, fmt.Sprintf("%s[%d].%s: must be a number, got %T", KeyJobProfiles, i, KeyCompatibility, score))
			continue
		}
		if f := coerceFloat(score); f < 0 || f > 100 {
			r.Errors = append(r.Errors, fmt.Sprintf("%s[%d].%s: %v is outside [0, 100]", KeyJobProfiles, i, KeyCompatibility, f))
		}
	}

	if len(r.invalidProfiles) == len(profiles) {
		r.invalidSections[KeyJobProfiles] = true
	}
}

func (r *ValidationResult) validateSubsections(section string, raw any) {
	obj, ok := asObject(raw)
	if !ok {
		r.fail(section, "", "must be an object")
		return
	}

	for _, field := range subsections[section] {
		value := obj[field]
		if value == nil {
			r.fail(section, field, "required subsection is missing")
			continue
		}
		if _, ok := asArray(value); !ok {
			r.fail(section, field, fmt.Sprintf("must be an array, got %T", value))
		}
	}
}

func (r *ValidationResult) fail(section, field, reason string) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", listPath(section, field), reason))
	if field == "" {
		r.invalidSections[section] = true
		return
	}
	if r.invalidSubsections[section] == nil {
		r.invalidSubsections[section] = make(map[string]bool)
	}
	r.invalidSubsections[section][field] = true
}

// SectionValid reports whether a top-level section passed validation.
func (r ValidationResult) SectionValid(section string) bool {
	return !r.invalidSections[section] && len(r.invalidSubsections[section]) == 0
}

// Salvage returns a copy of obj holding only the parts that validated:
// broken sections, subsections and job profiles are left out so a merge
// fills them from a fallback template.
func (r ValidationResult) Salvage(obj map[string]any) map[string]any {
	partial := make(map[string]any)
	if obj == nil {
		return partial
	}

	for _, section := range RequiredSections {
		raw, present := obj[section]
		if !present || raw == nil || r.invalidSections[section] {
			continue
		}

		switch section {
		case KeyJobProfiles:
			profiles, _ := asArray(raw)
			kept := make([]any, 0, len(profiles))
			for i, item := range profiles {
				if r.invalidProfiles[i] {
					continue
				}
				kept = append(kept, cloneValue(item))
			}
			if len(kept) > 0 {
				partial[section] = kept
			}
		case KeyResponsibilities:
			partial[section] = cloneValue(raw)
		default:
			src, _ := asObject(raw)
			dst := make(map[string]any, len(src))
			for _, field := range subsections[section] {
				if r.invalidSubsections[section][field] {
					continue
				}
				if value, ok := src[field]; ok {
					dst[field] = cloneValue(value)
				}
			}
			partial[section] = dst
		}
	}

	return partial
}
