package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Rule identifies one plausibility heuristic.
type Rule string

const (
	RuleHighScoreManyTerms    Rule = "high_score_many_terms"
	RuleLowScoreFewTerms      Rule = "low_score_few_terms"
	RuleExcessiveItems        Rule = "excessive_items"
	RuleSparseTechnical       Rule = "sparse_technical"
	RuleDuplicateTechnical    Rule = "duplicate_technical"
	RuleTechnicalAreaMismatch Rule = "technical_area_mismatch"
	RuleRepetitiveTerms       Rule = "repetitive_terms"
)

// Issue is a single plausibility finding.
type Issue struct {
	Rule    Rule
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Rule, i.Message)
}

type PlausibilityReport struct {
	Plausible bool
	Issues    []Issue
}

// Messages flattens the issues for logging.
func (r PlausibilityReport) Messages() []string {
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.String())
	}
	return out
}

// PlausibilityChecker catches completions that are well formed but
// contradict themselves.
type PlausibilityChecker struct {
	policy Policy
}

func NewPlausibilityChecker(policy Policy) *PlausibilityChecker {
	return &PlausibilityChecker{policy: policy}
}

// Check evaluates every rule; one failing rule does not stop the others.
func (c *PlausibilityChecker) Check(obj map[string]any) PlausibilityReport {
	var issues []Issue
	add := func(rule Rule, format string, args ...any) {
		issues = append(issues, Issue{Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	profiles, _ := asArray(obj[KeyJobProfiles])
	hardSkills, _ := asObject(obj[KeyHardSkills])
	recommendations, _ := asObject(obj[KeyRecommendations])

	terms, hasTerms := asArray(recommendations[KeyTermsToAdd])
	technical, hasTechnical := asArray(hardSkills[KeyTechnical])
	// Null and blank entries are dropped by sanitizing, so they do not count
	// toward the skill minimums.
	technical = filled(technical)

	for i, item := range profiles {
		profile, ok := asObject(item)
		if !ok {
			continue
		}
		score := coerceFloat(profile[KeyCompatibility])
		if math.IsNaN(score) {
			continue
		}
		if score > c.policy.HighCompatibility && hasTerms && len(terms) > c.policy.HighCompatibilityMaxTerms {
			add(RuleHighScoreManyTerms, "job profile %d scores %v%% yet lists %d terms to add (expected at most %d)",
				i, score, len(terms), c.policy.HighCompatibilityMaxTerms)
		}
		if score < c.policy.LowCompatibility && len(terms) < c.policy.LowCompatibilityMinTerms {
			add(RuleLowScoreFewTerms, "job profile %d scores %v%% yet lists only %d terms to add (expected at least %d)",
				i, score, len(terms), c.policy.LowCompatibilityMinTerms)
		}
	}

	for _, field := range subsections[KeyHardSkills] {
		items, ok := asArray(hardSkills[field])
		if !ok {
			continue
		}
		if limit, ok := c.policy.limit(KeyHardSkills, field); ok && len(items) > limit {
			add(RuleExcessiveItems, "%s has %d entries (expected at most %d)", listPath(KeyHardSkills, field), len(items), limit)
		}
	}

	if hasTechnical && len(profiles) > 0 && len(technical) < c.policy.MinTechnicalSkills {
		add(RuleSparseTechnical, "%s has %d entries (expected at least %d)",
			listPath(KeyHardSkills, KeyTechnical), len(technical), c.policy.MinTechnicalSkills)
	}

	if dups := duplicates(technical); len(dups) > 0 {
		add(RuleDuplicateTechnical, "%d near-duplicate technical skills: %s", len(dups), strings.Join(dups, ", "))
	}

	if len(technical) < c.policy.TechnicalAreaMinSkills {
		for i, item := range profiles {
			profile, ok := asObject(item)
			if !ok || !c.isTechnicalArea(coerceString(profile[KeyJobArea])) {
				continue
			}
			add(RuleTechnicalAreaMismatch, "job profile %d is in a technology area but only %d technical skills were found (expected at least %d)",
				i, len(technical), c.policy.TechnicalAreaMinSkills)
			break
		}
	}

	if len(terms) > c.policy.RepetitionMinTerms {
		unique := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			unique[dedupeKey(coerceString(term))] = struct{}{}
		}
		if float64(len(unique)) < float64(len(terms))*c.policy.RepetitionMinUniqueRatio {
			add(RuleRepetitiveTerms, "only %d of %d terms to add are distinct", len(unique), len(terms))
		}
	}

	return PlausibilityReport{Plausible: len(issues) == 0, Issues: issues}
}

func (c *PlausibilityChecker) isTechnicalArea(area string) bool {
	normalized := Normalize(area)
	if normalized == "" {
		return false
	}
	for _, token := range strings.Fields(normalized) {
		for _, marker := range c.policy.TechnicalAreaTokens {
			if token == marker {
				return true
			}
		}
	}
	for _, term := range c.policy.TechnicalAreaTerms {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}

// duplicates returns the normalized keys seen more than once.
func duplicates(items []any) []string {
	seen := make(map[string]bool, len(items))
	var dups []string
	for _, item := range items {
		key := dedupeKey(coerceString(item))
		if key == "" {
			continue
		}
		if seen[key] {
			dups = append(dups, key)
			continue
		}
		seen[key] = true
	}
	return dups
}

func filled(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if !isBlank(item) {
			out = append(out, item)
		}
	}
	return out
}
