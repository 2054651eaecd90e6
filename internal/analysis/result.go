package analysis

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Wire keys of the completion document.
const (
	KeyJobProfiles      = "perfil_vagas"
	KeyHardSkills       = "hard_skills"
	KeySoftSkills       = "soft_skills"
	KeyResponsibilities = "responsabilidades"
	KeyRecommendations  = "recomendacoes"
	KeyErrorInfo        = "erro_analise"

	KeyJobID           = "vaga_id"
	KeyJobTitle        = "cargo"
	KeyJobArea         = "area"
	KeyJobLevel        = "nivel"
	KeyJobWorkModel    = "modelo_trabalho"
	KeyJobContractType = "tipo_contrato"
	KeyJobEmployer     = "empresa"
	KeyJobLocation     = "localizacao"
	KeyJobSalaryRange  = "faixa_salarial"
	KeyCompatibility   = "compatibilidade_percentual"

	KeyTechnical  = "tecnicos"
	KeyEducation  = "formacao"
	KeyLanguages  = "idiomas"
	KeyExperience = "experiencia"

	KeyBehavioral = "comportamentais"
	KeyManagement = "gestao"

	KeyTermsToAdd       = "termos_adicionar"
	KeySectionsToExpand = "secoes_expandir"
	KeyRephrasings      = "reformulacoes"
	KeyFormatting       = "formatacao"
)

// RequiredSections lists the top-level sections every completion must carry.
var RequiredSections = []string{
	KeyJobProfiles,
	KeyHardSkills,
	KeySoftSkills,
	KeyResponsibilities,
	KeyRecommendations,
}

// RequiredJobFields lists the job profile fields the validator insists on.
var RequiredJobFields = []string{
	KeyJobID,
	KeyJobTitle,
	KeyJobArea,
	KeyJobLevel,
	KeyJobWorkModel,
	KeyCompatibility,
}

// jobTextFields are the job profile fields rendered as plain text.
var jobTextFields = []string{
	KeyJobID,
	KeyJobTitle,
	KeyJobArea,
	KeyJobLevel,
	KeyJobWorkModel,
	KeyJobContractType,
	KeyJobEmployer,
	KeyJobLocation,
	KeyJobSalaryRange,
}

// subsections maps every object section to its required list fields.
var subsections = map[string][]string{
	KeyHardSkills:      {KeyTechnical, KeyEducation, KeyLanguages, KeyExperience},
	KeySoftSkills:      {KeyBehavioral, KeyManagement},
	KeyRecommendations: {KeyTermsToAdd, KeySectionsToExpand, KeyRephrasings, KeyFormatting},
}

// AnalysisResult is the contract-bearing record handed to callers.
type AnalysisResult struct {
	JobProfiles      []JobProfile    `json:"perfil_vagas"`
	HardSkills       HardSkills      `json:"hard_skills"`
	SoftSkills       SoftSkills      `json:"soft_skills"`
	Responsibilities []string        `json:"responsabilidades"`
	Recommendations  Recommendations `json:"recomendacoes"`
	ErrorInfo        *ErrorInfo      `json:"erro_analise,omitempty"`
}

type JobProfile struct {
	ID                   string  `json:"vaga_id"`
	Title                string  `json:"cargo"`
	Area                 string  `json:"area"`
	Level                string  `json:"nivel"`
	WorkModel            string  `json:"modelo_trabalho"`
	ContractType         string  `json:"tipo_contrato"`
	Employer             string  `json:"empresa"`
	Location             string  `json:"localizacao"`
	SalaryRange          string  `json:"faixa_salarial"`
	CompatibilityPercent float64 `json:"compatibilidade_percentual"`
}

type HardSkills struct {
	Technical  []string `json:"tecnicos"`
	Education  []string `json:"formacao"`
	Languages  []string `json:"idiomas"`
	Experience []string `json:"experiencia"`
}

type SoftSkills struct {
	Behavioral []string `json:"comportamentais"`
	Management []string `json:"gestao"`
}

type Recommendations struct {
	TermsToAdd       []string `json:"termos_adicionar"`
	SectionsToExpand []string `json:"secoes_expandir"`
	Rephrasings      []string `json:"reformulacoes"`
	Formatting       []string `json:"formatacao"`
}

// ErrorInfo tells the end user the analysis was degraded to a fallback.
type ErrorInfo struct {
	Code        string   `json:"codigo"`
	Message     string   `json:"mensagem"`
	Suggestions []string `json:"sugestoes"`
}

// Lists returns every string list of the result keyed by its wire path.
func (r *AnalysisResult) Lists() map[string][]string {
	lists := make(map[string][]string, 11)
	lists[listPath(KeyHardSkills, KeyTechnical)] = r.HardSkills.Technical
	lists[listPath(KeyHardSkills, KeyEducation)] = r.HardSkills.Education
	lists[listPath(KeyHardSkills, KeyLanguages)] = r.HardSkills.Languages
	lists[listPath(KeyHardSkills, KeyExperience)] = r.HardSkills.Experience
	lists[listPath(KeySoftSkills, KeyBehavioral)] = r.SoftSkills.Behavioral
	lists[listPath(KeySoftSkills, KeyManagement)] = r.SoftSkills.Management
	lists[listPath(KeyResponsibilities, "")] = r.Responsibilities
	lists[listPath(KeyRecommendations, KeyTermsToAdd)] = r.Recommendations.TermsToAdd
	lists[listPath(KeyRecommendations, KeySectionsToExpand)] = r.Recommendations.SectionsToExpand
	lists[listPath(KeyRecommendations, KeyRephrasings)] = r.Recommendations.Rephrasings
	lists[listPath(KeyRecommendations, KeyFormatting)] = r.Recommendations.Formatting
	return lists
}

// Verify reports every violated output invariant.
func (r *AnalysisResult) Verify(policy Policy) error {
	if r == nil {
		return fmt.Errorf("analysis result is nil")
	}

	var err error
	if len(r.JobProfiles) == 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be empty", KeyJobProfiles))
	}
	for i, job := range r.JobProfiles {
		if job.CompatibilityPercent < 0 || job.CompatibilityPercent > 100 {
			err = multierr.Append(err, fmt.Errorf("%s[%d].%s out of range: %v", KeyJobProfiles, i, KeyCompatibility, job.CompatibilityPercent))
		}
	}

	lists := r.Lists()
	for _, limit := range policy.Limits {
		items, ok := lists[limit.Path()]
		if !ok {
			continue
		}
		if items == nil {
			err = multierr.Append(err, fmt.Errorf("%s must be an array", limit.Path()))
		}
		if len(items) > limit.Max {
			err = multierr.Append(err, fmt.Errorf("%s has %d entries, cap is %d", limit.Path(), len(items), limit.Max))
		}
		for i, item := range items {
			if strings.TrimSpace(item) == "" {
				err = multierr.Append(err, fmt.Errorf("%s[%d] is empty", limit.Path(), i))
			}
		}
	}

	return err
}

// ensureLists replaces nil lists with empty ones so they encode as [].
func (r *AnalysisResult) ensureLists() {
	for _, list := range []*[]string{
		&r.HardSkills.Technical,
		&r.HardSkills.Education,
		&r.HardSkills.Languages,
		&r.HardSkills.Experience,
		&r.SoftSkills.Behavioral,
		&r.SoftSkills.Management,
		&r.Responsibilities,
		&r.Recommendations.TermsToAdd,
		&r.Recommendations.SectionsToExpand,
		&r.Recommendations.Rephrasings,
		&r.Recommendations.Formatting,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	if r.ErrorInfo != nil && r.ErrorInfo.Suggestions == nil {
		r.ErrorInfo.Suggestions = []string{}
	}
}

func listPath(section, field string) string {
	if field == "" {
		return section
	}
	return section + "." + field
}
