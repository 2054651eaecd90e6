package analysis

import (
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestValidateStructureAcceptsFixture(t *testing.T) {
	res := ValidateStructure(fixtureObject(t))
	if !res.Valid {
		t.Fatalf("expected fixture to be valid, got %v", res.Errors)
	}
}

func TestValidateStructureCollectsAllErrors(t *testing.T) {
	obj := fixtureObject(t)
	delete(obj, KeySoftSkills)
	section(t, obj, KeyHardSkills)[KeyEducation] = "Ciência da Computação"
	delete(firstProfile(t, obj), KeyJobTitle)

	res := ValidateStructure(obj)
	if res.Valid {
		t.Fatal("expected invalid result")
	}

	want := []string{
		"soft_skills: required section is missing",
		"perfil_vagas[0].cargo: required field is missing",
		"hard_skills.formacao: must be an array, got string",
	}
	for _, msg := range want {
		if !slices.Contains(res.Errors, msg) {
			t.Fatalf("expected error %q in %v", msg, res.Errors)
		}
	}
}

func TestValidateStructureRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(obj map[string]any)
		want   string
	}{
		{
			name:   "empty profiles",
			mutate: func(obj map[string]any) { obj[KeyJobProfiles] = []any{} },
			want:   "perfil_vagas: must not be empty",
		},
		{
			name:   "profiles not an array",
			mutate: func(obj map[string]any) { obj[KeyJobProfiles] = map[string]any{} },
			want:   "perfil_vagas: must be an array",
		},
		{
			name: "score out of range",
			mutate: func(obj map[string]any) {
				obj[KeyJobProfiles].([]any)[0].(map[string]any)[KeyCompatibility] = 150.0
			},
			want: "perfil_vagas[0].compatibilidade_percentual: 150 is outside [0, 100]",
		},
		{
			name: "score is text",
			mutate: func(obj map[string]any) {
				obj[KeyJobProfiles].([]any)[0].(map[string]any)[KeyCompatibility] = "alta"
			},
			want: "perfil_vagas[0].compatibilidade_percentual: must be a number, got string",
		},
		{
			name:   "responsibilities not an array",
			mutate: func(obj map[string]any) { obj[KeyResponsibilities] = "muitas" },
			want:   "responsabilidades: must be an array",
		},
		{
			name:   "recommendations not an object",
			mutate: func(obj map[string]any) { obj[KeyRecommendations] = []any{"x"} },
			want:   "recomendacoes: must be an object",
		},
		{
			name:   "null subsection",
			mutate: func(obj map[string]any) { obj[KeySoftSkills].(map[string]any)[KeyManagement] = nil },
			want:   "soft_skills.gestao: required subsection is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			obj := fixtureObject(t)
			tt.mutate(obj)

			res := ValidateStructure(obj)
			if res.Valid {
				t.Fatal("expected invalid result")
			}
			if !slices.Contains(res.Errors, tt.want) {
				t.Fatalf("expected %q in %v", tt.want, res.Errors)
			}
		})
	}
}

func TestValidateStructureNonObject(t *testing.T) {
	for _, v := range []any{nil, "text", []any{1}, 42.0} {
		res := ValidateStructure(v)
		if res.Valid {
			t.Fatalf("expected %v to be invalid", v)
		}
		if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "not an object") {
			t.Fatalf("unexpected errors for %v: %v", v, res.Errors)
		}
		if got := res.Salvage(nil); len(got) != 0 {
			t.Fatalf("expected nothing salvaged, got %v", got)
		}
	}
}

func TestValidateStructureDoesNotMutate(t *testing.T) {
	obj := fixtureObject(t)
	delete(obj, KeyRecommendations)
	firstProfile(t, obj)[KeyCompatibility] = 150.0
	before := encode(t, obj)

	res := ValidateStructure(obj)
	_ = res.Salvage(obj)

	if after := encode(t, obj); after != before {
		t.Fatalf("input was modified:\nbefore %s\nafter  %s", before, after)
	}
}

func TestSalvage(t *testing.T) {
	obj := fixtureObject(t)
	delete(obj, KeyRecommendations)
	section(t, obj, KeyHardSkills)[KeyEducation] = "texto"
	profiles := obj[KeyJobProfiles].([]any)
	broken := map[string]any{KeyJobTitle: "Sem campos"}
	clamped := cloneObject(firstProfile(t, obj))
	clamped[KeyCompatibility] = 150.0
	obj[KeyJobProfiles] = append(profiles, broken, clamped)

	res := ValidateStructure(obj)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if res.SectionValid(KeyHardSkills) {
		t.Fatal("expected hard_skills to be reported invalid")
	}
	if !res.SectionValid(KeySoftSkills) {
		t.Fatal("expected soft_skills to be reported valid")
	}

	partial := res.Salvage(obj)

	if _, ok := partial[KeyRecommendations]; ok {
		t.Fatal("missing section must not be salvaged")
	}

	hard := section(t, partial, KeyHardSkills)
	if _, ok := hard[KeyEducation]; ok {
		t.Fatal("invalid subsection must be dropped")
	}
	if !reflect.DeepEqual(hard[KeyTechnical], section(t, obj, KeyHardSkills)[KeyTechnical]) {
		t.Fatalf("valid subsection must be kept, got %v", hard[KeyTechnical])
	}

	kept := partial[KeyJobProfiles].([]any)
	if len(kept) != 2 {
		t.Fatalf("expected 2 profiles kept, got %d", len(kept))
	}
	if kept[1].(map[string]any)[KeyCompatibility] != 150.0 {
		t.Fatalf("out-of-range profile must be kept for clamping, got %v", kept[1])
	}
}

func TestSalvageDropsProfilesWhenAllInvalid(t *testing.T) {
	obj := fixtureObject(t)
	obj[KeyJobProfiles] = []any{"texto", map[string]any{KeyJobTitle: "Dev"}}

	res := ValidateStructure(obj)
	partial := res.Salvage(obj)
	if _, ok := partial[KeyJobProfiles]; ok {
		t.Fatalf("expected no profiles salvaged, got %v", partial[KeyJobProfiles])
	}
	if _, ok := partial[KeyHardSkills]; !ok {
		t.Fatal("expected valid sections to be salvaged")
	}
}
