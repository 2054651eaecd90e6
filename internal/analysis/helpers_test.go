package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

func fixtureObject(t *testing.T) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal([]byte(loadFixture(t, "valid_analysis.json")), &obj); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return obj
}

func encode(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(data)
}

func section(t *testing.T, obj map[string]any, key string) map[string]any {
	t.Helper()
	sec, ok := asObject(obj[key])
	if !ok {
		t.Fatalf("section %s is %T, want object", key, obj[key])
	}
	return sec
}

func firstProfile(t *testing.T, obj map[string]any) map[string]any {
	t.Helper()
	profiles, ok := asArray(obj[KeyJobProfiles])
	if !ok || len(profiles) == 0 {
		t.Fatalf("expected job profiles, got %v", obj[KeyJobProfiles])
	}
	profile, ok := asObject(profiles[0])
	if !ok {
		t.Fatalf("profile is %T, want object", profiles[0])
	}
	return profile
}

func numberedTerms(prefix string, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = prefix + " " + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	return out
}
