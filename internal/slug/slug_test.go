package slug

import (
	"regexp"
	"testing"
	"time"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Laguna Torre", "laguna-torre"},
		{"accents", "Cerro Torre Mirador", "cerro-torre-mirador"},
		{"spanish accents", "Sendero al Fitz Roy, tramo Río Blanco", "sendero-al-fitz-roy-tramo-rio-blanco"},
		{"enie", "Cañadón", "canadon"},
		{"punctuation runs", "El Chaltén -- ¡capital del trekking!", "el-chalten-capital-del-trekking"},
		{"leading trailing junk", "  ---Laguna de los Tres---  ", "laguna-de-los-tres"},
		{"numbers", "Mirador 360", "mirador-360"},
		{"uppercase", "LAGUNA CAPRI", "laguna-capri"},
		{"empty", "", ""},
		{"only junk", "¡¿---!?", ""},
		{"already a slug", "laguna-torre", "laguna-torre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Make(tt.input)
			if got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeShape(t *testing.T) {
	inputs := []string{
		"Laguna Torre",
		"Chorrillo del Salto!!!",
		"  weird   spacing  ",
		"émoji ☃ snowman",
		"123 456",
	}

	for _, input := range inputs {
		got := Make(input)
		if got == "" {
			continue
		}
		if !slugShape.MatchString(got) {
			t.Errorf("Make(%q) = %q, does not match slug shape", input, got)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{
		"Laguna Torre",
		"Cerro Torre Mirador",
		"¡Hola, señor!",
		"already-a-slug",
		"",
	}

	for _, input := range inputs {
		once := Make(input)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	got := WithSuffix("laguna-torre", now)
	want := "laguna-torre-20240315103045"
	if got != want {
		t.Errorf("WithSuffix() = %q, want %q", got, want)
	}

	// The suffixed slug is still a valid slug.
	if !slugShape.MatchString(got) {
		t.Errorf("WithSuffix() = %q, does not match slug shape", got)
	}
	if Make(got) != got {
		t.Errorf("WithSuffix() result changes under Make: %q -> %q", got, Make(got))
	}
}
