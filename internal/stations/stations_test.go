package stations

import (
	"slices"
	"testing"
)

func TestLookup(t *testing.T) {
	d := Default()
	tests := []struct {
		input string
		want  string
		known bool
	}{
		{input: "минск", want: "Минск", known: true},
		{input: "  ОРША ", want: "Орша", known: true},
		{input: "брест-центральный", want: "Брест-Центральный", known: true},
		{input: "гроднО", want: "Гродно", known: true},
		{input: "атлантида", want: "Атлантида", known: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, known := d.Lookup(tt.input)
			if got != tt.want || known != tt.known {
				t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.input, got, known, tt.want, tt.known)
			}
			if normalized := d.Normalize(tt.input); normalized != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, normalized, tt.want)
			}
		})
	}
}

func TestSuggestPrefixFirst(t *testing.T) {
	d := New([]string{"Минск", "Минск-Восточный", "Молодечно", "Орша"})
	got := d.Suggest("минсъ", 10)
	if len(got) < 2 || got[0] != "Минск" || got[1] != "Минск-Восточный" {
		t.Fatalf("expected prefix matches first, got %v", got)
	}
	if slices.Contains(got, "Орша") {
		t.Errorf("did not expect unrelated station in %v", got)
	}
}

func TestSuggestFuzzy(t *testing.T) {
	d := New([]string{"Барановичи-Полесские", "Барановичи-Центральные", "Орша"})
	got := d.Suggest("Брнвч", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 fuzzy matches, got %v", got)
	}
}

func TestSuggestLimit(t *testing.T) {
	got := Default().Suggest("Минск", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", got)
	}
	if got[0] != "Минск" {
		t.Errorf("expected exact name first, got %v", got)
	}
	if got := Default().Suggest("   ", 10); got != nil {
		t.Errorf("expected no suggestions for blank input, got %v", got)
	}
}
