package tracker

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Alice", "alice"},
		{"  Alice  ", "alice"},
		{"ALICE SMITH", "alice smith"},
		{"Alice   Smith", "alice smith"},
		{"A|ice", "alice"},
		{"A1ice", "alice"},
		{"J0hn", "john"},
		{"Mary-Jane", "mary-jane"},
		{"Alice!", "alice"},
		{"Alice, Smith.", "alice smith"},
		{"", ""},
		{"   ", ""},
		{"123", ""},
		{"1", ""},
		{"0", ""},
		{"Alice 42", "alice"},
		{"Room 101", "room"},
	}

	for _, tt := range tests {
		got := NormalizeName(tt.input)
		if got != tt.expected {
			t.Errorf("NormalizeName(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"Alice Smith", "A|ice", "J0hn", "Mary-Jane", "Room 101", "123"}
	for _, s := range inputs {
		once := NormalizeName(s)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName(%q) = %q but renormalizes to %q", s, once, twice)
		}
	}
}

func TestNormalizeNameIdentity(t *testing.T) {
	// Variants that OCR commonly produces for the same on-screen name must
	// collapse to one identity.
	variants := []string{"Alice Smith", "alice smith", "A|ice Smith", "ALICE   SMITH "}
	want := NormalizeName(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeName(v); got != want {
			t.Errorf("NormalizeName(%q) = %q, expected %q", v, got, want)
		}
	}
}
