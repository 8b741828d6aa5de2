package symptoms_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/prognosis/internal/symptoms"
)

var testSchema = symptoms.Schema{"itching", "skin_rash", "fatigue"}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Skin Rash", "skin_rash"},
		{" Itching ", "itching"},
		{"\tHIGH FEVER\n", "high_fever"},
		{"already_normal", "already_normal"},
		{"multiple  spaces", "multiple__spaces"},
		{"ÉRUPTION Cutanée", "éruption_cutanée"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := symptoms.Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := symptoms.Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	enc := symptoms.NewEncoder(testSchema)

	result, err := enc.Encode([]string{"Skin Rash", " Itching "})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	wantVec := symptoms.Vector{1, 1, 0}
	if !slices.Equal(result.Vector, wantVec) {
		t.Errorf("vector: got %v, want %v", result.Vector, wantVec)
	}

	wantNorm := []string{"skin_rash", "itching"}
	if !slices.Equal(result.Normalized, wantNorm) {
		t.Errorf("normalized: got %v, want %v", result.Normalized, wantNorm)
	}
	if len(result.Unknown) != 0 {
		t.Errorf("unknown: got %v, want none", result.Unknown)
	}
}

func TestEncodeOnesMatchSubset(t *testing.T) {
	enc := symptoms.NewEncoder(testSchema)

	subsets := [][]string{
		{"itching"},
		{"fatigue", "skin_rash"},
		{"itching", "skin_rash", "fatigue"},
	}

	for _, subset := range subsets {
		result, err := enc.Encode(subset)
		if err != nil {
			t.Fatalf("Encode(%v) error = %v", subset, err)
		}
		if got := result.Vector.Ones(); got != len(subset) {
			t.Errorf("Encode(%v): %d ones, want %d", subset, got, len(subset))
		}
		for i, name := range testSchema {
			want := 0.0
			if slices.Contains(subset, name) {
				want = 1
			}
			if result.Vector[i] != want {
				t.Errorf("Encode(%v)[%d] = %v, want %v", subset, i, result.Vector[i], want)
			}
		}
	}
}

func TestEncodeOrderInvariant(t *testing.T) {
	enc := symptoms.NewEncoder(testSchema)

	a, err := enc.Encode([]string{"fatigue", "Itching", "unknown"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, err := enc.Encode([]string{"unknown", "Itching", "fatigue"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if !slices.Equal(a.Vector, b.Vector) {
		t.Errorf("vectors differ: %v vs %v", a.Vector, b.Vector)
	}
}

func TestEncodeUnknownDropped(t *testing.T) {
	enc := symptoms.NewEncoder(testSchema)

	result, err := enc.Encode([]string{"unknown_symptom_xyz"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if result.Vector.Ones() != 0 {
		t.Errorf("vector: got %v, want all zero", result.Vector)
	}
	if len(result.Vector) != len(testSchema) {
		t.Errorf("vector length: got %d, want %d", len(result.Vector), len(testSchema))
	}
	if !slices.Equal(result.Unknown, []string{"unknown_symptom_xyz"}) {
		t.Errorf("unknown: got %v", result.Unknown)
	}
}

func TestEncodeDuplicatesKept(t *testing.T) {
	enc := symptoms.NewEncoder(testSchema)

	result, err := enc.Encode([]string{"itching", "ITCHING"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(result.Normalized) != 2 {
		t.Errorf("normalized: got %v, want both entries", result.Normalized)
	}
	if result.Vector.Ones() != 1 {
		t.Errorf("vector: got %v, want a single one", result.Vector)
	}
}

func TestEncodeEmpty(t *testing.T) {
	enc := symptoms.NewEncoder(testSchema)

	for _, raw := range [][]string{nil, {}} {
		if _, err := enc.Encode(raw); !errors.Is(err, symptoms.ErrNoSymptoms) {
			t.Errorf("Encode(%v) error = %v, want ErrNoSymptoms", raw, err)
		}
	}
}
