package symptoms

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Vector is a binary feature vector aligned to a Schema.
type Vector []float64

// Ones returns the number of positions set to 1.
func (v Vector) Ones() int {
	n := 0
	for _, x := range v {
		if x == 1 {
			n++
		}
	}
	return n
}

// Encoding is the result of encoding one symptom list.
type Encoding struct {
	// Normalized holds every input symptom after normalization, in input order.
	Normalized []string
	// Unknown holds normalized symptoms that are not part of the schema.
	Unknown []string
	Vector  Vector
}

// Normalize trims surrounding whitespace, lowercases, and replaces spaces
// with underscores. A Caser is not safe for concurrent use, so one is built
// per call.
func Normalize(s string) string {
	lower := cases.Lower(language.Und).String(strings.TrimSpace(s))
	return strings.ReplaceAll(lower, " ", "_")
}

// Encoder turns symptom lists into vectors for a fixed Schema.
// It is immutable and safe for concurrent use.
type Encoder struct {
	schema Schema
	index  map[string]int
}

// NewEncoder indexes the schema positions.
func NewEncoder(schema Schema) *Encoder {
	index := make(map[string]int, len(schema))
	for i, name := range schema {
		index[name] = i
	}
	return &Encoder{
		schema: schema,
		index:  index,
	}
}

// Schema returns the schema the encoder aligns vectors to.
func (e *Encoder) Schema() Schema {
	return e.schema
}

// Encode normalizes raw and sets vector position i when Schema[i] is among
// the normalized symptoms. Symptoms outside the schema are dropped.
// An empty list returns ErrNoSymptoms.
func (e *Encoder) Encode(raw []string) (*Encoding, error) {
	if len(raw) == 0 {
		return nil, ErrNoSymptoms
	}

	enc := &Encoding{
		Normalized: make([]string, len(raw)),
		Vector:     make(Vector, len(e.schema)),
	}

	for i, s := range raw {
		name := Normalize(s)
		enc.Normalized[i] = name

		if pos, ok := e.index[name]; ok {
			enc.Vector[pos] = 1
		} else {
			enc.Unknown = append(enc.Unknown, name)
		}
	}

	return enc, nil
}
