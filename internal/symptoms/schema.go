// Package symptoms maps free-form symptom lists onto the fixed-order binary
// feature vectors a trained model expects.
package symptoms

import (
	"fmt"
	"slices"

	"github.com/JaimeStill/prognosis/pkg/dataset"
)

// Label column names, in order of preference.
const (
	LabelPrognosis = "prognosis"
	LabelDisease   = "disease"
)

// Schema is the ordered list of symptom column names defining the layout of
// a feature vector.
type Schema []string

// Resolve identifies the label column among columns and returns the remaining
// columns, in their original order, as the Schema. Repeated names are renamed
// with dataset.UniqueColumns first, so the Schema never holds duplicates.
func Resolve(columns []string) (Schema, string, error) {
	columns = dataset.UniqueColumns(columns)

	label := ""
	switch {
	case slices.Contains(columns, LabelPrognosis):
		label = LabelPrognosis
	case slices.Contains(columns, LabelDisease):
		label = LabelDisease
	default:
		return nil, "", ErrNoLabelColumn
	}

	schema := make(Schema, 0, len(columns)-1)
	for _, c := range columns {
		if c != label {
			schema = append(schema, c)
		}
	}

	if len(schema) == 0 {
		return nil, "", ErrNoFeatures
	}
	return schema, label, nil
}

// ResolveDataset resolves the schema of a dataset that has at least one row.
func ResolveDataset(ds *dataset.Dataset) (Schema, string, error) {
	if ds.Len() == 0 {
		return nil, "", ErrNoRows
	}
	return Resolve(ds.Columns)
}

// Equal reports whether both schemas list the same symptoms in the same order.
func (s Schema) Equal(other Schema) bool {
	return slices.Equal(s, other)
}

// Verify returns ErrSchemaMismatch describing the first difference between s
// and other, or nil when they are equal.
func (s Schema) Verify(other Schema) error {
	if s.Equal(other) {
		return nil
	}
	if len(s) != len(other) {
		return fmt.Errorf("%w: %d columns, want %d", ErrSchemaMismatch, len(other), len(s))
	}
	for i := range s {
		if s[i] != other[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, other[i], s[i])
		}
	}
	return nil
}
