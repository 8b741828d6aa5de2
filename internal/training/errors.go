package training

import "errors"

// Training errors. Any of these aborts a training run.
var (
	ErrNoRows         = errors.New("dataset has no usable rows")
	ErrSingleClass    = errors.New("label column needs at least two distinct values")
	ErrInvalidValue   = errors.New("invalid symptom value")
	ErrMissingColumn  = errors.New("schema column missing from dataset")
	ErrInvalidOptions = errors.New("invalid training options")
	ErrNoHeldOutRows  = errors.New("no held-out rows to evaluate")
)
