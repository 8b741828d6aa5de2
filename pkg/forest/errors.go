package forest

import "errors"

var (
	// ErrEmpty indicates Fit was called without samples.
	ErrEmpty = errors.New("forest: empty X")
	// ErrLengthMismatch indicates X and y have different lengths.
	ErrLengthMismatch = errors.New("forest: X and y length mismatch")
	// ErrInconsistentFeatures indicates rows of X have different widths.
	ErrInconsistentFeatures = errors.New("forest: inconsistent number of features in X rows")
	// ErrInvalidLabel indicates a negative class label.
	ErrInvalidLabel = errors.New("forest: class labels must be non-negative")
	// ErrNotFitted indicates prediction on an untrained model.
	ErrNotFitted = errors.New("forest: model not fitted")
	// ErrDimensionMismatch indicates a prediction row has the wrong width.
	ErrDimensionMismatch = errors.New("forest: feature dimension mismatch")
	// ErrUnknownCriterion indicates a split criterion other than gini or entropy.
	ErrUnknownCriterion = errors.New("forest: unknown criterion")
	// ErrInvalidModel indicates a forest whose trees do not match its shape.
	ErrInvalidModel = errors.New("forest: invalid model")
)
