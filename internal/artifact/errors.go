package artifact

import "errors"

var (
	// ErrNotFound indicates no artifact exists at the configured key.
	ErrNotFound = errors.New("model artifact not found: run training first (go run ./cmd/train)")
	// ErrCorrupt indicates the stored blob could not be decoded.
	ErrCorrupt = errors.New("model artifact is corrupt")
	// ErrUnsupportedVersion indicates the blob was written by an incompatible format version.
	ErrUnsupportedVersion = errors.New("unsupported model artifact version")
	// ErrUnknownClass indicates the classifier produced an index with no class name.
	ErrUnknownClass = errors.New("classifier returned an unknown class index")
)
