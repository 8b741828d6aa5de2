// Package artifact bundles a trained classifier with the schema and class
// names it was trained on, and persists the bundle as a versioned blob.
//
// The schema travels with the classifier so serving never re-derives the
// feature order from a dataset snapshot that may have changed.
package artifact

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/prognosis/internal/symptoms"
	"github.com/JaimeStill/prognosis/pkg/forest"
	"github.com/JaimeStill/prognosis/pkg/storage"
)

const (
	// ContentType is the storage content type of encoded artifacts.
	ContentType = "application/x-prognosis-model"

	// FormatVersion is written after the magic bytes of every blob.
	FormatVersion uint16 = 1
)

var (
	magic     = [4]byte{'P', 'R', 'G', 'N'}
	byteOrder = binary.LittleEndian
)

// Metrics summarizes the split used to train the artifact.
type Metrics struct {
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	Accuracy  float64 `json:"accuracy"`
}

// Artifact is a trained, predict-capable model bundle. It is immutable once
// built or decoded and safe for concurrent Predict calls.
type Artifact struct {
	ID          uuid.UUID
	TrainedAt   time.Time
	DatasetPath string
	Label       string
	Schema      symptoms.Schema
	Classes     []string
	Seed        int64
	Metrics     Metrics
	Forest      *forest.Forest
}

// Predict returns the class name the forest assigns to each row of batch.
// Every row must be aligned to the artifact's Schema.
func (a *Artifact) Predict(batch [][]float64) ([]string, error) {
	if a.Forest == nil {
		return nil, forest.ErrNotFitted
	}

	idx, err := a.Forest.Predict(batch)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(idx))
	for i, c := range idx {
		if c < 0 || c >= len(a.Classes) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownClass, c)
		}
		labels[i] = a.Classes[c]
	}
	return labels, nil
}

// Symptoms returns the schema feature vectors must be aligned to.
func (a *Artifact) Symptoms() symptoms.Schema {
	return a.Schema
}

// Features returns the schema length.
func (a *Artifact) Features() int {
	return len(a.Schema)
}

// Encode writes the magic header, format version, and gob-encoded bundle.
func (a *Artifact) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(bw, byteOrder, FormatVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := gob.NewEncoder(bw).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	return bw.Flush()
}

// Decode reads an artifact written by Encode.
func Decode(r io.Reader) (*Artifact, error) {
	br := bufio.NewReader(r)

	var header [4]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrCorrupt, err)
	}
	if header != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, header[:])
	}

	var version uint16
	if err := binary.Read(br, byteOrder, &version); err != nil {
		return nil, fmt.Errorf("%w: read version: %w", ErrCorrupt, err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var a Artifact
	if err := gob.NewDecoder(br).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return &a, nil
}

// validate rejects bundles that would fail or panic on the first Predict.
// The forest may know fewer classes than the bundle when a label only
// appeared in the held-out rows.
func (a *Artifact) validate() error {
	if a.Forest == nil || len(a.Schema) == 0 || len(a.Classes) == 0 {
		return errors.New("incomplete bundle")
	}
	if a.Forest.Features != len(a.Schema) {
		return fmt.Errorf("forest expects %d features, schema has %d", a.Forest.Features, len(a.Schema))
	}
	if a.Forest.Classes > len(a.Classes) {
		return fmt.Errorf("forest has %d classes, bundle names %d", a.Forest.Classes, len(a.Classes))
	}
	return a.Forest.Validate()
}

// Save encodes a and uploads it to store under key, replacing any prior artifact.
// It returns the encoded size in bytes.
func Save(ctx context.Context, store storage.System, key string, a *Artifact) (int64, error) {
	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		return 0, err
	}
	size := int64(buf.Len())

	if err := store.Upload(ctx, key, &buf, ContentType); err != nil {
		return 0, fmt.Errorf("save artifact: %w", err)
	}
	return size, nil
}

// Load downloads and decodes the artifact stored under key.
// A missing blob returns ErrNotFound.
func Load(ctx context.Context, store storage.System, key string) (*Artifact, int64, error) {
	rc, err := store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, 0, fmt.Errorf("load artifact: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, 0, fmt.Errorf("read artifact: %w", err)
	}

	a, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	return a, int64(len(data)), nil
}
