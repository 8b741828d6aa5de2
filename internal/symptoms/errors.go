package symptoms

import "errors"

// Schema errors. These are fatal at training and serving startup.
var (
	ErrNoLabelColumn  = errors.New("no 'prognosis' or 'disease' column found")
	ErrNoFeatures     = errors.New("dataset has no symptom columns")
	ErrNoRows         = errors.New("dataset has no rows")
	ErrSchemaMismatch = errors.New("dataset schema does not match model schema")
)

// ErrNoSymptoms indicates a request carried no symptoms at all.
var ErrNoSymptoms = errors.New("no symptoms provided")
