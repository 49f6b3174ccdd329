package table

import "errors"

// Sentinel errors for table loading.
var (
	ErrFileNotFound         = errors.New("file not found")
	ErrSeparatorNotDetected = errors.New("separator not detected, pass it explicitly with --sep")
	ErrInvalidSeparator     = errors.New("invalid separator")
	ErrRaggedRow            = errors.New("row has more fields than the header")
	ErrNoHeader             = errors.New("no header row")
)
