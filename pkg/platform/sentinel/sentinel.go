// Package sentinel holds the storage-level facts stores report. Services
// translate them into coded domain errors; handlers never see them.
package sentinel

import "errors"

var (
	// ErrNotFound means no record has the requested key.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means the backing database did not answer.
	ErrUnavailable = errors.New("store unavailable")
)
