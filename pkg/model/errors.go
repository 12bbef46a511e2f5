package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error tags classify failures so that transport layers can map them
// to status codes without string matching.
var (
	// ErrTagValidation marks caller input that fails a precondition
	ErrTagValidation = goerr.NewTag("validation")
	// ErrTagNotFound marks lookups of records that do not exist
	ErrTagNotFound = goerr.NewTag("not_found")
	// ErrTagStore marks durable-store failures
	ErrTagStore = goerr.NewTag("store")
	// ErrTagTransport marks provider calls that never produced a
	// well-formed response
	ErrTagTransport = goerr.NewTag("transport")
)

// ValidationError builds a validation-tagged error with an offending
// key/value pair for context.
func ValidationError(msg string, key string, value any) error {
	return goerr.New(msg, goerr.T(ErrTagValidation), goerr.V(key, value))
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return goerr.HasTag(err, ErrTagValidation)
}

// IsNotFound reports whether err means a record does not exist.
func IsNotFound(err error) bool {
	return goerr.HasTag(err, ErrTagNotFound)
}

// IsTransport reports whether err is a provider transport failure.
func IsTransport(err error) bool {
	return goerr.HasTag(err, ErrTagTransport)
}
