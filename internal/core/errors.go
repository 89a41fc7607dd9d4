package core

import "errors"

var (
	// ErrEmptyQuery is the only hard rejection the conversation core
	// propagates to callers: missing required input.
	ErrEmptyQuery = errors.New("query is required")

	// ErrNotFound signals a missing chat or fact key on explicit lookups
	// and deletes.
	ErrNotFound = errors.New("not found")
)
