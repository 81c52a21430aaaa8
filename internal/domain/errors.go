package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRequest    = errors.New("invalid generation request")
	ErrTransient         = errors.New("transient network error")
	ErrRateLimited       = errors.New("rate limited")
	ErrMalformedResponse = errors.New("malformed completion response")
	ErrEmptyCompletion   = errors.New("empty completion")
)
