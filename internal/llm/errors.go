package llm

import "errors"

var (
	// ErrUnknownProvider indicates the requested provider is not configured.
	ErrUnknownProvider = errors.New("unknown completion provider")
	// ErrNoMessages indicates a completion request without messages.
	ErrNoMessages = errors.New("at least one message is required")
	// ErrCompletion indicates the provider call failed or returned an
	// unusable response.
	ErrCompletion = errors.New("completion failed")
)
