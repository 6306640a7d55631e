// Package middleware provides composable HTTP middleware and related configuration.
package middleware

import "net/http"

// System is an ordered middleware stack. Apply wraps a handler so that the
// first middleware added is the outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

type stack struct {
	wrappers []func(http.Handler) http.Handler
}

func (s *stack) Use(mw func(http.Handler) http.Handler) {
	s.wrappers = append(s.wrappers, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(s.wrappers) - 1; i >= 0; i-- {
		wrapped = s.wrappers[i](wrapped)
	}
	return wrapped
}
