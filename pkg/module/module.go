// Package module mounts routers under path prefixes with per-module middleware.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sortinghat-io/sortinghat/pkg/middleware"
)

// Module wraps an inner router with its own middleware stack and serves it
// with the mount prefix stripped from incoming request paths.
type Module struct {
	prefix string
	router http.Handler
	stack  middleware.System
}

// New creates a Module mounted at prefix. The prefix must be a single path
// segment with a leading slash, e.g. "/api"; anything else panics since a bad
// mount point is a programming error caught at assembly time.
func New(prefix string, router http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix: prefix,
		router: router,
		stack:  middleware.New(),
	}
}

// Prefix returns the module's mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// Handler returns the inner router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.stack.Apply(m.router)
}

// Serve dispatches req to the inner router with the mount prefix removed.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	inner := req.Clone(req.Context())
	inner.URL.Path = strippedPath(req.URL.Path, m.prefix)
	inner.URL.RawPath = ""

	m.Handler().ServeHTTP(w, inner)
}

func strippedPath(full, prefix string) string {
	rest := strings.TrimPrefix(full, prefix)
	if rest == "" {
		return "/"
	}
	return rest
}

func checkPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
