// Package routes declares HTTP routes as data for registration on a ServeMux.
package routes

import "net/http"

// Route binds a method and pattern to a handler. The pattern is relative to
// the enclosing group's prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
