package routes

import "net/http"

// Group organizes routes under a shared prefix. Child groups nest their
// prefixes beneath the parent's.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register walks the given groups and adds every route to the mux using
// method-qualified patterns.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.register(mux, "")
	}
}

func (g Group) register(mux *http.ServeMux, parent string) {
	prefix := parent + g.Prefix

	for _, r := range g.Routes {
		mux.HandleFunc(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		child.register(mux, prefix)
	}
}
