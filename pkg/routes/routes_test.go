package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sortinghat-io/sortinghat/pkg/routes"
)

func handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

func TestRegister(t *testing.T) {
	t.Run("routes mounted under prefix", func(t *testing.T) {
		mux := http.NewServeMux()
		routes.Register(mux, routes.Group{
			Prefix: "/nodes",
			Routes: []routes.Route{
				{Method: http.MethodGet, Pattern: "", Handler: handler(http.StatusOK)},
				{Method: http.MethodPost, Pattern: "", Handler: handler(http.StatusCreated)},
				{Method: http.MethodGet, Pattern: "/{id}", Handler: handler(http.StatusOK)},
			},
		})

		tests := []struct {
			name   string
			method string
			path   string
			want   int
		}{
			{"list", http.MethodGet, "/nodes", http.StatusOK},
			{"create", http.MethodPost, "/nodes", http.StatusCreated},
			{"detail", http.MethodGet, "/nodes/abc", http.StatusOK},
			{"method mismatch", http.MethodDelete, "/nodes", http.StatusMethodNotAllowed},
			{"unknown path", http.MethodGet, "/other", http.StatusNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
				if rec.Code != tt.want {
					t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
				}
			})
		}
	})

	t.Run("child groups nest prefixes", func(t *testing.T) {
		mux := http.NewServeMux()
		routes.Register(mux, routes.Group{
			Prefix: "/taxonomy",
			Children: []routes.Group{
				{
					Prefix: "/governance-groups",
					Routes: []routes.Route{
						{Method: http.MethodGet, Pattern: "", Handler: handler(http.StatusOK)},
						{Method: http.MethodGet, Pattern: "/{slug}", Handler: handler(http.StatusOK)},
					},
				},
				{
					Prefix: "/nodes",
					Routes: []routes.Route{
						{Method: http.MethodGet, Pattern: "/{id}/subtree", Handler: handler(http.StatusOK)},
					},
				},
			},
		})

		paths := []string{
			"/taxonomy/governance-groups",
			"/taxonomy/governance-groups/security",
			"/taxonomy/nodes/abc/subtree",
		}
		for _, path := range paths {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("GET %s = %d, want 200", path, rec.Code)
			}
		}

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/governance-groups", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("child route reachable without parent prefix: %d", rec.Code)
		}
	})

	t.Run("multiple top level groups", func(t *testing.T) {
		mux := http.NewServeMux()
		routes.Register(mux,
			routes.Group{
				Prefix: "/classify",
				Routes: []routes.Route{{Method: http.MethodPost, Pattern: "", Handler: handler(http.StatusCreated)}},
			},
			routes.Group{
				Prefix: "/taxonomy",
				Routes: []routes.Route{{Method: http.MethodGet, Pattern: "/nodes", Handler: handler(http.StatusOK)}},
			},
		)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/classify", nil))
		if rec.Code != http.StatusCreated {
			t.Errorf("POST /classify = %d, want 201", rec.Code)
		}

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/taxonomy/nodes", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET /taxonomy/nodes = %d, want 200", rec.Code)
		}
	})
}
