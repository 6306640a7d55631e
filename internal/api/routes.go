package api

import (
	"net/http"

	"github.com/sortinghat-io/sortinghat/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Taxonomy.Handler().Routes(),
		domain.Classifications.Handler().Routes(),
	)
}
