package api

import (
	"github.com/sortinghat-io/sortinghat/internal/classifications"
	"github.com/sortinghat-io/sortinghat/internal/taxonomy"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Taxonomy        taxonomy.System
	Classifications classifications.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	taxonomySystem := taxonomy.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	classificationsSystem := classifications.New(
		classifications.Dependencies{
			DB:         runtime.Database.Connection(),
			Taxonomy:   taxonomySystem,
			Scraper:    runtime.Scraper,
			LLM:        runtime.LLM,
			Storage:    runtime.Storage,
			LLMConfig:  runtime.LLMConfig,
			Pagination: runtime.Pagination,
		},
		runtime.Logger,
	)

	return &Domain{
		Taxonomy:        taxonomySystem,
		Classifications: classificationsSystem,
	}
}
