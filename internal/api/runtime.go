package api

import (
	"github.com/sortinghat-io/sortinghat/internal/config"
	"github.com/sortinghat-io/sortinghat/internal/infrastructure"
	"github.com/sortinghat-io/sortinghat/internal/llm"
	"github.com/sortinghat-io/sortinghat/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	LLMConfig  *llm.Config
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Scraper:   infra.Scraper,
			LLM:       infra.LLM,
		},
		LLMConfig:  &cfg.LLM,
		Pagination: cfg.API.Pagination,
	}
}
