package classifications

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/sortinghat-io/sortinghat/pkg/pagination"
)

// System defines the public contract for classification operations.
type System interface {
	Handler() *Handler

	// Classify runs the full scrape, summarize, classify pipeline for a URL
	// and returns the finished classification with resolved node paths.
	Classify(ctx context.Context, cmd SubmitCommand) (*Result, error)

	// Find returns a classification with its pipeline steps and node paths.
	Find(ctx context.Context, id uuid.UUID) (*Detail, error)

	// List returns a window of classifications, newest first.
	List(ctx context.Context, page pagination.Request, filters Filters) (*pagination.Result[Classification], error)

	// ArchivedPage streams the raw HTML archived during the scrape stage.
	// The caller must close the reader.
	ArchivedPage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
}
