package classifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sortinghat-io/sortinghat/internal/llm"
	"github.com/sortinghat-io/sortinghat/internal/scraper"
	"github.com/sortinghat-io/sortinghat/internal/taxonomy"
	"github.com/sortinghat-io/sortinghat/pkg/pagination"
	"github.com/sortinghat-io/sortinghat/pkg/query"
	"github.com/sortinghat-io/sortinghat/pkg/repository"
	"github.com/sortinghat-io/sortinghat/pkg/storage"
)

// Dependencies wires the collaborators the classification system requires.
// Storage may be nil when blob archival is disabled.
type Dependencies struct {
	DB         *sql.DB
	Taxonomy   taxonomy.System
	Scraper    *scraper.Scraper
	LLM        *llm.Client
	Storage    storage.System
	LLMConfig  *llm.Config
	Pagination pagination.Config
}

type repo struct {
	db       *sql.DB
	taxonomy taxonomy.System
	blobs    storage.System
	pipeline *pipeline
	pageCfg  pagination.Config
	logger   *slog.Logger
}

// New creates a classification repository implementing the System interface.
func New(deps Dependencies, logger *slog.Logger) System {
	log := logger.With("system", "classifications")

	r := &repo{
		db:       deps.DB,
		taxonomy: deps.Taxonomy,
		blobs:    deps.Storage,
		pageCfg:  deps.Pagination,
		logger:   log,
	}

	r.pipeline = &pipeline{
		store:        r,
		extractor:    deps.Scraper,
		completer:    deps.LLM,
		nodes:        deps.Taxonomy,
		blobs:        deps.Storage,
		stageTimeout: deps.LLMConfig.StageTimeoutDuration(),
		provider:     deps.LLMConfig.Provider,
		model:        deps.LLMConfig.Model,
		temperature:  deps.LLMConfig.Temperature,
		maxTokens:    deps.LLMConfig.MaxTokens,
		logger:       log,
	}

	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.pageCfg, r.logger)
}

func (r *repo) Classify(ctx context.Context, cmd SubmitCommand) (*Result, error) {
	if err := validateURL(cmd.URL); err != nil {
		return nil, err
	}

	c, err := r.pipeline.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	result := r.decorate(ctx, *c)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Detail, error) {
	var (
		c     *Classification
		steps []Step
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = r.findRow(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		steps, err = r.findSteps(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Detail{
		Result: r.decorate(ctx, *c),
		Steps:  steps,
	}, nil
}

func (r *repo) List(ctx context.Context, page pagination.Request, filters Filters) (*pagination.Result[Classification], error) {
	page.Normalize(r.pageCfg)

	qb := query.NewBuilder(classificationProjection, classificationSort...)
	filters.Apply(qb)

	countQuery, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}

	q, args := qb.BuildWindow(page.Limit, page.Offset)
	rows, err := repository.QueryMany(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}

	result := pagination.NewResult(rows, total, page.Limit, page.Offset)
	return &result, nil
}

func (r *repo) ArchivedPage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	c, err := r.findRow(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.blobs == nil || c.HTMLStorageKey == nil {
		return nil, ErrNoArchive
	}

	reader, err := r.blobs.Download(ctx, *c.HTMLStorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoArchive
		}
		return nil, fmt.Errorf("download archived page: %w", err)
	}

	return reader, nil
}

// decorate resolves human-readable node paths for a finished classification.
// Unresolvable node ids leave the path unset rather than failing the request.
func (r *repo) decorate(ctx context.Context, c Classification) Result {
	result := Result{
		Classification:     c,
		SecondaryNodePaths: []string{},
	}

	if c.PrimaryNodeID != nil {
		if path, err := r.taxonomy.ResolvePath(ctx, *c.PrimaryNodeID); err == nil {
			result.PrimaryNodePath = &path
		} else {
			r.logger.Warn("primary node path unresolved", "id", c.ID, "node_id", *c.PrimaryNodeID)
		}
	}

	for _, nodeID := range c.SecondaryNodeIDs {
		path, err := r.taxonomy.ResolvePath(ctx, nodeID)
		if err != nil {
			r.logger.Warn("secondary node path unresolved", "id", c.ID, "node_id", nodeID)
			continue
		}
		result.SecondaryNodePaths = append(result.SecondaryNodePaths, path)
	}

	return result
}

func (r *repo) findRow(ctx context.Context, id uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(classificationProjection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &c, nil
}

func (r *repo) findSteps(ctx context.Context, id uuid.UUID) ([]Step, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE s.classification_id = $1 ORDER BY s.created_at",
		stepProjection.Columns(),
		stepProjection.From(),
	)

	steps, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanStep)
	if err != nil {
		return nil, fmt.Errorf("query classification steps: %w", err)
	}
	return steps, nil
}

const classificationColumns = `id, url, status, raw_content, product_summary,
		primary_node_id, secondary_node_ids, confidence_score, model_used,
		model_params, reasoning, html_storage_key, created_at`

func (r *repo) insertClassification(ctx context.Context, pageURL, model, params string) (*Classification, error) {
	q := fmt.Sprintf(`
		INSERT INTO classifications(id, url, status, model_used, model_params)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		RETURNING %s`, classificationColumns)

	args := []any{uuid.New(), pageURL, StatusCreated, model, params}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		return repository.QueryOne(ctx, tx, q, args, scanClassification)
	})
	if err != nil {
		return nil, fmt.Errorf("insert classification: %w", err)
	}

	r.logger.Info("classification created", "id", c.ID, "url", c.URL)
	return &c, nil
}

func (r *repo) markScraped(ctx context.Context, id uuid.UUID, rawContent string, htmlKey *string) error {
	return repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE classifications SET status = $2, raw_content = $3, html_storage_key = $4 WHERE id = $1",
		id, StatusScraped, rawContent, htmlKey,
	)
}

func (r *repo) markSummarized(ctx context.Context, id uuid.UUID, summary, model string) error {
	return repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE classifications SET status = $2, product_summary = $3, model_used = $4 WHERE id = $1",
		id, StatusSummarized, summary, model,
	)
}

func (r *repo) markClassified(ctx context.Context, id uuid.UUID, res parsed, model string) error {
	return repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE classifications SET
			status = $2,
			primary_node_id = $3,
			secondary_node_ids = $4::uuid[],
			confidence_score = $5,
			reasoning = $6,
			model_used = $7
		WHERE id = $1`,
		id, StatusClassified, res.PrimaryNodeID, uuidArray(res.SecondaryNodeIDs),
		res.Confidence, res.Reasoning, model,
	)
}

func (r *repo) markFailed(ctx context.Context, id uuid.UUID) error {
	return repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE classifications SET status = $2 WHERE id = $1",
		id, StatusFailed,
	)
}

func (r *repo) insertStep(ctx context.Context, step *Step) error {
	q := `
		INSERT INTO classification_steps(
			id, classification_id, step_type, input_text, output_text,
			model_used, tokens_used, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, classification_id, step_type, input_text, output_text,
			model_used, tokens_used, latency_ms, created_at`

	args := []any{
		uuid.New(),
		step.ClassificationID,
		step.Kind,
		step.InputText,
		step.OutputText,
		step.ModelUsed,
		step.TokensUsed,
		step.LatencyMS,
	}

	saved, err := repository.QueryOne(ctx, r.db, q, args, scanStep)
	if err != nil {
		return err
	}

	*step = saved
	return nil
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrInvalidURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
