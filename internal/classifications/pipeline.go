package classifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sortinghat-io/sortinghat/internal/llm"
	"github.com/sortinghat-io/sortinghat/internal/scraper"
	"github.com/sortinghat-io/sortinghat/internal/taxonomy"
)

const (
	// stepOutputLimit bounds persisted stage text in runes.
	stepOutputLimit = 10000
	// summarizeInputLimit bounds the page text sent to the summarize prompt.
	summarizeInputLimit = 8000
)

// store persists pipeline progress. Implemented by the repository.
type store interface {
	insertClassification(ctx context.Context, url, model, params string) (*Classification, error)
	markScraped(ctx context.Context, id uuid.UUID, rawContent string, htmlKey *string) error
	markSummarized(ctx context.Context, id uuid.UUID, summary, model string) error
	markClassified(ctx context.Context, id uuid.UUID, res parsed, model string) error
	markFailed(ctx context.Context, id uuid.UUID) error
	insertStep(ctx context.Context, step *Step) error
}

// extractor fetches a page and extracts its readable text.
type extractor interface {
	FetchAndExtract(ctx context.Context, pageURL string) (*scraper.Result, error)
}

// completer sends chat completion requests.
type completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// nodeSource provides the taxonomy tree for the classify prompt.
type nodeSource interface {
	ListNodes(ctx context.Context, filters taxonomy.NodeFilters) ([]taxonomy.Node, error)
}

// archiver stores raw page snapshots. Nil when blob storage is disabled.
type archiver interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
}

// pipeline runs the scrape, summarize, classify stages for one submission,
// persisting a step record per stage and advancing the row status.
type pipeline struct {
	store        store
	extractor    extractor
	completer    completer
	nodes        nodeSource
	blobs        archiver
	stageTimeout time.Duration
	provider     string
	model        string
	temperature  float64
	maxTokens    int
	logger       *slog.Logger
}

type modelParams struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Run executes the full pipeline for cmd. Any stage failure marks the row
// failed and returns an error; earlier stage results remain persisted.
func (p *pipeline) Run(ctx context.Context, cmd SubmitCommand) (*Classification, error) {
	provider := cmd.Provider
	if provider == "" {
		provider = p.provider
	}
	model := cmd.Model
	if model == "" {
		model = p.model
	}

	params, err := json.Marshal(modelParams{
		Provider:    provider,
		Model:       model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode model params: %w", err)
	}

	c, err := p.store.insertClassification(ctx, cmd.URL, model, string(params))
	if err != nil {
		return nil, err
	}

	text, err := p.scrapeStage(ctx, c)
	if err != nil {
		return nil, p.fail(ctx, c.ID, StepScrape, err)
	}

	summary, err := p.summarizeStage(ctx, c, provider, model, text)
	if err != nil {
		return nil, p.fail(ctx, c.ID, StepSummarize, err)
	}

	if err := p.classifyStage(ctx, c, provider, model, summary); err != nil {
		return nil, p.fail(ctx, c.ID, StepClassify, err)
	}

	p.logger.Info(
		"classification complete",
		"id", c.ID,
		"url", c.URL,
		"primary_node_id", c.PrimaryNodeID,
	)

	return c, nil
}

func (p *pipeline) scrapeStage(ctx context.Context, c *Classification) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	start := time.Now()
	result, err := p.extractor.FetchAndExtract(sctx, c.URL)
	if err != nil {
		return "", err
	}
	latency := time.Since(start).Milliseconds()

	text := truncateRunes(result.Text, stepOutputLimit)
	htmlKey := p.archive(ctx, c.ID, result.RawHTML)

	if err := p.store.markScraped(ctx, c.ID, text, htmlKey); err != nil {
		return "", err
	}

	if err := p.saveStep(ctx, &Step{
		ClassificationID: c.ID,
		Kind:             StepScrape,
		InputText:        c.URL,
		OutputText:       text,
		LatencyMS:        latency,
	}); err != nil {
		return "", err
	}

	c.Status = StatusScraped
	c.RawContent = text
	c.HTMLStorageKey = htmlKey

	return result.Text, nil
}

func (p *pipeline) summarizeStage(ctx context.Context, c *Classification, provider, model, text string) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	input := truncateRunes(text, summarizeInputLimit)

	start := time.Now()
	resp, err := p.completer.Complete(sctx, llm.Request{
		Provider: provider,
		Model:    model,
		Messages: []llm.Message{
			{Role: "system", Content: summarizeSystem},
			{Role: "user", Content: fmt.Sprintf(summarizeUser, input)},
		},
	})
	if err != nil {
		return "", err
	}
	latency := time.Since(start).Milliseconds()

	if err := p.store.markSummarized(ctx, c.ID, resp.Content, resp.Model); err != nil {
		return "", err
	}

	if err := p.saveStep(ctx, &Step{
		ClassificationID: c.ID,
		Kind:             StepSummarize,
		InputText:        input,
		OutputText:       truncateRunes(resp.Content, stepOutputLimit),
		ModelUsed:        resp.Model,
		TokensUsed:       resp.Usage.TotalTokens,
		LatencyMS:        latency,
	}); err != nil {
		return "", err
	}

	c.Status = StatusSummarized
	c.ProductSummary = resp.Content
	c.ModelUsed = resp.Model

	return resp.Content, nil
}

func (p *pipeline) classifyStage(ctx context.Context, c *Classification, provider, model, summary string) error {
	nodes, err := p.nodes.ListNodes(ctx, taxonomy.NodeFilters{})
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}

	sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	start := time.Now()
	resp, err := p.completer.Complete(sctx, llm.Request{
		Provider: provider,
		Model:    model,
		Messages: []llm.Message{
			{Role: "system", Content: classifySystem},
			{Role: "user", Content: fmt.Sprintf(classifyUser, summary, taxonomyListing(nodes))},
		},
	})
	if err != nil {
		return err
	}
	latency := time.Since(start).Milliseconds()

	res := parseClassification(resp.Content)
	if res.Degraded {
		p.logger.Warn("classify response degraded", "id", c.ID, "model", resp.Model)
	}

	if err := p.store.markClassified(ctx, c.ID, res, resp.Model); err != nil {
		return err
	}

	if err := p.saveStep(ctx, &Step{
		ClassificationID: c.ID,
		Kind:             StepClassify,
		InputText:        truncateRunes(summary, stepOutputLimit),
		OutputText:       truncateRunes(resp.Content, stepOutputLimit),
		ModelUsed:        resp.Model,
		TokensUsed:       resp.Usage.TotalTokens,
		LatencyMS:        latency,
	}); err != nil {
		return err
	}

	c.Status = StatusClassified
	c.PrimaryNodeID = res.PrimaryNodeID
	c.SecondaryNodeIDs = res.SecondaryNodeIDs
	c.ConfidenceScore = res.Confidence
	c.Reasoning = res.Reasoning
	c.ModelUsed = resp.Model

	return nil
}

func (p *pipeline) saveStep(ctx context.Context, step *Step) error {
	if err := p.store.insertStep(ctx, step); err != nil {
		return fmt.Errorf("save %s step: %w", step.Kind, err)
	}
	return nil
}

// archive stores the raw page snapshot. Failures are logged, not fatal.
func (p *pipeline) archive(ctx context.Context, id uuid.UUID, raw string) *string {
	if p.blobs == nil || raw == "" {
		return nil
	}

	key := fmt.Sprintf("classifications/%s/page.html", id)
	if err := p.blobs.Upload(ctx, key, strings.NewReader(raw), "text/html"); err != nil {
		p.logger.Warn("raw html archive failed", "id", id, "error", err)
		return nil
	}

	return &key
}

// fail marks the row failed using a detached context so a stage timeout does
// not also abort the status write.
func (p *pipeline) fail(ctx context.Context, id uuid.UUID, kind StepKind, cause error) error {
	if err := p.store.markFailed(context.WithoutCancel(ctx), id); err != nil {
		p.logger.Error("failed status write failed", "id", id, "error", err)
	}

	return fmt.Errorf("%w: %s stage: %v", ErrClassification, kind, cause)
}
