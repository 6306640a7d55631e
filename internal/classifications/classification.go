// Package classifications implements the AI classification domain: the
// scrape, summarize, classify pipeline, its persisted audit trail, and the
// HTTP surface for submitting URLs and inspecting results.
package classifications

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks pipeline progress on a classification row.
type Status string

// Classification statuses, in pipeline order. Failed is terminal for any stage.
const (
	StatusCreated    Status = "created"
	StatusScraped    Status = "scraped"
	StatusSummarized Status = "summarized"
	StatusClassified Status = "classified"
	StatusFailed     Status = "failed"
)

// StepKind identifies a pipeline stage.
type StepKind string

// Pipeline stages in execution order.
const (
	StepScrape    StepKind = "scrape"
	StepSummarize StepKind = "summarize"
	StepClassify  StepKind = "classify"
)

// Classification is one AI-driven run classifying a URL into the taxonomy.
// Scalar fields are populated progressively as stages complete; after the
// request finishes the row is an immutable audit artifact.
type Classification struct {
	ID               uuid.UUID   `json:"id"`
	URL              string      `json:"url"`
	Status           Status      `json:"status"`
	RawContent       string      `json:"raw_content"`
	ProductSummary   string      `json:"product_summary"`
	PrimaryNodeID    *uuid.UUID  `json:"primary_node_id"`
	SecondaryNodeIDs []uuid.UUID `json:"secondary_node_ids"`
	ConfidenceScore  *float64    `json:"confidence_score"`
	ModelUsed        string      `json:"model_used"`
	ModelParams      string      `json:"model_params"`
	Reasoning        string      `json:"reasoning"`
	HTMLStorageKey   *string     `json:"html_storage_key"`
	CreatedAt        time.Time   `json:"created_at"`
}

// Step is one persisted pipeline stage record. Steps are appended in stage
// order and never mutated; they are removed only by cascading delete of the
// parent classification.
type Step struct {
	ID               uuid.UUID `json:"id"`
	ClassificationID uuid.UUID `json:"classification_id"`
	Kind             StepKind  `json:"step_type"`
	InputText        string    `json:"input_text"`
	OutputText       string    `json:"output_text"`
	ModelUsed        string    `json:"model_used"`
	TokensUsed       int       `json:"tokens_used"`
	LatencyMS        int64     `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// Result is a classification decorated with human-readable node paths.
type Result struct {
	Classification
	PrimaryNodePath    *string  `json:"primary_node_path"`
	SecondaryNodePaths []string `json:"secondary_node_paths"`
}

// Detail is a full classification including its ordered pipeline steps.
type Detail struct {
	Result
	Steps []Step `json:"steps"`
}

// SubmitCommand carries a classification request. Model and Provider
// override the configured defaults when set.
type SubmitCommand struct {
	URL      string `json:"url"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}
