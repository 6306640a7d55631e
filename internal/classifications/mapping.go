package classifications

import (
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/sortinghat-io/sortinghat/pkg/query"
	"github.com/sortinghat-io/sortinghat/pkg/repository"
)

var classificationProjection = query.
	NewProjectionMap("public", "classifications", "c").
	Project("id", "ID").
	Project("url", "URL").
	Project("status", "Status").
	Project("raw_content", "RawContent").
	Project("product_summary", "ProductSummary").
	Project("primary_node_id", "PrimaryNodeID").
	Project("secondary_node_ids", "SecondaryNodeIDs").
	Project("confidence_score", "ConfidenceScore").
	Project("model_used", "ModelUsed").
	Project("model_params", "ModelParams").
	Project("reasoning", "Reasoning").
	Project("html_storage_key", "HTMLStorageKey").
	Project("created_at", "CreatedAt")

var classificationSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
}

var stepProjection = query.
	NewProjectionMap("public", "classification_steps", "s").
	Project("id", "ID").
	Project("classification_id", "ClassificationID").
	Project("step_type", "Kind").
	Project("input_text", "InputText").
	Project("output_text", "OutputText").
	Project("model_used", "ModelUsed").
	Project("tokens_used", "TokensUsed").
	Project("latency_ms", "LatencyMS").
	Project("created_at", "CreatedAt")

// Filters contains optional filtering criteria for classification listings.
type Filters struct {
	URL    *string `json:"url,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("URL", f.URL).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if u := values.Get("url"); u != "" {
		f.URL = &u
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

// uuidArray maps a Postgres uuid[] column to a uuid slice using the text
// array representation, which the driver exposes for array columns.
type uuidArray []uuid.UUID

func (a *uuidArray) Scan(src any) error {
	var text string

	switch v := src.(type) {
	case nil:
		*a = uuidArray{}
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("cannot scan %T into uuid array", src)
	}

	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")
	if text == "" {
		*a = uuidArray{}
		return nil
	}

	parts := strings.Split(text, ",")
	ids := make(uuidArray, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.Trim(part, `" `))
		if err != nil {
			return fmt.Errorf("parse uuid array element %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	*a = ids
	return nil
}

func (a uuidArray) Value() (driver.Value, error) {
	parts := make([]string, len(a))
	for i, id := range a {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var (
		c           Classification
		secondaries uuidArray
	)

	err := s.Scan(
		&c.ID,
		&c.URL,
		&c.Status,
		&c.RawContent,
		&c.ProductSummary,
		&c.PrimaryNodeID,
		&secondaries,
		&c.ConfidenceScore,
		&c.ModelUsed,
		&c.ModelParams,
		&c.Reasoning,
		&c.HTMLStorageKey,
		&c.CreatedAt,
	)

	c.SecondaryNodeIDs = secondaries
	return c, err
}

func scanStep(s repository.Scanner) (Step, error) {
	var st Step
	err := s.Scan(
		&st.ID,
		&st.ClassificationID,
		&st.Kind,
		&st.InputText,
		&st.OutputText,
		&st.ModelUsed,
		&st.TokensUsed,
		&st.LatencyMS,
		&st.CreatedAt,
	)
	return st, err
}
