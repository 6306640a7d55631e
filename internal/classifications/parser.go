package classifications

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

const (
	parseFailurePrefix = "Failed to parse model response: "
	parseExcerptRunes  = 500
)

// parsed holds the structured outcome of a classify-stage response.
// A degraded result carries only diagnostic reasoning.
type parsed struct {
	PrimaryNodeID    *uuid.UUID
	SecondaryNodeIDs []uuid.UUID
	Confidence       *float64
	Reasoning        string
	Degraded         bool
}

type classifyPayload struct {
	Primary *struct {
		NodeID    string `json:"node_id"`
		Reasoning string `json:"reasoning"`
	} `json:"primary"`
	Secondaries []struct {
		NodeID string `json:"node_id"`
	} `json:"secondaries"`
	Confidence *float64 `json:"confidence"`
}

// parseClassification extracts the primary node, up to two secondary nodes,
// and the confidence value from the model's classify response. It never
// fails: any structural problem degrades to a result whose reasoning holds a
// fixed prefix plus a bounded excerpt of the raw input, so the classification
// still persists with visible diagnostic content.
func parseClassification(raw string) parsed {
	cleaned := stripCodeFences(raw)

	var payload classifyPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return degraded(raw)
	}

	if payload.Primary == nil {
		return degraded(raw)
	}

	primary, err := uuid.Parse(payload.Primary.NodeID)
	if err != nil {
		return degraded(raw)
	}

	secondaries := make([]uuid.UUID, 0, 2)
	for _, s := range payload.Secondaries {
		if s.NodeID == "" {
			continue
		}
		id, err := uuid.Parse(s.NodeID)
		if err != nil {
			return degraded(raw)
		}
		if len(secondaries) < 2 {
			secondaries = append(secondaries, id)
		}
	}

	// Confidence is passed through as given, without range clamping.
	return parsed{
		PrimaryNodeID:    &primary,
		SecondaryNodeIDs: secondaries,
		Confidence:       payload.Confidence,
		Reasoning:        payload.Primary.Reasoning,
	}
}

// stripCodeFences removes a single leading and trailing fence line if present.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = ""
		}
	}
	if strings.HasSuffix(cleaned, "```") {
		if idx := strings.LastIndex(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[:idx]
		} else {
			cleaned = ""
		}
	}

	return cleaned
}

func degraded(raw string) parsed {
	return parsed{
		SecondaryNodeIDs: []uuid.UUID{},
		Reasoning:        parseFailurePrefix + truncateRunes(raw, parseExcerptRunes),
		Degraded:         true,
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
