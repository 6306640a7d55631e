package classifications

import (
	"fmt"
	"strings"

	"github.com/sortinghat-io/sortinghat/internal/taxonomy"
)

const summarizeSystem = `You are a product analyst. Given the content from a product's website, create a structured summary of what the product does.

Your summary must include:
1. **Product Name**: The name of the product
2. **Primary Function**: What the product does in 1-2 sentences
3. **Key Capabilities**: A bulleted list of the product's main features and capabilities
4. **Target Users**: Who uses this product (e.g., developers, IT admins, marketers)
5. **Category Signals**: Any keywords or phrases that indicate what category this product falls into

Be factual. Only include information present in the source content. Do not infer or guess.`

const summarizeUser = `Analyze the following product webpage content and create a structured summary:

---
%s
---

Provide the structured summary as described.`

const classifySystem = `You are an enterprise IT product classifier. Given a product summary and a taxonomy of categories with definitions, classify the product.

Rules:
- Assign exactly ONE primary category. This determines which governance team owns the product.
- Assign up to TWO secondary categories for cross-functional visibility. Secondary is optional.
- Classify by what the product DOES (capability), not how it's delivered (SaaS vs on-prem is irrelevant).
- Primary = "Which governance team owns the standard, evaluation, and lifecycle?"
- Secondary = "Which other governance teams have a legitimate interest or need visibility?"

Respond in this exact JSON format:
{
    "primary": {
        "node_id": "<uuid>",
        "node_path": "<full path like Software > Security > Endpoint Security>",
        "reasoning": "<why this is the primary category>"
    },
    "secondaries": [
        {
            "node_id": "<uuid>",
            "node_path": "<full path>",
            "reasoning": "<why this team needs visibility>"
        }
    ],
    "confidence": <float 0.0-1.0>
}`

const classifyUser = `## Product Summary

%s

## Taxonomy

%s

Classify this product into the taxonomy. Return JSON only.`

// taxonomyListing renders the full tree as an indented text listing for the
// classify prompt: two spaces per level below the group roots, each line
// carrying the node id, name, and definition.
func taxonomyListing(nodes []taxonomy.Node) string {
	lines := make([]string, 0, len(nodes))
	for _, node := range nodes {
		indent := strings.Repeat("  ", node.Level-1)
		line := fmt.Sprintf("%s- [%s] %s", indent, node.ID, node.Name)
		if node.Definition != "" {
			line += ": " + node.Definition
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
