package naming

import (
	"fmt"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/catalog"
)

const promptTemplate = `Generate a name of a product that can be sold online in the %s category.
Rules:
- Use title case.
- No punctuation.
- No parentheses, dashes, or dollar signs.
- No amounts or numbers as words.
- Use simple phrases.
- Examples: 'LED Light Bulbs', 'Bath Towel'
Additionally, provide a brief description (up to %d characters) of the product.
Return the output as a JSON object with 'product_name' and 'description' fields, wrapped in triple backticks (` + "```json\\n{}\\n```" + `).
Example:
` + "```json" + `
{
    "product_name": "LED Light Bulbs",
    "description": "Bright energy saving lights"
}
` + "```"

// BuildPrompt returns the instruction sent to the language model for category
func BuildPrompt(category catalog.Category) string {
	return fmt.Sprintf(promptTemplate, category, catalog.MaxDescriptionLength)
}
