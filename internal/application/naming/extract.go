package naming

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*[ \\t]*\\r?\\n?(.*?)```")

	// drops everything but letters, digits and spaces
	disallowedName = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	apostrophes    = strings.NewReplacer("'", "", "\u2019", "")
	numberWords    = map[string]struct{}{
		"one": {}, "two": {}, "three": {}, "four": {}, "five": {}, "six": {},
		"seven": {}, "eight": {}, "nine": {}, "ten": {}, "eleven": {}, "twelve": {},
		"dozen": {}, "hundred": {}, "thousand": {},
	}
)

// ExtractJSON returns the body of the first fenced code block in raw, or the
// trimmed text itself when there is no fence. An unterminated opening fence is
// stripped.
func ExtractJSON(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty response", ErrEmptyCompletion)
	}
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	if strings.HasPrefix(raw, "```") {
		body := strings.TrimPrefix(raw, "```")
		body = strings.TrimLeftFunc(body, unicode.IsLetter)
		return strings.TrimSpace(body), nil
	}
	return raw, nil
}

type generated struct {
	ProductName *string `json:"product_name"`
	Description *string `json:"description"`
}

// parseProduct decodes the JSON object and checks both keys are present
func parseProduct(body string) (name, description string, err error) {
	var g generated
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	if g.ProductName == nil || g.Description == nil {
		return "", "", fmt.Errorf("%w: missing 'product_name' or 'description' key", ErrMalformedCompletion)
	}
	return *g.ProductName, *g.Description, nil
}

// SanitizeName enforces the product naming rules on model output: letters,
// digits and single spaces only, no spelled out numbers, title case.
func SanitizeName(name string) string {
	name = apostrophes.Replace(name)
	name = disallowedName.ReplaceAllString(name, " ")
	words := strings.Fields(name)
	kept := words[:0]
	for _, w := range words {
		if _, isNumber := numberWords[strings.ToLower(w)]; isNumber {
			continue
		}
		kept = append(kept, w)
	}
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(strings.Join(kept, " "))
}
