package ollama

import (
	"regexp"
	"strings"

	"github.com/kirillkom/docsorter/internal/taxonomy"
)

const defaultMaxPromptChars = 1000

// delimiterPattern matches literal occurrences of the output-contract labels
// inside document text, so a document cannot forge the response format.
var delimiterPattern = regexp.MustCompile(`(?i)\b(sub-?category|category)\s*:`)

// BuildPrompt composes the classification prompt: the full taxonomy listing,
// the strict output instruction and a bounded, sanitized excerpt of the
// document text. It is a pure function of its inputs.
func BuildPrompt(registry *taxonomy.Registry, text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = defaultMaxPromptChars
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant trained to classify documents into specific categories.\n")
	b.WriteString("The available categories and their subcategories are:\n\n")
	for _, cat := range registry.Categories() {
		b.WriteString(cat.Name)
		b.WriteString(": ")
		b.WriteString(strings.Join(cat.Subcategories, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\nClassify the document below into the single most appropriate category and subcategory.\n")
	b.WriteString("Use the exact names from the list above. Do not invent categories.\n")
	b.WriteString("Respond with exactly one line in this format:\n")
	b.WriteString("Category: <name> / Subcategory: <name>\n")
	b.WriteString("Provide just that line without any explanation.\n\n")
	b.WriteString("Document content:\n")
	b.WriteString(sanitizeExcerpt(text, maxChars))
	return b.String()
}

// sanitizeExcerpt truncates the text to the character budget and neutralizes
// instruction delimiters occurring in the document itself.
func sanitizeExcerpt(text string, maxChars int) string {
	excerpt := strings.TrimSpace(text)
	if len(excerpt) > maxChars {
		excerpt = strings.ToValidUTF8(excerpt[:maxChars], "")
	}
	return delimiterPattern.ReplaceAllStringFunc(excerpt, func(match string) string {
		return strings.TrimRight(match, ": \t") + " -"
	})
}
