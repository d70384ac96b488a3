package ollama

import (
	"regexp"
	"strings"

	"github.com/kirillkom/docsorter/internal/core/domain"
	"github.com/kirillkom/docsorter/internal/taxonomy"
)

var (
	// "Category: Work-Related / Subcategory: Employment Contracts"
	strictPattern = regexp.MustCompile(`(?i)category\s*:\s*(.+?)\s*/\s*sub-?category\s*:\s*(.+)`)
	// "Work-Related > Employment Contracts"
	arrowPattern = regexp.MustCompile(`^\s*(.+?)\s*>\s*(.+?)\s*$`)
)

// ParseResponse maps raw model output onto a valid taxonomy slot. It is a
// total function: when nothing in the response can be resolved, the
// registry's default slot is returned with fallback confidence. Downstream
// placement always needs a destination, so this never fails.
func ParseResponse(raw string, registry *taxonomy.Registry) domain.ClassificationResult {
	if cat, sub, conf, ok := resolvePattern(raw, registry); ok {
		return result(cat, sub, conf, raw)
	}
	if cat, sub, ok := scanKnownNames(raw, registry); ok {
		return result(cat, sub, domain.ConfidenceFuzzy, raw)
	}
	cat, sub := registry.DefaultSlot()
	return result(cat, sub, domain.ConfidenceFallback, raw)
}

func result(cat, sub string, conf domain.Confidence, raw string) domain.ClassificationResult {
	return domain.ClassificationResult{
		Category:    cat,
		Subcategory: sub,
		Confidence:  conf,
		RawResponse: raw,
	}
}

// resolvePattern extracts a pair via the expected formats and validates it:
// exact registry hit first, then fuzzy closest match.
func resolvePattern(raw string, registry *taxonomy.Registry) (string, string, domain.Confidence, bool) {
	rawCat, rawSub, ok := extractPair(raw)
	if !ok {
		return "", "", "", false
	}
	if cat, sub, valid := registry.Canonical(rawCat, rawSub); valid {
		return cat, sub, domain.ConfidenceExact, true
	}
	if cat, sub, matched := registry.ClosestMatch(rawCat, rawSub); matched {
		return cat, sub, domain.ConfidenceFuzzy, true
	}
	return "", "", "", false
}

func extractPair(raw string) (string, string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "\"'`*"))
		if line == "" {
			continue
		}
		if m := strictPattern.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
		}
		if m := arrowPattern.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
		}
	}
	return "", "", false
}

// scanKnownNames is the best-effort pass for responses that ignored the
// format: find the first category name appearing in the response, then the
// first of its subcategories appearing as well. Taxonomy order breaks ties.
func scanKnownNames(raw string, registry *taxonomy.Registry) (string, string, bool) {
	haystack := foldName(raw)
	for _, cat := range registry.Categories() {
		if !strings.Contains(haystack, foldName(cat.Name)) {
			continue
		}
		for _, sub := range cat.Subcategories {
			if strings.Contains(haystack, foldName(sub)) {
				return cat.Name, sub, true
			}
		}
	}
	return "", "", false
}

// foldName lowercases and collapses separators so "Work related" still hits
// "Work-Related".
func foldName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
		}
	}
	return b.String()
}
