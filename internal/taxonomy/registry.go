package taxonomy

import (
	"fmt"
	"strings"
	"unicode"
)

// Category is one top-level taxonomy entry with its ordered subcategories.
type Category struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories"`
}

// Registry is the immutable set of categories documents are sorted into.
// It is built once at startup and only read afterwards.
type Registry struct {
	categories []Category

	byNorm map[string]*entry

	threshold  float64
	defaultCat string
	defaultSub string
}

type entry struct {
	name       string
	subs       []string
	subsByNorm map[string]string
}

// Options tune fuzzy matching and the fallback slot.
type Options struct {
	// SimilarityThreshold is the minimum Levenshtein similarity (0..1) for a
	// fuzzy match. Zero means the default of 0.75.
	SimilarityThreshold float64
	DefaultCategory     string
	DefaultSubcategory  string
}

const defaultThreshold = 0.75

// New builds a registry from an ordered category list. The default fallback
// slot is appended when the listed categories do not already contain it, so a
// valid destination always exists.
func New(categories []Category, opts Options) (*Registry, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}
	threshold := opts.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultThreshold
	}
	defaultCat := strings.TrimSpace(opts.DefaultCategory)
	defaultSub := strings.TrimSpace(opts.DefaultSubcategory)
	if defaultCat == "" {
		defaultCat = "Uncategorized"
	}
	if defaultSub == "" {
		defaultSub = "Unsorted"
	}

	r := &Registry{
		threshold:  threshold,
		defaultCat: defaultCat,
		defaultSub: defaultSub,
		byNorm:     make(map[string]*entry, len(categories)+1),
	}

	for _, cat := range categories {
		if err := r.add(cat); err != nil {
			return nil, err
		}
	}
	if _, _, ok := r.Canonical(defaultCat, defaultSub); !ok {
		if err := r.add(Category{Name: defaultCat, Subcategories: []string{defaultSub}}); err != nil {
			return nil, fmt.Errorf("register fallback slot: %w", err)
		}
	}
	return r, nil
}

func (r *Registry) add(cat Category) error {
	name := strings.TrimSpace(cat.Name)
	if name == "" {
		return fmt.Errorf("category with empty name")
	}
	norm := normalize(name)
	if _, exists := r.byNorm[norm]; exists {
		return fmt.Errorf("duplicate category %q", name)
	}
	e := &entry{
		name:       name,
		subsByNorm: make(map[string]string, len(cat.Subcategories)),
	}
	for _, sub := range cat.Subcategories {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			return fmt.Errorf("category %q: empty subcategory", name)
		}
		subNorm := normalize(sub)
		if _, exists := e.subsByNorm[subNorm]; exists {
			return fmt.Errorf("category %q: duplicate subcategory %q", name, sub)
		}
		e.subs = append(e.subs, sub)
		e.subsByNorm[subNorm] = sub
	}
	if len(e.subs) == 0 {
		return fmt.Errorf("category %q has no subcategories", name)
	}
	r.categories = append(r.categories, Category{Name: e.name, Subcategories: append([]string(nil), e.subs...)})
	r.byNorm[norm] = e
	return nil
}

// Categories returns the ordered category list. The slice is a copy; the
// registry itself never changes.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	for i, cat := range r.categories {
		out[i] = Category{Name: cat.Name, Subcategories: append([]string(nil), cat.Subcategories...)}
	}
	return out
}

// DefaultSlot returns the configured fallback category/subcategory pair.
func (r *Registry) DefaultSlot() (string, string) {
	return r.defaultCat, r.defaultSub
}

// IsValid reports whether the pair names an existing taxonomy slot,
// ignoring case and surrounding whitespace.
func (r *Registry) IsValid(category, subcategory string) bool {
	_, _, ok := r.Canonical(category, subcategory)
	return ok
}

// Canonical maps a case-insensitive pair onto the registry's exact spelling.
func (r *Registry) Canonical(category, subcategory string) (string, string, bool) {
	e, ok := r.byNorm[normalize(category)]
	if !ok {
		return "", "", false
	}
	sub, ok := e.subsByNorm[normalize(subcategory)]
	if !ok {
		return "", "", false
	}
	return e.name, sub, true
}

// ClosestMatch resolves a raw pair against the taxonomy: exact
// (case-insensitive) first, then punctuation/whitespace-normalized, then
// bounded edit-distance and substring matching. It returns false when no
// candidate clears the similarity threshold.
func (r *Registry) ClosestMatch(rawCategory, rawSubcategory string) (string, string, bool) {
	if cat, sub, ok := r.Canonical(rawCategory, rawSubcategory); ok {
		return cat, sub, true
	}

	e := r.matchCategory(rawCategory)
	if e == nil {
		return "", "", false
	}
	sub := matchName(rawSubcategory, e.subs, e.subsByNorm, r.threshold)
	if sub == "" {
		return "", "", false
	}
	return e.name, sub, true
}

func (r *Registry) matchCategory(raw string) *entry {
	if e, ok := r.byNorm[normalize(raw)]; ok {
		return e
	}
	names := make([]string, len(r.categories))
	for i, cat := range r.categories {
		names[i] = cat.Name
	}
	name := matchName(raw, names, nil, r.threshold)
	if name == "" {
		return nil
	}
	return r.byNorm[normalize(name)]
}

// matchName picks the best candidate for raw among names, in order: exact
// normalized lookup, substring containment, then highest Levenshtein
// similarity above the threshold. Candidate order breaks ties.
func matchName(raw string, names []string, byNorm map[string]string, threshold float64) string {
	norm := normalize(raw)
	if norm == "" {
		return ""
	}
	if byNorm != nil {
		if name, ok := byNorm[norm]; ok {
			return name
		}
	}

	for _, name := range names {
		candidate := normalize(name)
		if candidate == norm {
			return name
		}
		if len(norm) >= 4 && (strings.Contains(candidate, norm) || strings.Contains(norm, candidate)) {
			return name
		}
	}

	best := ""
	bestScore := threshold
	for _, name := range names {
		score := similarity(norm, normalize(name))
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best
}

// similarity is 1 - dist/maxLen over normalized strings.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// normalize lowercases and strips everything that is not a letter or digit,
// so "Work-Related" and "work related" compare equal.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
