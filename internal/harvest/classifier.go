package harvest

import "strings"

// Classifier maps text content to one category from the configured keyword
// taxonomy. The first category in configured order with any keyword substring
// match wins; this first-match tie-break is load-bearing for reproducibility.
type Classifier struct {
	categories []Category
}

// NewClassifier creates a Classifier over the configured categories.
func NewClassifier(categories []Category) *Classifier {
	return &Classifier{categories: append([]Category(nil), categories...)}
}

// Classify returns the category for text and whether a configured keyword
// matched. Text with no keyword match gets the default category.
func (c *Classifier) Classify(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return cat.Name, true
			}
		}
	}
	return DefaultCategory, false
}

// Category returns the configured category with the given name.
func (c *Classifier) Category(name string) (Category, bool) {
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}
