package core

import (
	"fmt"
	"strings"
)

// DefaultCategories is the built-in expense category set.
var DefaultCategories = []string{
	"Food",
	"Transportation",
	"Utilities",
	"Entertainment",
	"Health",
	"Education",
	"Other",
}

// CategoryMode selects how category names are validated.
type CategoryMode string

const (
	// CategoryModeFixed restricts categories to a configured set.
	CategoryModeFixed CategoryMode = "fixed"
	// CategoryModeFree accepts any non-empty category name.
	CategoryModeFree CategoryMode = "free"
)

// IsValid reports whether the mode is a known value.
func (m CategoryMode) IsValid() bool {
	return m == CategoryModeFixed || m == CategoryModeFree
}

// Taxonomy validates category names according to the configured mode.
// The same taxonomy governs expenses and budgets.
type Taxonomy struct {
	mode       CategoryMode
	categories []string
	index      map[string]struct{}
}

// NewTaxonomy builds a taxonomy. In fixed mode an empty category list
// falls back to DefaultCategories.
func NewTaxonomy(mode CategoryMode, categories []string) Taxonomy {
	if mode == CategoryModeFixed && len(categories) == 0 {
		categories = DefaultCategories
	}
	index := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		index[c] = struct{}{}
	}
	return Taxonomy{mode: mode, categories: categories, index: index}
}

// Mode returns the validation mode.
func (t Taxonomy) Mode() CategoryMode { return t.mode }

// Categories returns a copy of the configured category names.
func (t Taxonomy) Categories() []string {
	out := make([]string, len(t.categories))
	copy(out, t.categories)
	return out
}

// Check returns nil when the category is acceptable under the taxonomy.
func (t Taxonomy) Check(category string) error {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if t.mode == CategoryModeFree {
		return nil
	}
	if _, ok := t.index[trimmed]; !ok {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not a known category", trimmed)}
	}
	return nil
}
