package models

import "fmt"

// Category is one of the three selective sweep classes a pattern can belong to.
type Category string

const (
	CategoryNeutral Category = "Neutral"
	CategorySoft    Category = "Soft"
	CategoryHard    Category = "Hard"
)

// Categories lists all classes in display order.
var Categories = []Category{CategoryNeutral, CategorySoft, CategoryHard}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNeutral, CategorySoft, CategoryHard:
		return true
	}
	return false
}

// ParseCategory converts user input to a Category. Matching is exact;
// category names are canonical strings, not free text.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
