package domain

import (
	"sort"
	"strings"
)

// CategoryOther is the sentinel category: always present, never deletable,
// never renamable. Splits orphaned by a category deletion are reassigned to
// it.
const CategoryOther = "Other"

// Category is a registry entry. Splits reference categories by name, so
// renames cascade over the ledger.
type Category struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
}

// DefaultCategories returns the built-in category set. Default categories
// cannot be deleted.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food", Color: "#f59e0b", IsDefault: true},
		{Name: "Transport", Color: "#3b82f6", IsDefault: true},
		{Name: "Shopping", Color: "#ec4899", IsDefault: true},
		{Name: "Bills", Color: "#ef4444", IsDefault: true},
		{Name: "Entertainment", Color: "#8b5cf6", IsDefault: true},
		{Name: "Health", Color: "#10b981", IsDefault: true},
		{Name: CategoryOther, Color: "#6b7280", IsDefault: true},
	}
}

// SameCategoryName compares category names case-insensitively. Name
// uniqueness across the registry and every cascade match use this comparison.
func SameCategoryName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// FindCategory returns the entry matching name case-insensitively
func FindCategory(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if SameCategoryName(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}

// SortCategoriesForDisplay orders categories default-first, alphabetically
// within each group.
func SortCategoriesForDisplay(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].IsDefault != categories[j].IsDefault {
			return categories[i].IsDefault
		}
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
}
