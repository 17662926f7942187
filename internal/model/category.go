package model

import (
	"fmt"
	"strings"
)

// Category is the closed set of content kinds a clipping can be classified into.
// Adding a value is a storage migration, not a runtime extension point.
type Category int

// Category constants. Unknown is a valid terminal outcome, not an error.
const (
	CategoryUnknown Category = iota
	CategoryCode
	CategoryLink
	CategoryData
	CategoryText
)

var categoryNames = map[Category]string{
	CategoryUnknown: "Unknown",
	CategoryCode:    "Code",
	CategoryLink:    "Link",
	CategoryData:    "Data",
	CategoryText:    "Text",
}

var categoryEmoji = map[Category]string{
	CategoryUnknown: "❔",
	CategoryCode:    "💻",
	CategoryLink:    "🔗",
	CategoryData:    "📊",
	CategoryText:    "📝",
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	return []Category{CategoryUnknown, CategoryCode, CategoryLink, CategoryData, CategoryText}
}

// String returns the display name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryUnknown]
}

// Emoji returns a short icon for the category, used by the CLI and bezel.
func (c Category) Emoji() string {
	if icon, ok := categoryEmoji[c]; ok {
		return icon
	}
	return categoryEmoji[CategoryUnknown]
}

// IsValid reports whether c is one of the declared categories.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory maps a category name back to its value, ignoring case and
// surrounding whitespace.
func ParseCategory(name string) (Category, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range AllCategories() {
		if strings.ToLower(c.String()) == needle {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", name)
}

// MarshalText implements encoding.TextMarshaler so categories serialize by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
