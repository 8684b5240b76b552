package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CategoryGeneral is the submission default; only General complaints are
// re-categorized by triage.
const CategoryGeneral Category = "General"

const maxCategoryLength = 100

// Category is a free-form department tag.
type Category string

// NewCategory trims s and defaults an empty value to General.
func NewCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryGeneral, nil
	}
	if utf8.RuneCountInString(s) > maxCategoryLength {
		return "", fmt.Errorf("category exceeds maximum length of %d characters", maxCategoryLength)
	}
	return Category(s), nil
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsGeneral() bool {
	return c == CategoryGeneral
}
