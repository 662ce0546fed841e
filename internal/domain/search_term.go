package domain

import "strings"

// SearchTerm is a validated, non-empty word to look up.
type SearchTerm struct {
	value string
}

// NewSearchTerm trims raw and rejects it with ErrEmptyTerm when nothing is left.
// The inner spacing of multi-word terms is preserved.
func NewSearchTerm(raw string) (SearchTerm, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return SearchTerm{}, &ValidationError{Errors: []FieldError{{
			Field:   "searchTerm",
			Message: "You must provide a word",
			Err:     ErrEmptyTerm,
		}}}
	}
	return SearchTerm{value: v}, nil
}

// String returns the trimmed term.
func (t SearchTerm) String() string { return t.value }

// IsZero reports whether the term was never validated.
func (t SearchTerm) IsZero() bool { return t.value == "" }
