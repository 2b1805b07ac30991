package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUnknownItem signals a type filter naming an unregistered search item.
	ErrUnknownItem = errors.New("unknown search item")
	// ErrMissingLanguage signals a search over localized items without a language.
	ErrMissingLanguage = errors.New("missing language")
	// ErrDuplicateField signals a duplicate field registration on a search item.
	ErrDuplicateField = errors.New("duplicate field")
	// ErrDuplicateFilter signals a duplicate filter registration on a search item.
	ErrDuplicateFilter = errors.New("duplicate filter")
	// ErrInvalidConfiguration signals an invalid search configuration.
	ErrInvalidConfiguration = errors.New("invalid search configuration")
	// ErrInvalidLoader signals an entity loader reference that cannot be resolved.
	ErrInvalidLoader = errors.New("invalid entity loader")
)

// UnknownItemError wraps ErrUnknownItem with the offending type id.
type UnknownItemError struct {
	TypeID string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("%s: type %q is not indexed", ErrUnknownItem.Error(), e.TypeID)
}

func (e *UnknownItemError) Unwrap() error { return ErrUnknownItem }

// MissingLanguageError wraps ErrMissingLanguage with the localized types
// that require a language for searching.
type MissingLanguageError struct {
	TypeIDs []string
}

func (e *MissingLanguageError) Error() string {
	return fmt.Sprintf(
		"%s: types %q require a language for searching, no language given",
		ErrMissingLanguage.Error(), strings.Join(e.TypeIDs, ", "),
	)
}

func (e *MissingLanguageError) Unwrap() error { return ErrMissingLanguage }

// DuplicateFieldError wraps ErrDuplicateField with field and item context.
type DuplicateFieldError struct {
	Field  string
	TypeID string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s: field %q already registered on item %q", ErrDuplicateField.Error(), e.Field, e.TypeID)
}

func (e *DuplicateFieldError) Unwrap() error { return ErrDuplicateField }

// DuplicateFilterError wraps ErrDuplicateFilter with filter and item context.
type DuplicateFilterError struct {
	Filter string
	TypeID string
}

func (e *DuplicateFilterError) Error() string {
	return fmt.Sprintf("%s: filter %q already registered on item %q", ErrDuplicateFilter.Error(), e.Filter, e.TypeID)
}

func (e *DuplicateFilterError) Unwrap() error { return ErrDuplicateFilter }

// InvalidLoaderError wraps ErrInvalidLoader with the loader name.
type InvalidLoaderError struct {
	Name string
}

func (e *InvalidLoaderError) Error() string {
	return fmt.Sprintf("%s: no loader registered with name %q", ErrInvalidLoader.Error(), e.Name)
}

func (e *InvalidLoaderError) Unwrap() error { return ErrInvalidLoader }
