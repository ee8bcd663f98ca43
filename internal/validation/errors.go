package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingRequiredFields marks a create payload lacking name, stock or price.
var ErrMissingRequiredFields = errors.New("missing required fields")

// ValidationError carries one message per offending field, keyed by the
// field name used in the request.
type ValidationError struct {
	Fields  map[string]string
	missing []string
}

// Error lists the offending fields in a stable order: absent required fields
// first, then the message of every other invalid field.
func (e *ValidationError) Error() string {
	missing := make(map[string]bool, len(e.missing))
	for _, m := range e.missing {
		missing[m] = true
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		if !missing[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}

	if len(e.missing) == 0 {
		return "validation failed: " + strings.Join(parts, "; ")
	}
	msg := fmt.Sprintf("%s: %s", ErrMissingRequiredFields, strings.Join(e.missing, ", "))
	if len(parts) > 0 {
		msg += "; " + strings.Join(parts, "; ")
	}
	return msg
}

// Unwrap exposes ErrMissingRequiredFields when required fields were absent.
func (e *ValidationError) Unwrap() error {
	if len(e.missing) > 0 {
		return ErrMissingRequiredFields
	}
	return nil
}

// Missing returns the absent required fields.
func (e *ValidationError) Missing() []string {
	return append([]string(nil), e.missing...)
}

func (e *ValidationError) add(field, msg string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = msg
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
