package ingest

import (
	"fmt"
)

// ParseError reports markup that is not well formed. No partial result
// accompanies it.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse diagram: %v", e.Err)
	}
	return fmt.Sprintf("parse diagram %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AttributeError reports malformed numeric attribute text. It is only
// returned when Options.Strict is set.
type AttributeError struct {
	ElementID string
	Attribute string
	Value     string
	Err       error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("element %q: attribute %s=%q: %v", e.ElementID, e.Attribute, e.Value, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }
