package opentimetables

import (
	"errors"
	"fmt"
)

// ErrNoMatch is reported when no catalogue entry matched the supplied codes.
// It is a warning rather than a failure; an empty calendar is still written.
var ErrNoMatch = errors.New("no modules matched the supplied codes")

// NetworkError wraps a failed request to the timetable service.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps a response that did not match the expected structure,
// which is likely if the institution's timetable UI changes.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CacheError wraps an unreadable or corrupt catalogue cache file. Callers
// fall back to re-fetching the catalogue rather than failing the run.
type CacheError struct {
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("module cache %s unusable: %v", e.Path, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
