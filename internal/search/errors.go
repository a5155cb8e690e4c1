// Package search issues the filtered job search and enumerates result
// listings across pagination.
package search

import "fmt"

// SearchUnavailableError means the site did not return a results view for
// the query. Terminal for the run.
type SearchUnavailableError struct {
	Message string
	Cause   error
}

func (e *SearchUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("search unavailable: %s", e.Message)
}

func (e *SearchUnavailableError) Unwrap() error {
	return e.Cause
}
