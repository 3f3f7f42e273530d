package sources

import (
	"fmt"
	"strings"
)

// SourceError records a single source's failure for one request.
type SourceError struct {
	Source  string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Err }

// AllSourcesFailedError aggregates the per-source failures after every
// capable source has been tried without success.
type AllSourcesFailedError struct {
	Capability Capability
	Errors     []*SourceError
}

func (e *AllSourcesFailedError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, se := range e.Errors {
		parts = append(parts, se.Error())
	}
	return fmt.Sprintf("all sources failed for %s: %s", e.Capability, strings.Join(parts, "; "))
}
