package editor

import (
	"errors"
	"fmt"
)

// Precondition failures are reported before any store call is made.
var (
	ErrNoPageLoaded      = errors.New("no page loaded")
	ErrMissingPageRef    = errors.New("page reference is not set")
	ErrMissingProjectRef = errors.New("project reference is not set")
	ErrMissingCredential = errors.New("api token is not configured")
	ErrMissingOrigin     = errors.New("content origin is not configured")
)

// PartialSaveError reports a save where the page was persisted but the theme
// settings were not. The page is safe; retrying the save repairs the theme
// record.
type PartialSaveError struct {
	PageRef string
	Err     error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("page %s saved but theme settings were not: %v", e.PageRef, e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }
