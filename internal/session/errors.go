package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable is matched by every load failure surfaced by the controller.
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrUnknownOption    = errors.New("unknown option")
)

// SourceUnreadableError reports that the content loader could not produce
// content for SourceID. Reason is the loader's error.
type SourceUnreadableError struct {
	SourceID string
	Reason   error
}

func (e *SourceUnreadableError) Error() string {
	return fmt.Sprintf("source %q unreadable: %v", e.SourceID, e.Reason)
}

func (e *SourceUnreadableError) Unwrap() error {
	return e.Reason
}

func (e *SourceUnreadableError) Is(target error) bool {
	return target == ErrSourceUnreadable
}
