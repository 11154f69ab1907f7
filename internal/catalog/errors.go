package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidCaller    = errors.New("invalid caller")
	ErrNotFound         = errors.New("word entry not found")
	ErrDuplicateEntry   = errors.New("word entry already exists for this language")
	ErrForbidden        = errors.New("not allowed to modify this word entry")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidEntry     = errors.New("invalid word entry")
	ErrInvalidStatus    = errors.New("invalid word status")
)

// storeError marks err as a store failure while keeping the cause inspectable.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func invalidEntry(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntry, reason)
}
