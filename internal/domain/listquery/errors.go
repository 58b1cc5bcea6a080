package listquery

import (
	"fmt"

	"github.com/kailas-cloud/recipeshare/internal/domain"
)

// Resolver wiring errors. All of them wrap domain.ErrMisconfigured.
var (
	ErrCollectionRequired = fmt.Errorf("collection is required: %w", domain.ErrMisconfigured)
	ErrIDRequired         = fmt.Errorf("id is required: %w", domain.ErrMisconfigured)
	ErrPathRequired       = fmt.Errorf("path is required: %w", domain.ErrMisconfigured)
	ErrUnknownPath        = fmt.Errorf("unknown relationship path: %w", domain.ErrMisconfigured)
	ErrDataRequired       = fmt.Errorf("data is required: %w", domain.ErrMisconfigured)
	ErrNegativeBound      = fmt.Errorf("offset and limit must not be negative: %w", domain.ErrMisconfigured)
)

// ErrParentNotFound signals a nested query on a parent that does not exist.
var ErrParentNotFound = fmt.Errorf("parent not found: %w", domain.ErrNotFound)

// ParentNotFound returns ErrParentNotFound carrying the client-facing not-found
// error for the parent kind.
func ParentNotFound(kind string) error {
	return fmt.Errorf("%w: %w", ErrParentNotFound, domain.NewNotFound(kind))
}
