package auth

import (
	"context"

	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Users is the storage contract for account lookups.
type Users interface {
	Get(ctx context.Context, id string) (domuser.User, error)
	FindOneBy(ctx context.Context, q document.Query) (domuser.User, error)
}
