package user

import (
	"context"

	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Repository defines the storage contract for users.
type Repository interface {
	Create(ctx context.Context, u domuser.User) error
	Get(ctx context.Context, id string) (domuser.User, error)
	Save(ctx context.Context, id string, u domuser.User) error
	Delete(ctx context.Context, id string) error
	FindBy(ctx context.Context, q document.Query) ([]domuser.User, error)
}

// Hasher hashes plain-text passwords.
type Hasher interface {
	Hash(password string) (string, error)
}
