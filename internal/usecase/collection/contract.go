package collection

import (
	"context"

	domcol "github.com/kailas-cloud/recipeshare/internal/domain/collection"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
)

// Repository defines the storage contract for collections.
type Repository interface {
	Create(ctx context.Context, c domcol.Collection) error
	Get(ctx context.Context, id string) (domcol.Collection, error)
	Save(ctx context.Context, id string, c domcol.Collection) error
	Delete(ctx context.Context, id string) error
}

// Users keeps the collection references of the owner.
type Users interface {
	Get(ctx context.Context, id string) (domuser.User, error)
	Save(ctx context.Context, id string, u domuser.User) error
}

// Recipes checks recipes added to a collection.
type Recipes interface {
	Get(ctx context.Context, id string) (domrecipe.Recipe, error)
}
