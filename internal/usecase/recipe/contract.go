package recipe

import (
	"context"

	domcol "github.com/kailas-cloud/recipeshare/internal/domain/collection"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	"github.com/kailas-cloud/recipeshare/internal/domain/review"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Repository defines the storage contract for recipes.
type Repository interface {
	Create(ctx context.Context, r domrecipe.Recipe) error
	Get(ctx context.Context, id string) (domrecipe.Recipe, error)
	Save(ctx context.Context, id string, r domrecipe.Recipe) error
	Delete(ctx context.Context, id string) error
}

// Users keeps the recipe references of the owner.
type Users interface {
	Get(ctx context.Context, id string) (domuser.User, error)
	Save(ctx context.Context, id string, u domuser.User) error
}

// Reviews is used to remove the reviews of a deleted recipe.
type Reviews interface {
	FindBy(ctx context.Context, q document.Query) ([]review.Review, error)
	Delete(ctx context.Context, id string) error
}

// Collections is used to pull a deleted recipe from collections.
type Collections interface {
	FindBy(ctx context.Context, q document.Query) ([]domcol.Collection, error)
	Save(ctx context.Context, id string, c domcol.Collection) error
}

// Tags checks that tag ids exist.
type Tags interface {
	Exists(ctx context.Context, ids []string) error
}
