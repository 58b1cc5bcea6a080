package review

import (
	"context"

	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	domreview "github.com/kailas-cloud/recipeshare/internal/domain/review"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Repository defines the storage contract for reviews.
type Repository interface {
	Create(ctx context.Context, r domreview.Review) error
	Get(ctx context.Context, id string) (domreview.Review, error)
	Save(ctx context.Context, id string, r domreview.Review) error
	Delete(ctx context.Context, id string) error
	FindBy(ctx context.Context, q document.Query) ([]domreview.Review, error)
}

// Recipes holds the reviewed recipes, whose rating follows their reviews.
type Recipes interface {
	Get(ctx context.Context, id string) (domrecipe.Recipe, error)
	Save(ctx context.Context, id string, r domrecipe.Recipe) error
}

// Users keeps the review references of the author.
type Users interface {
	Get(ctx context.Context, id string) (domuser.User, error)
	Save(ctx context.Context, id string, u domuser.User) error
}
