package image

import (
	"context"
	"io"

	domimage "github.com/kailas-cloud/recipeshare/internal/domain/image"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	domreview "github.com/kailas-cloud/recipeshare/internal/domain/review"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
)

// Host stores image bytes.
type Host interface {
	Enabled() bool
	Upload(ctx context.Context, filename string, r io.Reader) (domimage.Hosted, error)
	Destroy(ctx context.Context, publicID string) error
}

// Repository defines the storage contract for image records.
type Repository interface {
	Create(ctx context.Context, img domimage.Image) error
	Get(ctx context.Context, id string) (domimage.Image, error)
	Delete(ctx context.Context, id string) error
}

// Users keeps the image references of the uploader.
type Users interface {
	Get(ctx context.Context, id string) (domuser.User, error)
	Save(ctx context.Context, id string, u domuser.User) error
}

// Recipes keeps the image references of a recipe.
type Recipes interface {
	Get(ctx context.Context, id string) (domrecipe.Recipe, error)
	Save(ctx context.Context, id string, r domrecipe.Recipe) error
}

// Reviews keeps the image references of a review.
type Reviews interface {
	Get(ctx context.Context, id string) (domreview.Review, error)
	Save(ctx context.Context, id string, r domreview.Review) error
}
