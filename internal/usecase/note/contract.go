package note

import (
	"context"

	domnote "github.com/kailas-cloud/recipeshare/internal/domain/note"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Repository defines the storage contract for notes.
type Repository interface {
	Create(ctx context.Context, n domnote.Note) error
	Save(ctx context.Context, id string, n domnote.Note) error
	Delete(ctx context.Context, id string) error
	FindOneBy(ctx context.Context, q document.Query) (domnote.Note, error)
}

// Recipes checks the annotated recipe.
type Recipes interface {
	Get(ctx context.Context, id string) (domrecipe.Recipe, error)
}
