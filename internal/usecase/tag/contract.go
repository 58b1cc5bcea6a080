package tag

import (
	"context"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domtag "github.com/kailas-cloud/recipeshare/internal/domain/tag"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

// Repository defines the storage contract for tags.
type Repository interface {
	Create(ctx context.Context, t domtag.Tag) error
	Get(ctx context.Context, id string) (domtag.Tag, error)
	FindBy(ctx context.Context, q document.Query) ([]domtag.Tag, error)
}

// Lister resolves list queries.
type Lister interface {
	Find(ctx context.Context, req listing.Request) (listquery.Page[db.Document], error)
}
