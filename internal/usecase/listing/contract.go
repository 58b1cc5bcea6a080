package listing

import (
	"context"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Handle is a collection the resolver can query flat or through a
// relationship path.
type Handle interface {
	Name() string
	Find(ctx context.Context, q document.Query) ([]db.Document, error)
	FindRelated(ctx context.Context, id, path string, q document.Query) ([]db.Document, error)
}

// Request describes one list call.
type Request struct {
	// Collection is required.
	Collection Handle
	// Path and ID select the nested finder; both or neither must be set.
	Path string
	ID   string
	// As names the items in the envelope. Defaults to Path, then the collection name.
	As    string
	Query listquery.Params
	// Filter drops documents after the fetch. Nil keeps everything.
	Filter func(db.Document) bool
}

// Mode is how a request is resolved.
type Mode string

const (
	// Flat queries the collection itself.
	Flat Mode = "flat"
	// Nested queries the documents referenced by one parent.
	Nested Mode = "nested"
)

// Finder resolves list requests. *Service implements it.
type Finder interface {
	Find(ctx context.Context, req Request) (listquery.Page[db.Document], error)
}

// FindAs runs req through f and decodes each item into T.
func FindAs[T any](ctx context.Context, f Finder, req Request) (listquery.Page[T], error) {
	page, err := f.Find(ctx, req)
	if err != nil {
		return listquery.Page[T]{}, err
	}
	return listquery.MapPage(page, document.DecodeAs[T])
}
