package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain/filter"
)

// Repo is a typed view of a collection. T is an entity struct whose json
// tags match the stored document, including "_id".
type Repo[T any] struct {
	c *Collection
}

// NewRepo creates a typed repository over c.
func NewRepo[T any](c *Collection) *Repo[T] {
	return &Repo[T]{c: c}
}

// Collection returns the underlying handle.
func (r *Repo[T]) Collection() *Collection { return r.c }

// Create inserts v.
func (r *Repo[T]) Create(ctx context.Context, v T) error {
	doc, err := Encode(v)
	if err != nil {
		return err
	}
	return r.c.Insert(ctx, doc)
}

// Get loads the entity with id.
func (r *Repo[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	doc, err := r.c.Get(ctx, id)
	if err != nil {
		return out, err
	}
	if err := Decode(doc, &out); err != nil {
		return out, fmt.Errorf("%s %s: %w", r.c.Kind(), id, err)
	}
	return out, nil
}

// Save replaces the stored entity with id by v.
func (r *Repo[T]) Save(ctx context.Context, id string, v T) error {
	doc, err := Encode(v)
	if err != nil {
		return err
	}
	return r.c.Replace(ctx, id, doc)
}

// Delete removes the entity with id.
func (r *Repo[T]) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, id)
}

// FindBy returns all entities matching q.
func (r *Repo[T]) FindBy(ctx context.Context, q Query) ([]T, error) {
	docs, err := r.c.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return DecodeAll[T](docs)
}

// FindOneBy returns the first entity matching q, or *domain.NotFoundError.
func (r *Repo[T]) FindOneBy(ctx context.Context, q Query) (T, error) {
	var out T
	doc, err := r.c.FindOne(ctx, q)
	if err != nil {
		return out, err
	}
	if err := Decode(doc, &out); err != nil {
		return out, fmt.Errorf("%s: %w", r.c.Kind(), err)
	}
	return out, nil
}

// DecodeAll decodes every document into T.
func DecodeAll[T any](docs []db.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Match builds a query requiring each field to equal its value.
func Match(pairs ...string) (Query, error) {
	expr, err := filter.MustMatch(pairs...)
	if err != nil {
		return Query{}, err
	}
	return Query{Filter: expr}, nil
}

// DecodeAs decodes one document into T. It fits listquery.MapPage.
func DecodeAs[T any](doc db.Document) (T, error) {
	var v T
	err := Decode(doc, &v)
	return v, err
}
