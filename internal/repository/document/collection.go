// Package document provides collection handles: named document sets with
// CRUD, the flat finder and the nested finder over relationship paths.
package document

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/filter"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
)

// store is the consumer interface for collection handles (ISP).
type store interface {
	Insert(ctx context.Context, collection string, doc db.Document) error
	Get(ctx context.Context, collection, id string) (db.Document, error)
	Replace(ctx context.Context, collection, id string, doc db.Document) error
	Delete(ctx context.Context, collection, id string) error
	Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Schema describes a collection.
type Schema struct {
	// Name is the storage collection name.
	Name string
	// Kind names one document in client messages ("recipe").
	Kind string
	// Relations maps a parent field holding id references to the collection
	// the ids belong to.
	Relations map[string]string
	// Index is created by EnsureIndex. Nil skips index creation.
	Index *db.IndexDefinition
}

// Query holds the match and sort options of a find.
type Query struct {
	Filter filter.Expression
	Sort   []db.SortKey
	Limit  int
}

// Collection is a handle on one named collection.
type Collection struct {
	store  store
	schema Schema
}

// New creates a collection handle.
func New(s store, schema Schema) *Collection {
	return &Collection{store: s, schema: schema}
}

// Name returns the storage collection name.
func (c *Collection) Name() string { return c.schema.Name }

// Kind returns the singular resource name used in messages.
func (c *Collection) Kind() string { return c.schema.Kind }

// Target returns the collection referenced by path.
func (c *Collection) Target(path string) (string, bool) {
	t, ok := c.schema.Relations[path]
	return t, ok
}

// EnsureIndex creates the collection index. An existing index is not an error.
func (c *Collection) EnsureIndex(ctx context.Context) error {
	if c.schema.Index == nil {
		return nil
	}
	if err := c.store.CreateIndex(ctx, c.schema.Index); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", c.schema.Name, err)
	}
	return nil
}

// Insert stores a new document.
func (c *Collection) Insert(ctx context.Context, doc db.Document) error {
	if err := c.store.Insert(ctx, c.schema.Name, doc); err != nil {
		if errors.Is(err, db.ErrKeyExists) {
			return fmt.Errorf("insert %s: %w", c.schema.Kind, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert %s: %w", c.schema.Kind, err)
	}
	return nil
}

// Get loads one document. A missing id yields *domain.NotFoundError.
func (c *Collection) Get(ctx context.Context, id string) (db.Document, error) {
	doc, err := c.store.Get(ctx, c.schema.Name, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.NewNotFound(c.schema.Kind)
		}
		return nil, fmt.Errorf("get %s %s: %w", c.schema.Kind, id, err)
	}
	return doc, nil
}

// Replace overwrites an existing document.
func (c *Collection) Replace(ctx context.Context, id string, doc db.Document) error {
	if err := c.store.Replace(ctx, c.schema.Name, id, doc); err != nil {
		switch {
		case errors.Is(err, db.ErrKeyNotFound):
			return domain.NewNotFound(c.schema.Kind)
		case errors.Is(err, db.ErrKeyExists):
			return fmt.Errorf("replace %s: %w", c.schema.Kind, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("replace %s %s: %w", c.schema.Kind, id, err)
	}
	return nil
}

// Delete removes a document.
func (c *Collection) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.schema.Name, id); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.NewNotFound(c.schema.Kind)
		}
		return fmt.Errorf("delete %s %s: %w", c.schema.Kind, id, err)
	}
	return nil
}

// Find is the flat finder: all matching documents in sort order.
// An empty filter matches everything; an empty sort keeps storage order.
func (c *Collection) Find(ctx context.Context, q Query) ([]db.Document, error) {
	return c.find(ctx, c.schema.Name, nil, q)
}

// FindOne returns the first document matching q, or *domain.NotFoundError.
func (c *Collection) FindOne(ctx context.Context, q Query) (db.Document, error) {
	q.Limit = 1
	docs, err := c.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.NewNotFound(c.schema.Kind)
	}
	return docs[0], nil
}

// FindRelated is the nested finder. It loads parent id, reads the id list at
// path and returns the referenced documents of the target collection with q
// applied. Without sort keys the parent's list order is kept. Reference lists
// are sets (see domain.AddRef); a repeated id yields its document once.
func (c *Collection) FindRelated(ctx context.Context, id, path string, q Query) ([]db.Document, error) {
	if id == "" {
		return nil, listquery.ErrIDRequired
	}
	if path == "" {
		return nil, listquery.ErrPathRequired
	}
	target, ok := c.schema.Relations[path]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", c.schema.Name, path, listquery.ErrUnknownPath)
	}

	parent, err := c.store.Get(ctx, c.schema.Name, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, listquery.ParentNotFound(c.schema.Kind)
		}
		return nil, fmt.Errorf("get %s %s: %w", c.schema.Kind, id, err)
	}

	refs := uniqueRefs(References(parent, path))
	if len(refs) == 0 {
		return []db.Document{}, nil
	}

	docs, err := c.find(ctx, target, refs, q)
	if err != nil {
		return nil, err
	}
	if len(q.Sort) == 0 {
		sortByRefs(docs, refs)
	}
	return docs, nil
}

func (c *Collection) find(ctx context.Context, collection string, ids []string, q Query) ([]db.Document, error) {
	docs, err := c.store.Find(ctx, &db.FindQuery{
		Collection: collection,
		IDs:        ids,
		Filter:     q.Filter,
		Sort:       q.Sort,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	if docs == nil {
		docs = []db.Document{}
	}
	return docs, nil
}

// References returns the string ids stored at field in doc.
func References(doc db.Document, field string) []string {
	switch v := doc[field].(type) {
	case []string:
		return v
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				ids = append(ids, s)
			}
		}
		return ids
	default:
		return nil
	}
}

func uniqueRefs(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	out := refs[:0:0]
	for _, id := range refs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func sortByRefs(docs []db.Document, refs []string) {
	pos := make(map[string]int, len(refs))
	for i, id := range refs {
		if _, seen := pos[id]; !seen {
			pos[id] = i
		}
	}
	slices.SortStableFunc(docs, func(a, b db.Document) int {
		return pos[docID(a)] - pos[docID(b)]
	})
}

func docID(doc db.Document) string {
	id, _ := doc[db.FieldID].(string)
	return id
}
