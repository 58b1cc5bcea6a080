package document

import (
	"context"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	insertFn      func(ctx context.Context, collection string, doc db.Document) error
	getFn         func(ctx context.Context, collection, id string) (db.Document, error)
	replaceFn     func(ctx context.Context, collection, id string, doc db.Document) error
	deleteFn      func(ctx context.Context, collection, id string) error
	findFn        func(ctx context.Context, q *db.FindQuery) ([]db.Document, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error

	findCalls []*db.FindQuery
}

func (m *mockStore) Insert(ctx context.Context, collection string, doc db.Document) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, collection, doc)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (db.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, collection, id)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Replace(ctx context.Context, collection, id string, doc db.Document) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, collection, id, doc)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, collection, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collection, id)
	}
	return nil
}

func (m *mockStore) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	m.findCalls = append(m.findCalls, q)
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func testSchema() Schema {
	return Schema{
		Name:      "recipes",
		Kind:      "recipe",
		Relations: map[string]string{"reviews": "reviews"},
		Index:     db.NewIndex("recipes").Tag(db.FieldID).MustBuild(),
	}
}
