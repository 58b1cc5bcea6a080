package embedded

import (
	"context"
	"errors"

	"github.com/vinicius-lino-figueiredo/gedb"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// CreateIndex ensures gedb indexes for the scalar unique and sortable fields.
// Tag and text fields need no index: gedb matches list elements natively.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if def == nil {
		return errors.New("index definition is required")
	}
	if err := def.Validate(); err != nil {
		return err
	}

	d, err := s.collection(ctx, def.Collection)
	if err != nil {
		return err
	}

	s.mu.Lock()
	done := s.indexed[def.Collection]
	s.mu.Unlock()
	if done {
		return db.ErrIndexExists
	}

	for _, f := range def.Fields {
		if f.Name == db.FieldID || f.Array || (!f.Unique && !f.Sortable) {
			continue
		}
		err := d.EnsureIndex(ctx,
			gedb.WithFields(f.Name),
			gedb.WithUnique(f.Unique),
			gedb.WithSparse(!f.Unique),
		)
		if err != nil {
			return &db.Error{Op: db.OpEnsureIndex, Err: err}
		}
	}

	s.mu.Lock()
	s.indexed[def.Collection] = true
	s.mu.Unlock()
	return nil
}

// IndexExists reports whether CreateIndex ran for the collection in this process.
func (s *Store) IndexExists(_ context.Context, collection string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, db.ErrClosed
	}
	return s.indexed[collection], nil
}
