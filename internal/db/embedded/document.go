package embedded

import (
	"context"
	"errors"
	"fmt"

	"github.com/vinicius-lino-figueiredo/gedb"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// Insert stores a new document. A duplicate _id or unique field yields db.ErrKeyExists.
func (s *Store) Insert(ctx context.Context, collection string, doc db.Document) error {
	if id, _ := doc[db.FieldID].(string); id == "" {
		return fmt.Errorf("document %s is required", db.FieldID)
	}
	d, err := s.collection(ctx, collection)
	if err != nil {
		return err
	}

	cur, err := d.Insert(ctx, doc)
	if err != nil {
		if errors.Is(err, gedb.ErrConstraintViolated) {
			return db.ErrKeyExists
		}
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	_ = cur.Close()
	return nil
}

// Get loads a document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (db.Document, error) {
	d, err := s.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	var doc db.Document
	if err := d.FindOne(ctx, byID(id), &doc); err != nil {
		if errors.Is(err, gedb.ErrNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpFindOne, Err: err}
	}
	return doc, nil
}

// Replace overwrites an existing document, keeping its _id.
func (s *Store) Replace(ctx context.Context, collection, id string, doc db.Document) error {
	d, err := s.collection(ctx, collection)
	if err != nil {
		return err
	}

	n, err := d.Count(ctx, byID(id))
	if err != nil {
		return &db.Error{Op: db.OpCount, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}

	// A document without update operators replaces the stored one.
	body := make(db.Document, len(doc))
	for k, v := range doc {
		if k == db.FieldID {
			continue
		}
		body[k] = v
	}

	cur, err := d.Update(ctx, byID(id), body)
	if err != nil {
		if errors.Is(err, gedb.ErrConstraintViolated) {
			return db.ErrKeyExists
		}
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	_ = cur.Close()
	return nil
}

// Delete removes a document by id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	d, err := s.collection(ctx, collection)
	if err != nil {
		return err
	}

	n, err := d.Remove(ctx, byID(id))
	if err != nil {
		return &db.Error{Op: db.OpRemove, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

func byID(id string) map[string]any {
	return map[string]any{db.FieldID: id}
}
