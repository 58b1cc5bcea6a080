package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// Insert stores a new JSON document. JSON.SET NX replies nil when the key exists.
func (s *Store) Insert(ctx context.Context, collection string, doc db.Document) error {
	id, err := documentID(doc)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	cmd := s.b().Arbitrary("JSON.SET").Keys(s.docKey(collection, id)).Args("$", string(data), "NX").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyExists
		}
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// Get loads a document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (db.Document, error) {
	cmd := s.b().Arbitrary("JSON.GET").Keys(s.docKey(collection, id)).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return decodeDocument(raw)
}

// Replace overwrites an existing document. JSON.SET XX replies nil when the key is absent.
func (s *Store) Replace(ctx context.Context, collection, id string, doc db.Document) error {
	body := make(db.Document, len(doc)+1)
	for k, v := range doc {
		body[k] = v
	}
	body[db.FieldID] = id

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	cmd := s.b().Arbitrary("JSON.SET").Keys(s.docKey(collection, id)).Args("$", string(data), "XX").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyNotFound
		}
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// Delete removes a document by id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	cmd := s.b().Del().Key(s.docKey(collection, id)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

func documentID(doc db.Document) (string, error) {
	id, _ := doc[db.FieldID].(string)
	if id == "" {
		return "", fmt.Errorf("document %s is required", db.FieldID)
	}
	return id, nil
}

// decodeDocument accepts both a bare object and the single-element array
// returned for the $ path.
func decodeDocument(raw string) (db.Document, error) {
	if len(raw) > 0 && raw[0] == '[' {
		var docs []db.Document
		if err := json.Unmarshal([]byte(raw), &docs); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		if len(docs) == 0 {
			return nil, db.ErrKeyNotFound
		}
		return docs[0], nil
	}

	var doc db.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}
