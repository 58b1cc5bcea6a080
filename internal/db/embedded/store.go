// Package embedded implements db.Store on gedb, an in-process document
// database with Mongo-style queries. Each collection is one gedb datastore,
// persisted as <dir>/<collection>.db or kept in memory.
package embedded

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vinicius-lino-figueiredo/gedb"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds embedded store settings.
type Config struct {
	// Dir holds one datafile per collection. Ignored when InMemory is set.
	Dir      string
	InMemory bool
}

// Store implements db.Store on gedb.
type Store struct {
	cfg Config

	mu      sync.Mutex
	closed  bool
	dbs     map[string]gedb.GEDB
	indexed map[string]bool
}

// NewStore creates an embedded store. Collections are opened lazily.
func NewStore(cfg Config) (*Store, error) {
	if !cfg.InMemory {
		if cfg.Dir == "" {
			return nil, errors.New("data dir is required")
		}
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &Store{
		cfg:     cfg,
		dbs:     make(map[string]gedb.GEDB),
		indexed: make(map[string]bool),
	}, nil
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.ErrClosed
	}
	return nil
}

// WaitForReady returns immediately: an embedded store is ready once created.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close releases all datastores. Further calls fail with db.ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.dbs = make(map[string]gedb.GEDB)
}

// collection returns the datastore for name, opening and loading it on first use.
func (s *Store) collection(ctx context.Context, name string) (gedb.GEDB, error) {
	if !db.IsValidIdentifier(name) {
		return nil, fmt.Errorf("invalid collection name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, db.ErrClosed
	}
	if d, ok := s.dbs[name]; ok {
		return d, nil
	}

	opts := []gedb.Option{gedb.WithTimestamps(false)}
	if s.cfg.InMemory {
		opts = append(opts, gedb.WithInMemoryOnly(true))
	} else {
		opts = append(opts, gedb.WithFilename(filepath.Join(s.cfg.Dir, name+".db")))
	}

	d, err := gedb.NewDB(opts...)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	if !s.cfg.InMemory {
		if err := d.LoadDatabase(ctx); err != nil {
			return nil, &db.Error{Op: db.OpOpen, Err: err}
		}
	}

	s.dbs[name] = d
	return d, nil
}
