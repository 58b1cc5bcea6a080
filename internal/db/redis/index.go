package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// CreateIndex creates the FT index over a collection's JSON documents.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := s.buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists checks index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, collection string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(s.indexName(collection)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func (s *Store) buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if idx == nil || idx.Collection == "" {
		return nil, errors.New("index collection is required")
	}
	if len(idx.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	args := []string{
		s.indexName(idx.Collection),
		"ON", "JSON",
		"PREFIX", "1", s.collectionPrefix(idx.Collection),
		"SCHEMA",
	}

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	path := "$." + f.Name
	if f.Array {
		path += "[*]"
	}
	args := []string{path, "AS", fieldAlias(f.Name)}

	switch f.Type {
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")

	case db.IndexFieldText:
		args = append(args, "TEXT")

	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}

	default:
		return nil, errors.New("unknown field type")
	}

	if f.Sortable {
		args = append(args, "SORTABLE")
	}

	return args, nil
}

// fieldAlias is the attribute name used in queries. Leading underscores are
// dropped so "_id" is addressed as @id.
func fieldAlias(name string) string {
	return strings.TrimLeft(name, "_")
}
