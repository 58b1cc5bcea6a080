package embedded

import (
	"context"
	"errors"

	"github.com/vinicius-lino-figueiredo/gedb"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain/filter"
)

// Find runs a filtered, sorted query. Matching follows gedb semantics: an
// equality condition on a list field holds when any element is equal.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if q == nil || q.Collection == "" {
		return nil, errors.New("collection is required")
	}
	if q.RestrictsIDs() && len(q.IDs) == 0 {
		return []db.Document{}, nil
	}

	d, err := s.collection(ctx, q.Collection)
	if err != nil {
		return nil, err
	}

	var opts []gedb.FindOption
	if sort := buildSort(q.Sort); len(sort) > 0 {
		opts = append(opts, gedb.WithSort(sort))
	}
	if q.Limit > 0 {
		opts = append(opts, gedb.WithLimit(int64(q.Limit)))
	}

	cur, err := d.Find(ctx, buildQuery(q), opts...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer func() { _ = cur.Close() }()

	docs := make([]db.Document, 0)
	for cur.Next() {
		var doc db.Document
		if err := cur.Scan(ctx, &doc); err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return docs, nil
}

// buildQuery translates the id restriction and filter into a gedb query.
func buildQuery(q *db.FindQuery) map[string]any {
	var clauses []any
	if q.RestrictsIDs() {
		ids := make([]any, len(q.IDs))
		for i, id := range q.IDs {
			ids[i] = id
		}
		clauses = append(clauses, map[string]any{db.FieldID: map[string]any{"$in": ids}})
	}
	clauses = append(clauses, buildFilter(q.Filter)...)

	switch len(clauses) {
	case 0:
		return map[string]any{}
	case 1:
		return clauses[0].(map[string]any)
	default:
		return map[string]any{"$and": clauses}
	}
}

// buildFilter returns the conjunctive clauses of expr.
func buildFilter(expr filter.Expression) []any {
	if expr.IsEmpty() {
		return nil
	}

	var clauses []any
	for _, cond := range expr.Must() {
		clauses = append(clauses, buildCondition(cond))
	}

	if should := expr.Should(); len(should) > 0 {
		or := make([]any, 0, len(should))
		for _, cond := range should {
			or = append(or, buildCondition(cond))
		}
		clauses = append(clauses, map[string]any{"$or": or})
	}

	// $not rather than $nin: on list fields it excludes documents holding the value.
	for _, cond := range expr.MustNot() {
		clauses = append(clauses, map[string]any{"$not": buildCondition(cond)})
	}

	return clauses
}

func buildCondition(cond filter.Condition) map[string]any {
	if cond.IsRange() {
		return map[string]any{cond.Key(): buildRange(*cond.Range())}
	}
	return map[string]any{cond.Key(): cond.Match()}
}

func buildRange(r filter.Range) any {
	if r.IsExact() {
		return *r.GTE()
	}
	ops := make(map[string]any, 2)
	if r.GT() != nil {
		ops["$gt"] = *r.GT()
	} else if r.GTE() != nil {
		ops["$gte"] = *r.GTE()
	}
	if r.LT() != nil {
		ops["$lt"] = *r.LT()
	} else if r.LTE() != nil {
		ops["$lte"] = *r.LTE()
	}
	return ops
}

func buildSort(keys []db.SortKey) gedb.Sort {
	if len(keys) == 0 {
		return nil
	}
	sort := make(gedb.Sort, 0, len(keys))
	for _, k := range keys {
		order := int64(1)
		if k.Descending {
			order = -1
		}
		sort = append(sort, gedb.SortName{Key: k.Field, Order: order})
	}
	return sort
}
