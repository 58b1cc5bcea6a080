package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain/filter"
)

// maxFindResults is the most rows an unlimited find returns. A larger result
// fails with db.ErrTooManyResults instead of being cut short.
const maxFindResults = 10000

// Find runs a filtered multi-key sorted query via FT.AGGREGATE.
// FT.SEARCH only sorts by one attribute, so SORTBY in the aggregate pipeline is used instead.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) ([]db.Document, error) {
	if q == nil || q.Collection == "" {
		return nil, errors.New("collection is required")
	}
	if q.RestrictsIDs() && len(q.IDs) == 0 {
		return []db.Document{}, nil
	}

	limit := q.Limit
	unlimited := limit <= 0 || limit > s.maxResults
	if unlimited {
		// One extra row tells a full result from a truncated one.
		limit = s.maxResults + 1
	}

	args := []string{s.indexName(q.Collection), buildQuery(q), "LOAD", "1", "$"}
	if sortArgs := buildSortArgs(q.Sort); len(sortArgs) > 0 {
		args = append(args, "SORTBY", strconv.Itoa(len(sortArgs)))
		args = append(args, sortArgs...)
		// SORTBY defaults to MAX 10
		args = append(args, "MAX", strconv.Itoa(limit))
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	docs, err := parseAggregateResult(raw)
	if err != nil {
		return nil, err
	}
	if unlimited && len(docs) > s.maxResults {
		return nil, &db.Error{
			Op:  db.OpAggregate,
			Err: fmt.Errorf("%s matches more than %d documents: %w", q.Collection, s.maxResults, db.ErrTooManyResults),
		}
	}
	return docs, nil
}

func buildSortArgs(keys []db.SortKey) []string {
	if len(keys) == 0 {
		return nil
	}
	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		args = append(args, "@"+fieldAlias(k.Field), dir)
	}
	return args
}

// --- Result parsing ---

// parseAggregateResult reads [total, row1, row2, ...] where each row is a flat
// field/value array holding the loaded "$" JSON document.
func parseAggregateResult(raw []rueidis.RedisMessage) ([]db.Document, error) {
	if len(raw) == 0 {
		return []db.Document{}, nil
	}

	docs := make([]db.Document, 0, len(raw)-1)
	for _, msg := range raw[1:] {
		row, err := msg.ToArray()
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}
		jsonStr, ok := rowField(row, "$")
		if !ok {
			continue
		}
		doc, err := decodeDocument(jsonStr)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func rowField(row []rueidis.RedisMessage, name string) (string, bool) {
	for j := 0; j+1 < len(row); j += 2 {
		key, err := row[j].ToString()
		if err != nil || key != name {
			continue
		}
		value, err := row[j+1].ToString()
		if err != nil {
			return "", false
		}
		return value, true
	}
	return "", false
}

// --- Query building ---

// buildQuery renders the id restriction and filter into one query string.
func buildQuery(q *db.FindQuery) string {
	var parts []string
	if q.RestrictsIDs() {
		parts = append(parts, buildTagAny(fieldAlias(db.FieldID), q.IDs))
	}
	if f := buildFilter(q.Filter); f != "" {
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// buildFilter translates filter.Expression into a RediSearch query string.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	var parts []string

	for _, cond := range expr.Must() {
		parts = append(parts, buildCondition(cond))
	}

	if shouldParts := buildShouldGroup(expr.Should()); shouldParts != "" {
		parts = append(parts, shouldParts)
	}

	for _, cond := range expr.MustNot() {
		parts = append(parts, "-"+buildCondition(cond))
	}

	return strings.Join(parts, " ")
}

func buildCondition(cond filter.Condition) string {
	if cond.IsMatch() {
		return buildTagFilter(fieldAlias(cond.Key()), cond.Match())
	}
	if cond.IsRange() {
		return buildNumericFilter(fieldAlias(cond.Key()), *cond.Range())
	}
	return ""
}

func buildShouldGroup(conditions []filter.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildTagAny(key string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GT() != nil {
		minBound = fmt.Sprintf("(%g", *r.GT())
	} else if r.GTE() != nil {
		minBound = fmt.Sprintf("%g", *r.GTE())
	}

	if r.LT() != nil {
		maxBound = fmt.Sprintf("(%g", *r.LT())
	} else if r.LTE() != nil {
		maxBound = fmt.Sprintf("%g", *r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
