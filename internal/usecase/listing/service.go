package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	"github.com/kailas-cloud/recipeshare/internal/logger"
	"github.com/kailas-cloud/recipeshare/internal/metrics"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// Service resolves list queries: validate, build options, fetch, filter, paginate.
type Service struct {
	tags         listquery.TagResolver
	defaultLimit int
}

// New creates a list query resolver. defaultLimit applies when only offset is given.
func New(tags listquery.TagResolver, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = listquery.DefaultLimit
	}
	return &Service{tags: tags, defaultLimit: defaultLimit}
}

// Find runs req and returns one page. Without offset and limit every item is
// returned and Length equals GroupLength.
func (s *Service) Find(ctx context.Context, req Request) (listquery.Page[db.Document], error) {
	start := time.Now()
	mode, page, err := s.find(ctx, req)

	name := "unknown"
	if req.Collection != nil {
		name = req.Collection.Name()
	}
	metrics.ListingQueryDuration.WithLabelValues(name, string(mode)).Observe(time.Since(start).Seconds())
	metrics.ListingQueriesTotal.WithLabelValues(name, string(mode), outcome(err)).Inc()

	if err != nil {
		if errors.Is(err, domain.ErrMisconfigured) {
			logger.FromContext(ctx).Error("List query misconfigured",
				zap.String("collection", name),
				zap.String("path", req.Path),
				zap.Error(err),
			)
		}
		return listquery.Page[db.Document]{}, err
	}
	return page, nil
}

func (s *Service) find(ctx context.Context, req Request) (Mode, listquery.Page[db.Document], error) {
	var empty listquery.Page[db.Document]

	if req.Collection == nil {
		return Flat, empty, listquery.ErrCollectionRequired
	}
	mode, err := modeOf(req)
	if err != nil {
		return mode, empty, err
	}

	desc, err := listquery.Options(ctx, req.Query, s.tags)
	if err != nil {
		return mode, empty, err
	}

	key := resultKey(req)
	if desc.Unsatisfiable {
		return mode, listquery.NewPage(key, []db.Document{}), nil
	}

	q, err := toQuery(desc)
	if err != nil {
		return mode, empty, err
	}

	var results []db.Document
	if mode == Flat {
		results, err = req.Collection.Find(ctx, q)
	} else {
		results, err = req.Collection.FindRelated(ctx, req.ID, req.Path, q)
	}
	if err != nil {
		return mode, empty, fmt.Errorf("find %s: %w", req.Collection.Name(), err)
	}
	if results == nil {
		results = []db.Document{}
	}

	if req.Filter != nil {
		kept := make([]db.Document, 0, len(results))
		for _, doc := range results {
			if req.Filter(doc) {
				kept = append(kept, doc)
			}
		}
		results = kept
	}

	offset, limit, paginate := req.Query.Window(s.defaultLimit)
	if !paginate {
		return mode, listquery.NewPage(key, results), nil
	}

	items, err := listquery.Paginate(results, offset, limit)
	if err != nil {
		return mode, empty, err
	}
	return mode, listquery.Page[db.Document]{
		Length:      len(results),
		GroupLength: len(items),
		ResultKey:   key,
		Items:       items,
	}, nil
}

func modeOf(req Request) (Mode, error) {
	switch {
	case req.ID == "" && req.Path == "":
		return Flat, nil
	case req.ID == "":
		return Nested, listquery.ErrIDRequired
	case req.Path == "":
		return Nested, listquery.ErrPathRequired
	default:
		return Nested, nil
	}
}

func resultKey(req Request) string {
	switch {
	case req.As != "":
		return req.As
	case req.Path != "":
		return req.Path
	default:
		return req.Collection.Name()
	}
}

func toQuery(d listquery.Descriptor) (document.Query, error) {
	expr, err := d.Expression()
	if err != nil {
		return document.Query{}, err
	}
	sort := make([]db.SortKey, 0, len(d.Sort))
	for _, k := range d.Sort {
		sort = append(sort, db.SortKey{Field: k.Field, Descending: k.Descending})
	}
	return document.Query{Filter: expr, Sort: sort}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrOffsetOutOfBounds):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrMisconfigured):
		return "misconfigured"
	default:
		return "error"
	}
}
