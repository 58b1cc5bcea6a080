package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/filter"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domtag "github.com/kailas-cloud/recipeshare/internal/domain/tag"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

// errExists is the client message for a duplicate tag name.
var errExists = domain.NewConflict("Tag already exists")

// Service handles tag operations and resolves tag names for list queries.
type Service struct {
	repo   Repository
	lister Lister
	handle listing.Handle
}

// New creates a tag service. handle is the tags collection used for listing.
func New(repo Repository, lister Lister, handle listing.Handle) *Service {
	return &Service{repo: repo, lister: lister, handle: handle}
}

// Create validates name and stores a new tag. Names are unique after Title Case.
func (s *Service) Create(ctx context.Context, name string) (domtag.Tag, error) {
	t, err := domtag.New(name)
	if err != nil {
		return domtag.Tag{}, err
	}

	existing, err := s.IDsByName(ctx, []string{t.Name})
	if err != nil {
		return domtag.Tag{}, err
	}
	if _, ok := existing[t.Name]; ok {
		return domtag.Tag{}, errExists
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domtag.Tag{}, errExists
		}
		return domtag.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

// Get retrieves a tag by id.
func (s *Service) Get(ctx context.Context, id string) (domtag.Tag, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtag.Tag{}, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

// Exists returns a not-found error for the first id without a tag.
func (s *Service) Exists(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return fmt.Errorf("check tag %s: %w", id, err)
		}
	}
	return nil
}

// List returns tags for a validated list query.
func (s *Service) List(ctx context.Context, q listquery.Params) (listquery.Page[domtag.Tag], error) {
	page, err := s.lister.Find(ctx, listing.Request{Collection: s.handle, Query: q})
	if err != nil {
		return listquery.Page[domtag.Tag]{}, fmt.Errorf("list tags: %w", err)
	}
	return listquery.MapPage(page, document.DecodeAs[domtag.Tag])
}

// IDsByName maps Title Case names to tag ids in one query. Unknown names are absent.
func (s *Service) IDsByName(ctx context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for start := 0; start < len(names); start += filter.MaxConditionsPerGroup {
		end := min(start+filter.MaxConditionsPerGroup, len(names))

		should := make([]filter.Condition, 0, end-start)
		for _, name := range names[start:end] {
			c, err := filter.NewMatch("name", name)
			if err != nil {
				return nil, err
			}
			should = append(should, c)
		}
		expr, err := filter.NewExpression(nil, should, nil)
		if err != nil {
			return nil, err
		}

		tags, err := s.repo.FindBy(ctx, document.Query{Filter: expr})
		if err != nil {
			return nil, fmt.Errorf("find tags by name: %w", err)
		}
		for _, t := range tags {
			out[t.Name] = t.ID
		}
	}
	return out, nil
}

// Seed creates every tag in names that does not exist yet and returns how
// many were created.
func (s *Service) Seed(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, name := range names {
		if _, err := s.Create(ctx, name); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("seed tag %q: %w", name, err)
		}
		created++
	}
	return created, nil
}
