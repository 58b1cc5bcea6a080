package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	domcol "github.com/kailas-cloud/recipeshare/internal/domain/collection"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

// Service handles recipe collections. Private collections are visible to
// their owner only.
type Service struct {
	repo    Repository
	users   Users
	recipes Recipes
	lister  listing.Finder
	handle  listing.Handle
}

// New creates a collection service. handle is the collections collection.
func New(repo Repository, users Users, recipes Recipes, lister listing.Finder, handle listing.Handle) *Service {
	return &Service{repo: repo, users: users, recipes: recipes, lister: lister, handle: handle}
}

// Create validates and stores a new collection owned by userID.
func (s *Service) Create(ctx context.Context, userID, name, description string, isPrivate bool) (domcol.Collection, error) {
	c, err := domcol.New(userID, name, description, isPrivate)
	if err != nil {
		return domcol.Collection{}, err
	}

	owner, err := s.users.Get(ctx, userID)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("get owner: %w", err)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return domcol.Collection{}, fmt.Errorf("create collection: %w", err)
	}

	owner.Collections = domain.AddRef(owner.Collections, c.ID)
	if err := s.users.Save(ctx, owner.ID, owner); err != nil {
		if delErr := s.repo.Delete(ctx, c.ID); delErr != nil {
			return domcol.Collection{}, fmt.Errorf("add collection to user: %w", errors.Join(err, delErr))
		}
		return domcol.Collection{}, fmt.Errorf("add collection to user: %w", err)
	}
	return c, nil
}

// Get returns collection id as seen by viewerID. viewerID is empty for
// anonymous callers.
func (s *Service) Get(ctx context.Context, viewerID, id string) (domcol.Collection, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	if !c.VisibleTo(viewerID) {
		return domcol.Collection{}, domain.ErrUnauthorized
	}
	return c, nil
}

// Update applies p to a collection owned by userID.
func (s *Service) Update(ctx context.Context, userID, id string, p domcol.Patch) (domcol.Collection, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return domcol.Collection{}, err
	}
	if p.AddRecipe != "" {
		if _, err := s.recipes.Get(ctx, p.AddRecipe); err != nil {
			return domcol.Collection{}, fmt.Errorf("get recipe: %w", err)
		}
	}

	updated, err := c.Apply(p)
	if err != nil {
		return domcol.Collection{}, err
	}
	if err := s.repo.Save(ctx, id, updated); err != nil {
		return domcol.Collection{}, fmt.Errorf("save collection: %w", err)
	}
	return updated, nil
}

// Delete removes a collection owned by userID and pulls it from the owner.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	owner, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}
	owner.Collections = domain.RemoveRef(owner.Collections, id)
	if err := s.users.Save(ctx, owner.ID, owner); err != nil {
		return fmt.Errorf("pull collection from user: %w", err)
	}
	return nil
}

// List runs a flat list query over public collections.
func (s *Service) List(ctx context.Context, q listquery.Params) (listquery.Page[domcol.Collection], error) {
	return listing.FindAs[domcol.Collection](ctx, s.lister, listing.Request{
		Collection: s.handle,
		Query:      q,
		Filter:     document.Public,
	})
}

// ListRecipes lists the recipes in collection id as seen by viewerID.
func (s *Service) ListRecipes(ctx context.Context, viewerID, id string, q listquery.Params) (listquery.Page[domrecipe.Recipe], error) {
	if _, err := s.Get(ctx, viewerID, id); err != nil {
		return listquery.Page[domrecipe.Recipe]{}, err
	}
	return listing.FindAs[domrecipe.Recipe](ctx, s.lister, listing.Request{
		Collection: s.handle, ID: id, Path: document.Recipes, Query: q,
	})
}

func (s *Service) owned(ctx context.Context, userID, id string) (domcol.Collection, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	if c.UserID != userID {
		return domcol.Collection{}, domain.ErrForbidden
	}
	return c, nil
}
