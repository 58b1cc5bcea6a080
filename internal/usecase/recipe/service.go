package recipe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/image"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	"github.com/kailas-cloud/recipeshare/internal/domain/review"
	"github.com/kailas-cloud/recipeshare/internal/logger"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

// Service handles recipe CRUD and recipe lists.
type Service struct {
	repo        Repository
	users       Users
	reviews     Reviews
	collections Collections
	tags        Tags
	lister      listing.Finder
	handle      listing.Handle
}

// Deps groups the collaborators of the recipe service.
type Deps struct {
	Repo        Repository
	Users       Users
	Reviews     Reviews
	Collections Collections
	Tags        Tags
	Lister      listing.Finder
	// Handle is the recipes collection.
	Handle listing.Handle
}

// New creates a recipe service.
func New(d Deps) *Service {
	return &Service{
		repo:        d.Repo,
		users:       d.Users,
		reviews:     d.Reviews,
		collections: d.Collections,
		tags:        d.Tags,
		lister:      d.Lister,
		handle:      d.Handle,
	}
}

// Create validates d, stores the recipe and adds it to its owner's recipes.
func (s *Service) Create(ctx context.Context, userID string, d domrecipe.Draft) (domrecipe.Recipe, error) {
	r, err := domrecipe.New(userID, d)
	if err != nil {
		return domrecipe.Recipe{}, err
	}
	if err := s.tags.Exists(ctx, r.Tags); err != nil {
		return domrecipe.Recipe{}, err
	}

	owner, err := s.users.Get(ctx, userID)
	if err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("get owner: %w", err)
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}

	owner.Recipes = domain.AddRef(owner.Recipes, r.ID)
	if err := s.users.Save(ctx, owner.ID, owner); err != nil {
		// Rollback: the recipe must not exist without its owner reference.
		if delErr := s.repo.Delete(ctx, r.ID); delErr != nil {
			return domrecipe.Recipe{}, fmt.Errorf("add recipe to user: %w", errors.Join(err, delErr))
		}
		return domrecipe.Recipe{}, fmt.Errorf("add recipe to user: %w", err)
	}
	return r, nil
}

// Get retrieves a recipe by id.
func (s *Service) Get(ctx context.Context, id string) (domrecipe.Recipe, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

// Update applies p to a recipe owned by userID.
func (s *Service) Update(ctx context.Context, userID, id string, p domrecipe.Patch) (domrecipe.Recipe, error) {
	r, err := s.owned(ctx, userID, id)
	if err != nil {
		return domrecipe.Recipe{}, err
	}
	updated, err := r.Apply(p)
	if err != nil {
		return domrecipe.Recipe{}, err
	}
	if p.Tags != nil {
		if err := s.tags.Exists(ctx, updated.Tags); err != nil {
			return domrecipe.Recipe{}, err
		}
	}
	if err := s.repo.Save(ctx, id, updated); err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("save recipe: %w", err)
	}
	return updated, nil
}

// Delete removes a recipe owned by userID together with its reviews, and
// pulls it from its owner and from every collection holding it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	r, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	log := logger.FromContext(ctx).With(zap.String("recipe_id", id))
	var errs []error

	if err := s.pullFromUser(ctx, r.UserID, id); err != nil {
		errs = append(errs, err)
	}
	if err := s.deleteReviews(ctx, id); err != nil {
		errs = append(errs, err)
	}
	if err := s.pullFromCollections(ctx, id); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		log.Warn("Recipe deleted with dangling references", zap.Error(err))
		return fmt.Errorf("delete recipe references: %w", err)
	}
	return nil
}

// List runs a flat list query over all recipes.
func (s *Service) List(ctx context.Context, q listquery.Params) (listquery.Page[domrecipe.Recipe], error) {
	return listing.FindAs[domrecipe.Recipe](ctx, s.lister, listing.Request{Collection: s.handle, Query: q})
}

// ListReviews lists the reviews of recipe id.
func (s *Service) ListReviews(ctx context.Context, id string, q listquery.Params) (listquery.Page[review.Review], error) {
	return listing.FindAs[review.Review](ctx, s.lister, listing.Request{
		Collection: s.handle, ID: id, Path: document.Reviews, Query: q,
	})
}

// ListImages lists the images attached to recipe id.
func (s *Service) ListImages(ctx context.Context, id string, q listquery.Params) (listquery.Page[image.Image], error) {
	return listing.FindAs[image.Image](ctx, s.lister, listing.Request{
		Collection: s.handle, ID: id, Path: document.Images, Query: q,
	})
}

// owned loads recipe id and checks that userID owns it.
func (s *Service) owned(ctx context.Context, userID, id string) (domrecipe.Recipe, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrecipe.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	if r.UserID != userID {
		return domrecipe.Recipe{}, domain.ErrForbidden
	}
	return r, nil
}

func (s *Service) pullFromUser(ctx context.Context, userID, recipeID string) error {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}
	u.Recipes = domain.RemoveRef(u.Recipes, recipeID)
	if err := s.users.Save(ctx, u.ID, u); err != nil {
		return fmt.Errorf("save owner: %w", err)
	}
	return nil
}

func (s *Service) deleteReviews(ctx context.Context, recipeID string) error {
	q, err := document.Match("recipeId", recipeID)
	if err != nil {
		return err
	}
	reviews, err := s.reviews.FindBy(ctx, q)
	if err != nil {
		return fmt.Errorf("find reviews: %w", err)
	}

	var errs []error
	for _, rv := range reviews {
		if err := s.reviews.Delete(ctx, rv.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete review %s: %w", rv.ID, err))
			continue
		}
		u, err := s.users.Get(ctx, rv.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("get reviewer %s: %w", rv.UserID, err))
			continue
		}
		u.Reviews = domain.RemoveRef(u.Reviews, rv.ID)
		if err := s.users.Save(ctx, u.ID, u); err != nil {
			errs = append(errs, fmt.Errorf("save reviewer %s: %w", u.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) pullFromCollections(ctx context.Context, recipeID string) error {
	q, err := document.Match("recipes", recipeID)
	if err != nil {
		return err
	}
	cols, err := s.collections.FindBy(ctx, q)
	if err != nil {
		return fmt.Errorf("find collections: %w", err)
	}

	var errs []error
	for _, c := range cols {
		c.Recipes = domain.RemoveRef(c.Recipes, recipeID)
		if err := s.collections.Save(ctx, c.ID, c); err != nil {
			errs = append(errs, fmt.Errorf("save collection %s: %w", c.ID, err))
		}
	}
	return errors.Join(errs...)
}
