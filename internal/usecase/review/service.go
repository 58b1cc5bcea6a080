package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/image"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	domreview "github.com/kailas-cloud/recipeshare/internal/domain/review"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

var errAlreadyReviewed = domain.NewConflict("You already reviewed this recipe")

// Service handles reviews and keeps recipe ratings in step with them.
type Service struct {
	repo    Repository
	recipes Recipes
	users   Users
	lister  listing.Finder
	handle  listing.Handle
}

// New creates a review service. handle is the reviews collection.
func New(repo Repository, recipes Recipes, users Users, lister listing.Finder, handle listing.Handle) *Service {
	return &Service{repo: repo, recipes: recipes, users: users, lister: lister, handle: handle}
}

// Create stores userID's review of recipeID. A user reviews a recipe once.
func (s *Service) Create(ctx context.Context, userID, recipeID string, rating int, body string) (domreview.Review, error) {
	rv, err := domreview.New(userID, recipeID, rating, body)
	if err != nil {
		return domreview.Review{}, err
	}

	rec, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		return domreview.Review{}, fmt.Errorf("get recipe: %w", err)
	}
	author, err := s.users.Get(ctx, userID)
	if err != nil {
		return domreview.Review{}, fmt.Errorf("get author: %w", err)
	}

	q, err := document.Match("recipeId", recipeID, "userId", userID)
	if err != nil {
		return domreview.Review{}, err
	}
	existing, err := s.repo.FindBy(ctx, q)
	if err != nil {
		return domreview.Review{}, fmt.Errorf("find reviews: %w", err)
	}
	if len(existing) > 0 {
		return domreview.Review{}, errAlreadyReviewed
	}

	if err := s.repo.Create(ctx, rv); err != nil {
		return domreview.Review{}, fmt.Errorf("create review: %w", err)
	}

	author.Reviews = domain.AddRef(author.Reviews, rv.ID)
	if err := s.users.Save(ctx, author.ID, author); err != nil {
		if delErr := s.repo.Delete(ctx, rv.ID); delErr != nil {
			return domreview.Review{}, fmt.Errorf("add review to user: %w", errors.Join(err, delErr))
		}
		return domreview.Review{}, fmt.Errorf("add review to user: %w", err)
	}

	rec.Reviews = domain.AddRef(rec.Reviews, rv.ID)
	if err := s.rate(ctx, rec); err != nil {
		author.Reviews = domain.RemoveRef(author.Reviews, rv.ID)
		return domreview.Review{}, errors.Join(err, s.rollback(ctx, author, rv.ID))
	}
	return rv, nil
}

// rollback undoes a stored review and its author reference.
func (s *Service) rollback(ctx context.Context, author domuser.User, id string) error {
	var errs []error
	if err := s.users.Save(ctx, author.ID, author); err != nil {
		errs = append(errs, fmt.Errorf("rollback author: %w", err))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		errs = append(errs, fmt.Errorf("rollback review: %w", err))
	}
	return errors.Join(errs...)
}

// Get retrieves a review by id.
func (s *Service) Get(ctx context.Context, id string) (domreview.Review, error) {
	rv, err := s.repo.Get(ctx, id)
	if err != nil {
		return domreview.Review{}, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

// Update applies p to a review written by userID.
func (s *Service) Update(ctx context.Context, userID, id string, p domreview.Patch) (domreview.Review, error) {
	rv, err := s.owned(ctx, userID, id)
	if err != nil {
		return domreview.Review{}, err
	}
	updated, err := rv.Apply(p)
	if err != nil {
		return domreview.Review{}, err
	}
	if err := s.repo.Save(ctx, id, updated); err != nil {
		return domreview.Review{}, fmt.Errorf("save review: %w", err)
	}

	if p.Rating != nil && *p.Rating != rv.Rating {
		rec, err := s.recipes.Get(ctx, rv.RecipeID)
		if err != nil {
			return domreview.Review{}, fmt.Errorf("get recipe: %w", err)
		}
		if err := s.rate(ctx, rec); err != nil {
			return domreview.Review{}, err
		}
	}
	return updated, nil
}

// Delete removes a review written by userID and pulls it from its recipe
// and author.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	rv, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	var errs []error
	if u, err := s.users.Get(ctx, rv.UserID); err == nil {
		u.Reviews = domain.RemoveRef(u.Reviews, id)
		if err := s.users.Save(ctx, u.ID, u); err != nil {
			errs = append(errs, fmt.Errorf("save author: %w", err))
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		errs = append(errs, fmt.Errorf("get author: %w", err))
	}

	if rec, err := s.recipes.Get(ctx, rv.RecipeID); err == nil {
		rec.Reviews = domain.RemoveRef(rec.Reviews, id)
		if err := s.rate(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		errs = append(errs, fmt.Errorf("get recipe: %w", err))
	}

	return errors.Join(errs...)
}

// List runs a flat list query over all reviews.
func (s *Service) List(ctx context.Context, q listquery.Params) (listquery.Page[domreview.Review], error) {
	return listing.FindAs[domreview.Review](ctx, s.lister, listing.Request{Collection: s.handle, Query: q})
}

// ListImages lists the images attached to review id.
func (s *Service) ListImages(ctx context.Context, id string, q listquery.Params) (listquery.Page[image.Image], error) {
	return listing.FindAs[image.Image](ctx, s.lister, listing.Request{
		Collection: s.handle, ID: id, Path: document.Images, Query: q,
	})
}

func (s *Service) owned(ctx context.Context, userID, id string) (domreview.Review, error) {
	rv, err := s.repo.Get(ctx, id)
	if err != nil {
		return domreview.Review{}, fmt.Errorf("get review: %w", err)
	}
	if rv.UserID != userID {
		return domreview.Review{}, domain.ErrForbidden
	}
	return rv, nil
}

// rate recomputes rec's rating from its stored reviews and saves rec.
func (s *Service) rate(ctx context.Context, rec domrecipe.Recipe) error {
	q, err := document.Match("recipeId", rec.ID)
	if err != nil {
		return err
	}
	reviews, err := s.repo.FindBy(ctx, q)
	if err != nil {
		return fmt.Errorf("find reviews: %w", err)
	}
	ratings := make([]int, 0, len(reviews))
	for _, rv := range reviews {
		ratings = append(ratings, rv.Rating)
	}
	rec.Rating = domrecipe.AverageRating(ratings)

	if err := s.recipes.Save(ctx, rec.ID, rec); err != nil {
		return fmt.Errorf("save recipe rating: %w", err)
	}
	return nil
}
