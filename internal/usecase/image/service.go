package image

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	domimage "github.com/kailas-cloud/recipeshare/internal/domain/image"
	"github.com/kailas-cloud/recipeshare/internal/logger"
)

// Upload is one image upload request.
type Upload struct {
	Filename string
	Body     io.Reader
	// RecipeID or ReviewID attaches the image. The caller must own the target.
	RecipeID string
	ReviewID string
}

// Service uploads images to the host and tracks them on their owners.
type Service struct {
	host    Host
	repo    Repository
	users   Users
	recipes Recipes
	reviews Reviews
}

// New creates an image service.
func New(host Host, repo Repository, users Users, recipes Recipes, reviews Reviews) *Service {
	return &Service{host: host, repo: repo, users: users, recipes: recipes, reviews: reviews}
}

// Upload stores the image at the host, records it and attaches it to the
// uploader and the optional recipe or review.
func (s *Service) Upload(ctx context.Context, userID string, in Upload) (domimage.Image, error) {
	if !s.host.Enabled() {
		return domimage.Image{}, domain.ErrImageHostDisabled
	}
	if err := domimage.ValidateFilename(in.Filename); err != nil {
		return domimage.Image{}, err
	}
	if err := domimage.ValidateOwner(in.RecipeID, in.ReviewID); err != nil {
		return domimage.Image{}, err
	}
	if err := s.checkTarget(ctx, userID, in); err != nil {
		return domimage.Image{}, err
	}

	uploader, err := s.users.Get(ctx, userID)
	if err != nil {
		return domimage.Image{}, fmt.Errorf("get uploader: %w", err)
	}

	hosted, err := s.host.Upload(ctx, in.Filename, in.Body)
	if err != nil {
		return domimage.Image{}, fmt.Errorf("upload image: %w", err)
	}

	img := domimage.New(userID, in.RecipeID, in.ReviewID, hosted)
	if err := s.repo.Create(ctx, img); err != nil {
		// Rollback the hosted upload.
		if dErr := s.host.Destroy(ctx, hosted.PublicID); dErr != nil {
			return domimage.Image{}, fmt.Errorf("create image: %w", errors.Join(err, dErr))
		}
		return domimage.Image{}, fmt.Errorf("create image: %w", err)
	}

	uploader.Images = domain.AddRef(uploader.Images, img.ID)
	if err := s.users.Save(ctx, uploader.ID, uploader); err != nil {
		return domimage.Image{}, fmt.Errorf("add image to user: %w", err)
	}
	if err := s.attach(ctx, img, domain.AddRef); err != nil {
		return domimage.Image{}, err
	}
	return img, nil
}

// Get retrieves an image record by id.
func (s *Service) Get(ctx context.Context, id string) (domimage.Image, error) {
	img, err := s.repo.Get(ctx, id)
	if err != nil {
		return domimage.Image{}, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

// Delete removes an image uploaded by userID from the host and from every
// document referencing it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	img, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get image: %w", err)
	}
	if img.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.host.Destroy(ctx, img.PublicID); err != nil {
		return fmt.Errorf("destroy image: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	var errs []error
	if u, err := s.users.Get(ctx, img.UserID); err == nil {
		u.Images = domain.RemoveRef(u.Images, id)
		if err := s.users.Save(ctx, u.ID, u); err != nil {
			errs = append(errs, fmt.Errorf("save uploader: %w", err))
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		errs = append(errs, fmt.Errorf("get uploader: %w", err))
	}
	if err := s.attach(ctx, img, domain.RemoveRef); err != nil && !errors.Is(err, domain.ErrNotFound) {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		logger.FromContext(ctx).Warn("Image deleted with dangling references",
			zap.String("image_id", id), zap.Error(err))
		return err
	}
	return nil
}

// checkTarget verifies that the recipe or review to attach to exists and
// belongs to userID.
func (s *Service) checkTarget(ctx context.Context, userID string, in Upload) error {
	switch {
	case in.RecipeID != "":
		r, err := s.recipes.Get(ctx, in.RecipeID)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		if r.UserID != userID {
			return domain.ErrForbidden
		}
	case in.ReviewID != "":
		rv, err := s.reviews.Get(ctx, in.ReviewID)
		if err != nil {
			return fmt.Errorf("get review: %w", err)
		}
		if rv.UserID != userID {
			return domain.ErrForbidden
		}
	}
	return nil
}

// attach applies edit to the image list of the recipe or review img belongs to.
func (s *Service) attach(ctx context.Context, img domimage.Image, edit func([]string, string) []string) error {
	switch {
	case img.RecipeID != "":
		r, err := s.recipes.Get(ctx, img.RecipeID)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		r.Images = edit(r.Images, img.ID)
		if err := s.recipes.Save(ctx, r.ID, r); err != nil {
			return fmt.Errorf("save recipe images: %w", err)
		}
	case img.ReviewID != "":
		rv, err := s.reviews.Get(ctx, img.ReviewID)
		if err != nil {
			return fmt.Errorf("get review: %w", err)
		}
		rv.Images = edit(rv.Images, img.ID)
		if err := s.reviews.Save(ctx, rv.ID, rv); err != nil {
			return fmt.Errorf("save review images: %w", err)
		}
	}
	return nil
}
