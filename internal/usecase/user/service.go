package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	domcol "github.com/kailas-cloud/recipeshare/internal/domain/collection"
	"github.com/kailas-cloud/recipeshare/internal/domain/image"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	"github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	"github.com/kailas-cloud/recipeshare/internal/domain/review"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

var (
	errUsernameTaken = domain.NewConflict("Username already taken")
	errEmailTaken    = domain.NewConflict("Email already registered")
)

// Service handles accounts and the lists hanging off a user.
type Service struct {
	repo   Repository
	hasher Hasher
	lister listing.Finder
	handle listing.Handle
}

// New creates a user service. handle is the users collection.
func New(repo Repository, hasher Hasher, lister listing.Finder, handle listing.Handle) *Service {
	return &Service{repo: repo, hasher: hasher, lister: lister, handle: handle}
}

// Register validates r and stores a new user with a hashed password.
func (s *Service) Register(ctx context.Context, r domuser.Registration) (domuser.User, error) {
	if err := domuser.ValidateRegistration(r); err != nil {
		return domuser.User{}, err
	}
	if err := s.ensureUnique(ctx, "", r.Username, domuser.NormalizeEmail(r.Email)); err != nil {
		return domuser.User{}, err
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return domuser.User{}, err
	}
	u := domuser.New(r, hash)

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domuser.User{}, errUsernameTaken
		}
		return domuser.User{}, fmt.Errorf("create user: %w", err)
	}
	return u.Public(), nil
}

// Get returns the public view of a user.
func (s *Service) Get(ctx context.Context, id string) (domuser.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	return u.Public(), nil
}

// Update applies p to the user with id. A new password is hashed.
func (s *Service) Update(ctx context.Context, id string, p domuser.Patch) (domuser.User, error) {
	if p.IsEmpty() {
		return domuser.User{}, domain.NewValidation("no fields to update")
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	updated, err := u.Apply(p)
	if err != nil {
		return domuser.User{}, err
	}

	var username, email string
	if updated.Username != u.Username {
		username = updated.Username
	}
	if updated.Email != u.Email {
		email = updated.Email
	}
	if err := s.ensureUnique(ctx, id, username, email); err != nil {
		return domuser.User{}, err
	}

	if p.Password != nil {
		hash, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return domuser.User{}, err
		}
		updated.Password = hash
	}

	if err := s.repo.Save(ctx, id, updated); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domuser.User{}, errUsernameTaken
		}
		return domuser.User{}, fmt.Errorf("save user: %w", err)
	}
	return updated.Public(), nil
}

// Delete removes the user document. Content the user created is kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ListRecipes lists the recipes created by user id.
func (s *Service) ListRecipes(ctx context.Context, id string, q listquery.Params) (listquery.Page[recipe.Recipe], error) {
	return listing.FindAs[recipe.Recipe](ctx, s.lister, s.nested(id, document.Recipes, q))
}

// ListReviews lists the reviews written by user id.
func (s *Service) ListReviews(ctx context.Context, id string, q listquery.Params) (listquery.Page[review.Review], error) {
	return listing.FindAs[review.Review](ctx, s.lister, s.nested(id, document.Reviews, q))
}

// ListCollections lists the public collections of user id.
func (s *Service) ListCollections(ctx context.Context, id string, q listquery.Params) (listquery.Page[domcol.Collection], error) {
	req := s.nested(id, document.Collections, q)
	req.Filter = document.Public
	return listing.FindAs[domcol.Collection](ctx, s.lister, req)
}

// ListImages lists the images uploaded by user id.
func (s *Service) ListImages(ctx context.Context, id string, q listquery.Params) (listquery.Page[image.Image], error) {
	return listing.FindAs[image.Image](ctx, s.lister, s.nested(id, document.Images, q))
}

func (s *Service) nested(id, path string, q listquery.Params) listing.Request {
	return listing.Request{Collection: s.handle, ID: id, Path: path, Query: q}
}

// ensureUnique rejects a username or email held by another user. Empty
// values are not checked.
func (s *Service) ensureUnique(ctx context.Context, selfID, username, email string) error {
	checks := []struct {
		field, value string
		err          error
	}{
		{"username", username, errUsernameTaken},
		{"email", email, errEmailTaken},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		q, err := document.Match(c.field, c.value)
		if err != nil {
			return err
		}
		found, err := s.repo.FindBy(ctx, q)
		if err != nil {
			return fmt.Errorf("check %s: %w", c.field, err)
		}
		for _, u := range found {
			if u.ID != selfID {
				return c.err
			}
		}
	}
	return nil
}
