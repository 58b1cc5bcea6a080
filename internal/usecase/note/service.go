package note

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	domnote "github.com/kailas-cloud/recipeshare/internal/domain/note"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

var (
	errNoNotes    = &domain.NotFoundError{Kind: "note", Message: "No notes for that recipe!"}
	errNotesExist = domain.NewConflict("Notes already exist")
)

// Service handles a user's private note on a recipe. There is at most one
// note per user and recipe.
type Service struct {
	repo    Repository
	recipes Recipes
}

// New creates a note service.
func New(repo Repository, recipes Recipes) *Service {
	return &Service{repo: repo, recipes: recipes}
}

// Get returns userID's note on recipeID.
func (s *Service) Get(ctx context.Context, userID, recipeID string) (domnote.Note, error) {
	return s.find(ctx, userID, recipeID)
}

// Create stores userID's note on recipeID.
func (s *Service) Create(ctx context.Context, userID, recipeID, body string) (domnote.Note, error) {
	n, err := domnote.New(userID, recipeID, body)
	if err != nil {
		return domnote.Note{}, err
	}
	if _, err := s.recipes.Get(ctx, recipeID); err != nil {
		return domnote.Note{}, fmt.Errorf("get recipe: %w", err)
	}

	if _, err := s.find(ctx, userID, recipeID); err == nil {
		return domnote.Note{}, errNotesExist
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domnote.Note{}, err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return domnote.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Update replaces the body of userID's note on recipeID.
func (s *Service) Update(ctx context.Context, userID, recipeID, body string) (domnote.Note, error) {
	n, err := s.find(ctx, userID, recipeID)
	if err != nil {
		return domnote.Note{}, err
	}
	updated, err := n.WithBody(body)
	if err != nil {
		return domnote.Note{}, err
	}
	if err := s.repo.Save(ctx, n.ID, updated); err != nil {
		return domnote.Note{}, fmt.Errorf("save note: %w", err)
	}
	return updated, nil
}

// Delete removes userID's note on recipeID and returns its id.
func (s *Service) Delete(ctx context.Context, userID, recipeID string) (string, error) {
	n, err := s.find(ctx, userID, recipeID)
	if err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, n.ID); err != nil {
		return "", fmt.Errorf("delete note: %w", err)
	}
	return n.ID, nil
}

func (s *Service) find(ctx context.Context, userID, recipeID string) (domnote.Note, error) {
	q, err := document.Match("userId", userID, "recipeId", recipeID)
	if err != nil {
		return domnote.Note{}, err
	}
	n, err := s.repo.FindOneBy(ctx, q)
	if errors.Is(err, domain.ErrNotFound) {
		return domnote.Note{}, errNoNotes
	}
	if err != nil {
		return domnote.Note{}, fmt.Errorf("find note: %w", err)
	}
	return n, nil
}
