package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	"github.com/kailas-cloud/recipeshare/internal/domain/text"
)

// Review is one user's rating of a recipe.
type Review struct {
	ID        string   `json:"_id"`
	UserID    string   `json:"userId"`
	RecipeID  string   `json:"recipeId"`
	Rating    int      `json:"rating"`
	Body      string   `json:"body"`
	Images    []string `json:"images"`
	CreatedAt int64    `json:"createdAt"`
}

// Patch is a partial review update. Nil fields are unchanged.
type Patch struct {
	Rating *int
	Body   *string
}

// New validates and creates a review.
func New(userID, recipeID string, rating int, body string) (Review, error) {
	r := Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		RecipeID:  recipeID,
		Images:    []string{},
		CreatedAt: time.Now().UnixMilli(),
	}
	return r.Apply(Patch{Rating: &rating, Body: &body})
}

// Apply validates p and returns the updated review.
func (r Review) Apply(p Patch) (Review, error) {
	if p.Rating != nil {
		if *p.Rating < recipe.MinRating || *p.Rating > recipe.MaxRating {
			return Review{}, domain.NewValidation("rating must be between %d and %d", recipe.MinRating, recipe.MaxRating)
		}
		r.Rating = *p.Rating
	}
	if p.Body != nil {
		r.Body = text.PlainText(*p.Body)
	}
	return r, nil
}
