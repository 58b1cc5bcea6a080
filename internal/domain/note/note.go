package note

import (
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/text"
)

// Note is a user's private note on a recipe. One per (user, recipe).
type Note struct {
	ID        string `json:"_id"`
	UserID    string `json:"userId"`
	RecipeID  string `json:"recipeId"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"createdAt"`
}

// New validates and creates a note.
func New(userID, recipeID, body string) (Note, error) {
	n := Note{ID: uuid.NewString(), UserID: userID, RecipeID: recipeID, CreatedAt: time.Now().UnixMilli()}
	return n.WithBody(body)
}

// WithBody returns the note with a new body.
func (n Note) WithBody(body string) (Note, error) {
	b := text.PlainText(body)
	if b == "" {
		return Note{}, domain.NewValidation("note body is required")
	}
	n.Body = b
	return n, nil
}
