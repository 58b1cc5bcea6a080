package collection

import (
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/text"
)

// MaxNameLength bounds a collection name.
const MaxNameLength = 100

// Collection is a user's named set of recipes. Private collections are
// visible to their owner only.
type Collection struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	UserID      string   `json:"userId"`
	IsPrivate   bool     `json:"isPrivate"`
	Recipes     []string `json:"recipes"`
	CreatedAt   int64    `json:"createdAt"`
}

// Patch is a partial collection update. Nil fields are unchanged.
// AddRecipe and RemoveRecipe hold recipe ids.
type Patch struct {
	Name         *string
	Description  *string
	IsPrivate    *bool
	AddRecipe    string
	RemoveRecipe string
}

func validateName(name string) error {
	if name == "" {
		return domain.NewValidation("collection name is required")
	}
	if len(name) > MaxNameLength {
		return domain.NewValidation("collection name too long (max %d)", MaxNameLength)
	}
	return nil
}

// New validates and creates a collection owned by userID.
func New(userID, name, description string, isPrivate bool) (Collection, error) {
	n := text.PlainText(name)
	if err := validateName(n); err != nil {
		return Collection{}, err
	}
	return Collection{
		ID:          uuid.NewString(),
		Name:        n,
		Description: text.PlainText(description),
		UserID:      userID,
		IsPrivate:   isPrivate,
		Recipes:     []string{},
		CreatedAt:   time.Now().UnixMilli(),
	}, nil
}

// Apply validates p and returns the updated collection. Adding a recipe that is
// already present or removing one that is absent is a validation error.
func (c Collection) Apply(p Patch) (Collection, error) {
	if p.Name != nil {
		n := text.PlainText(*p.Name)
		if err := validateName(n); err != nil {
			return Collection{}, err
		}
		c.Name = n
	}
	if p.Description != nil {
		c.Description = text.PlainText(*p.Description)
	}
	if p.IsPrivate != nil {
		c.IsPrivate = *p.IsPrivate
	}
	if p.AddRecipe != "" {
		if domain.HasRef(c.Recipes, p.AddRecipe) {
			return Collection{}, domain.NewValidation("Recipe already in collection")
		}
		c.Recipes = append(append([]string{}, c.Recipes...), p.AddRecipe)
	}
	if p.RemoveRecipe != "" {
		if !domain.HasRef(c.Recipes, p.RemoveRecipe) {
			return Collection{}, domain.NewValidation("Recipe not in collection")
		}
		c.Recipes = domain.RemoveRef(c.Recipes, p.RemoveRecipe)
	}
	return c, nil
}

// VisibleTo reports whether userID may see the collection. An empty userID is anonymous.
func (c Collection) VisibleTo(userID string) bool {
	return !c.IsPrivate || (userID != "" && c.UserID == userID)
}

// IsPublic is the listing predicate for public collections.
func IsPublic(c Collection) bool { return !c.IsPrivate }
