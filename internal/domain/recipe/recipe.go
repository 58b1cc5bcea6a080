package recipe

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/text"
)

// Rating bounds. DefaultRating applies while a recipe has no reviews.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Recipe is a published recipe. Ingredients are stored in Title Case and
// Tags holds tag ids.
type Recipe struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	UserID       string   `json:"userId"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
	Rating       int      `json:"rating"`
	PrepTime     int      `json:"prepTime"`
	CookTime     int      `json:"cookTime"`
	Servings     int      `json:"servings"`
	Reviews      []string `json:"reviews"`
	Images       []string `json:"images"`
	CreatedAt    int64    `json:"createdAt"`
}

// Draft holds the client-editable fields of a new recipe.
type Draft struct {
	Name         string
	Description  string
	Ingredients  []string
	Instructions []string
	Tags         []string
	PrepTime     int
	CookTime     int
	Servings     int
}

// Patch is a partial recipe update. Nil fields are unchanged.
type Patch struct {
	Name         *string
	Description  *string
	Ingredients  *[]string
	Instructions *[]string
	Tags         *[]string
	PrepTime     *int
	CookTime     *int
	Servings     *int
}

// New validates d and creates a recipe owned by userID.
func New(userID string, d Draft) (Recipe, error) {
	r := Recipe{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rating:    DefaultRating,
		Tags:      []string{},
		Reviews:   []string{},
		Images:    []string{},
		CreatedAt: time.Now().UnixMilli(),
	}
	return r.Apply(Patch{
		Name:         &d.Name,
		Description:  &d.Description,
		Ingredients:  &d.Ingredients,
		Instructions: &d.Instructions,
		Tags:         &d.Tags,
		PrepTime:     &d.PrepTime,
		CookTime:     &d.CookTime,
		Servings:     &d.Servings,
	})
}

// Apply validates p and returns the updated recipe.
func (r Recipe) Apply(p Patch) (Recipe, error) {
	if p.Name != nil {
		name := text.PlainText(*p.Name)
		if name == "" {
			return Recipe{}, domain.NewValidation("name is required")
		}
		r.Name = name
	}
	if p.Description != nil {
		r.Description = text.PlainText(*p.Description)
	}
	if p.Ingredients != nil {
		ingredients := text.TitleCaseAll(text.PlainTextAll(*p.Ingredients))
		if len(ingredients) == 0 {
			return Recipe{}, domain.NewValidation("at least one ingredient is required")
		}
		for _, in := range ingredients {
			if strings.Contains(in, ",") {
				return Recipe{}, domain.NewValidation("ingredient %q must not contain a comma", in)
			}
		}
		r.Ingredients = ingredients
	}
	if p.Instructions != nil {
		r.Instructions = text.PlainTextAll(*p.Instructions)
	}
	if p.Tags != nil {
		r.Tags = dedupe(*p.Tags)
	}
	for _, n := range []struct {
		name string
		v    *int
		dst  *int
	}{
		{"prepTime", p.PrepTime, &r.PrepTime},
		{"cookTime", p.CookTime, &r.CookTime},
		{"servings", p.Servings, &r.Servings},
	} {
		if n.v == nil {
			continue
		}
		if *n.v < 0 {
			return Recipe{}, domain.NewValidation("%s must not be negative", n.name)
		}
		*n.dst = *n.v
	}
	return r, nil
}

// AverageRating is the rounded mean of ratings clamped to the rating bounds,
// or DefaultRating when there are none.
func AverageRating(ratings []int) int {
	if len(ratings) == 0 {
		return DefaultRating
	}
	sum := 0
	for _, v := range ratings {
		sum += v
	}
	avg := int(math.Round(float64(sum) / float64(len(ratings))))
	return min(max(avg, MinRating), MaxRating)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = domain.AddRef(out, id)
	}
	return out
}
