package document

import (
	"context"
	"errors"

	"github.com/kailas-cloud/recipeshare/internal/db"
)

// Collection names.
const (
	Users       = "users"
	Recipes     = "recipes"
	Reviews     = "reviews"
	Collections = "collections"
	Tags        = "tags"
	Notes       = "notes"
	Images      = "images"
)

// Schemas returns the schema of every collection.
func Schemas() []Schema {
	return []Schema{
		{
			Name: Users,
			Kind: "user",
			Relations: map[string]string{
				Recipes: Recipes, Reviews: Reviews, Collections: Collections, Images: Images,
			},
			Index: db.NewIndex(Users).
				Tag(db.FieldID).
				Tag("username").Unique().
				Tag("email").Unique().
				Numeric(db.FieldCreatedAt).Sortable().
				MustBuild(),
		},
		{
			Name:      Recipes,
			Kind:      "recipe",
			Relations: map[string]string{Reviews: Reviews, Images: Images},
			Index: db.NewIndex(Recipes).
				Tag(db.FieldID).
				Tag("userId").
				TagList("tags").
				TagList("ingredients").
				Numeric("rating").Sortable().
				Numeric(db.FieldCreatedAt).Sortable().
				MustBuild(),
		},
		{
			Name:      Reviews,
			Kind:      "review",
			Relations: map[string]string{Images: Images},
			Index: db.NewIndex(Reviews).
				Tag(db.FieldID).
				Tag("userId").
				Tag("recipeId").
				Numeric("rating").Sortable().
				Numeric(db.FieldCreatedAt).Sortable().
				MustBuild(),
		},
		{
			Name:      Collections,
			Kind:      "collection",
			Relations: map[string]string{Recipes: Recipes},
			Index: db.NewIndex(Collections).
				Tag(db.FieldID).
				Tag("userId").
				TagList("recipes").
				Numeric(db.FieldCreatedAt).Sortable().
				MustBuild(),
		},
		{
			Name: Tags,
			Kind: "tag",
			Index: db.NewIndex(Tags).
				Tag(db.FieldID).
				TagWithOpts("name", "", true).Unique().
				Numeric(db.FieldCreatedAt).Sortable().
				MustBuild(),
		},
		{
			Name: Notes,
			Kind: "note",
			Index: db.NewIndex(Notes).
				Tag(db.FieldID).
				Tag("userId").
				Tag("recipeId").
				Numeric(db.FieldCreatedAt).Sortable().
				MustBuild(),
		},
		{
			Name: Images,
			Kind: "image",
			Index: db.NewIndex(Images).
				Tag(db.FieldID).
				Tag("userId").
				Tag("recipeId").
				Tag("reviewId").
				Numeric(db.FieldCreatedAt).Sortable().
				MustBuild(),
		},
	}
}

// Set holds one handle per collection.
type Set struct {
	Users       *Collection
	Recipes     *Collection
	Reviews     *Collection
	Collections *Collection
	Tags        *Collection
	Notes       *Collection
	Images      *Collection
}

// NewSet creates handles for every schema on s.
func NewSet(s store) *Set {
	set := &Set{}
	for _, schema := range Schemas() {
		c := New(s, schema)
		switch schema.Name {
		case Users:
			set.Users = c
		case Recipes:
			set.Recipes = c
		case Reviews:
			set.Reviews = c
		case Collections:
			set.Collections = c
		case Tags:
			set.Tags = c
		case Notes:
			set.Notes = c
		case Images:
			set.Images = c
		}
	}
	return set
}

// All returns every handle.
func (s *Set) All() []*Collection {
	return []*Collection{s.Users, s.Recipes, s.Reviews, s.Collections, s.Tags, s.Notes, s.Images}
}

// EnsureIndexes creates all collection indexes.
func (s *Set) EnsureIndexes(ctx context.Context) error {
	var errs []error
	for _, c := range s.All() {
		if err := c.EnsureIndex(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Public reports whether a collections document is visible to everyone.
func Public(doc db.Document) bool {
	private, _ := doc["isPrivate"].(bool)
	return !private
}
