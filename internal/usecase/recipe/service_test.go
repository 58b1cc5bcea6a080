package recipe

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/recipeshare/internal/db/embedded"
	"github.com/kailas-cloud/recipeshare/internal/domain"
	domcol "github.com/kailas-cloud/recipeshare/internal/domain/collection"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	"github.com/kailas-cloud/recipeshare/internal/domain/review"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

// --- Mocks ---

type knownTags map[string]bool

func (k knownTags) Exists(_ context.Context, ids []string) error {
	for _, id := range ids {
		if !k[id] {
			return domain.NewNotFound("tag")
		}
	}
	return nil
}

type failingUsers struct {
	Users
	saveErr error
}

func (f *failingUsers) Save(context.Context, string, domuser.User) error { return f.saveErr }

// --- Fixture ---

type fixture struct {
	ctx     context.Context
	set     *document.Set
	users   *document.Repo[domuser.User]
	recipes *document.Repo[domrecipe.Recipe]
	reviews *document.Repo[review.Review]
	cols    *document.Repo[domcol.Collection]
	deps    Deps
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := embedded.NewStore(embedded.Config{InMemory: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(s.Close)
	set := document.NewSet(s)

	f := &fixture{
		ctx:     context.Background(),
		set:     set,
		users:   document.NewRepo[domuser.User](set.Users),
		recipes: document.NewRepo[domrecipe.Recipe](set.Recipes),
		reviews: document.NewRepo[review.Review](set.Reviews),
		cols:    document.NewRepo[domcol.Collection](set.Collections),
	}
	f.deps = Deps{
		Repo:        f.recipes,
		Users:       f.users,
		Reviews:     f.reviews,
		Collections: f.cols,
		Tags:        knownTags{"t1": true, "t2": true},
		Lister:      listing.New(nil, 0),
		Handle:      set.Recipes,
	}
	f.svc = New(f.deps)
	return f
}

func (f *fixture) user(t *testing.T, username string) domuser.User {
	t.Helper()
	u := domuser.New(domuser.Registration{Name: username, Username: username, Email: username + "@example.com"}, "hash")
	if err := f.users.Create(f.ctx, u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return u
}

func (f *fixture) recipe(t *testing.T, userID, name string) domrecipe.Recipe {
	t.Helper()
	r, err := f.svc.Create(f.ctx, userID, domrecipe.Draft{Name: name, Ingredients: []string{"salt"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func ptr[T any](v T) *T { return &v }

// --- Tests ---

func TestCreate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "ada")

	r, err := f.svc.Create(f.ctx, u.ID, domrecipe.Draft{
		Name:        "Soup",
		Ingredients: []string{"green peas", "water"},
		Tags:        []string{"t1", "t1", "t2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Rating != domrecipe.DefaultRating || r.UserID != u.ID {
		t.Errorf("recipe = %+v", r)
	}
	if !slices.Equal(r.Ingredients, []string{"Green Peas", "Water"}) || !slices.Equal(r.Tags, []string{"t1", "t2"}) {
		t.Errorf("ingredients = %v, tags = %v", r.Ingredients, r.Tags)
	}

	owner, _ := f.users.Get(f.ctx, u.ID)
	if !slices.Equal(owner.Recipes, []string{r.ID}) {
		t.Errorf("owner recipes = %v", owner.Recipes)
	}
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "ada")

	_, err := f.svc.Create(f.ctx, u.ID, domrecipe.Draft{Name: "Soup", Ingredients: []string{"salt"}, Tags: []string{"nope"}})
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "tag" {
		t.Errorf("unknown tag: expected tag NotFoundError, got %v", err)
	}

	if _, err := f.svc.Create(f.ctx, u.ID, domrecipe.Draft{Name: "Soup"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("no ingredients: expected ErrInvalidInput, got %v", err)
	}

	if _, err := f.svc.Create(f.ctx, "ghost", domrecipe.Draft{Name: "Soup", Ingredients: []string{"salt"}}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown owner: expected ErrNotFound, got %v", err)
	}
}

func TestCreate_RollsBackOnOwnerSaveFailure(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "ada")
	deps := f.deps
	deps.Users = &failingUsers{Users: f.users, saveErr: errors.New("write failed")}
	svc := New(deps)

	if _, err := svc.Create(f.ctx, u.ID, domrecipe.Draft{Name: "Soup", Ingredients: []string{"salt"}}); err == nil {
		t.Fatal("expected error")
	}
	page, err := f.svc.List(f.ctx, listquery.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Length != 0 {
		t.Errorf("recipe left behind after rollback: %+v", page.Items)
	}
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "ada")
	other := f.user(t, "bob")
	r := f.recipe(t, u.ID, "Soup")

	if _, err := f.svc.Update(f.ctx, other.ID, r.ID, domrecipe.Patch{Name: ptr("Stew")}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Update(f.ctx, u.ID, r.ID, domrecipe.Patch{Tags: ptr([]string{"zzz"})}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown tag: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Update(f.ctx, u.ID, "missing", domrecipe.Patch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing recipe: expected ErrNotFound, got %v", err)
	}

	got, err := f.svc.Update(f.ctx, u.ID, r.ID, domrecipe.Patch{Name: ptr("Stew"), Servings: ptr(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := f.svc.Get(f.ctx, r.ID)
	if got.Name != "Stew" || stored.Name != "Stew" || stored.Servings != 4 || stored.Ingredients[0] != "Salt" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestDelete_Cascades(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ada")
	critic := f.user(t, "bob")
	r := f.recipe(t, owner.ID, "Soup")
	keep := f.recipe(t, owner.ID, "Bread")

	rv, _ := review.New(critic.ID, r.ID, 4, "nice")
	if err := f.reviews.Create(f.ctx, rv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	critic.Reviews = []string{rv.ID}
	if err := f.users.Save(f.ctx, critic.ID, critic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	col, _ := domcol.New(critic.ID, "Favourites", "", false)
	col.Recipes = []string{r.ID, keep.ID}
	if err := f.cols.Create(f.ctx, col); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(f.ctx, critic.ID, r.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner: expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(f.ctx, owner.ID, r.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.Get(f.ctx, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("recipe still present: %v", err)
	}
	if _, err := f.reviews.Get(f.ctx, rv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("review still present: %v", err)
	}
	gotOwner, _ := f.users.Get(f.ctx, owner.ID)
	if !slices.Equal(gotOwner.Recipes, []string{keep.ID}) {
		t.Errorf("owner recipes = %v", gotOwner.Recipes)
	}
	gotCritic, _ := f.users.Get(f.ctx, critic.ID)
	if len(gotCritic.Reviews) != 0 {
		t.Errorf("critic reviews = %v", gotCritic.Reviews)
	}
	gotCol, _ := f.cols.Get(f.ctx, col.ID)
	if !slices.Equal(gotCol.Recipes, []string{keep.ID}) {
		t.Errorf("collection recipes = %v", gotCol.Recipes)
	}
}

func TestListReviews(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ada")
	r := f.recipe(t, owner.ID, "Soup")

	var ids []string
	for i, rating := range []int{2, 5, 3} {
		rv, _ := review.New(owner.ID, r.ID, rating, "")
		rv.CreatedAt = int64(i)
		if err := f.reviews.Create(f.ctx, rv); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, rv.ID)
	}
	r.Reviews = ids
	if err := f.recipes.Save(f.ctx, r.ID, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, err := listquery.Validate(map[string]string{"rating": "desc"}, listquery.ReviewParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, err := f.svc.ListReviews(f.ctx, r.ID, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.ResultKey != "reviews" || page.Length != 3 {
		t.Fatalf("page = %+v", page)
	}
	got := []int{page.Items[0].Rating, page.Items[1].Rating, page.Items[2].Rating}
	if !slices.Equal(got, []int{5, 3, 2}) {
		t.Errorf("ratings = %v", got)
	}

	if _, err := f.svc.ListImages(f.ctx, "missing", listquery.Params{}); !errors.Is(err, listquery.ErrParentNotFound) {
		t.Errorf("expected ErrParentNotFound, got %v", err)
	}
}
