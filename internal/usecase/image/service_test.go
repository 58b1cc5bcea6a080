package image

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/recipeshare/internal/db/embedded"
	"github.com/kailas-cloud/recipeshare/internal/domain"
	domimage "github.com/kailas-cloud/recipeshare/internal/domain/image"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	domreview "github.com/kailas-cloud/recipeshare/internal/domain/review"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
)

// --- Mocks ---

type mockHost struct {
	disabled   bool
	uploadErr  error
	destroyErr error
	uploaded   []string
	destroyed  []string
}

func (m *mockHost) Enabled() bool { return !m.disabled }

func (m *mockHost) Upload(_ context.Context, filename string, r io.Reader) (domimage.Hosted, error) {
	if m.uploadErr != nil {
		return domimage.Hosted{}, m.uploadErr
	}
	data, _ := io.ReadAll(r)
	m.uploaded = append(m.uploaded, filename)
	return domimage.Hosted{
		URL:      "https://img.example.com/" + filename,
		PublicID: "pub-" + filename,
		Width:    len(data),
		Format:   "png",
	}, nil
}

func (m *mockHost) Destroy(_ context.Context, publicID string) error {
	if m.destroyErr != nil {
		return m.destroyErr
	}
	m.destroyed = append(m.destroyed, publicID)
	return nil
}

type failingRepo struct {
	Repository
	err error
}

func (f failingRepo) Create(context.Context, domimage.Image) error { return f.err }

// --- Fixture ---

type fixture struct {
	ctx     context.Context
	host    *mockHost
	images  *document.Repo[domimage.Image]
	users   *document.Repo[domuser.User]
	recipes *document.Repo[domrecipe.Recipe]
	reviews *document.Repo[domreview.Review]
	svc     *Service
	owner   domuser.User
	other   domuser.User
	recipe  domrecipe.Recipe
	review  domreview.Review
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
		host:    &mockHost{},
		images:  document.NewRepo[domimage.Image](set.Images),
		users:   document.NewRepo[domuser.User](set.Users),
		recipes: document.NewRepo[domrecipe.Recipe](set.Recipes),
		reviews: document.NewRepo[domreview.Review](set.Reviews),
	}
	f.svc = New(f.host, f.images, f.users, f.recipes, f.reviews)

	for _, name := range []string{"ada", "bob"} {
		u := domuser.New(domuser.Registration{Name: name, Username: name, Email: name + "@example.com"}, "hash")
		if err := f.users.Create(f.ctx, u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name == "ada" {
			f.owner = u
		} else {
			f.other = u
		}
	}
	f.recipe, _ = domrecipe.New(f.owner.ID, domrecipe.Draft{Name: "Soup", Ingredients: []string{"salt"}})
	if err := f.recipes.Create(f.ctx, f.recipe); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.review, _ = domreview.New(f.owner.ID, f.recipe.ID, 4, "")
	if err := f.reviews.Create(f.ctx, f.review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func (f *fixture) upload(name, recipeID, reviewID string) Upload {
	return Upload{Filename: name, Body: strings.NewReader("bytes"), RecipeID: recipeID, ReviewID: reviewID}
}

// --- Tests ---

func TestUpload_AttachesToRecipe(t *testing.T) {
	f := newFixture(t)

	img, err := f.svc.Upload(f.ctx, f.owner.ID, f.upload("soup.png", f.recipe.ID, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.PublicID != "pub-soup.png" || img.Width != 5 || img.RecipeID != f.recipe.ID {
		t.Errorf("image = %+v", img)
	}

	stored, err := f.svc.Get(f.ctx, img.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.URL != img.URL {
		t.Errorf("stored = %+v", stored)
	}
	u, _ := f.users.Get(f.ctx, f.owner.ID)
	r, _ := f.recipes.Get(f.ctx, f.recipe.ID)
	if !slices.Equal(u.Images, []string{img.ID}) || !slices.Equal(r.Images, []string{img.ID}) {
		t.Errorf("user images = %v, recipe images = %v", u.Images, r.Images)
	}
}

func TestUpload_AttachesToReview(t *testing.T) {
	f := newFixture(t)

	img, err := f.svc.Upload(f.ctx, f.owner.ID, f.upload("plate.JPG", "", f.review.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rv, _ := f.reviews.Get(f.ctx, f.review.ID)
	if !slices.Equal(rv.Images, []string{img.ID}) {
		t.Errorf("review images = %v", rv.Images)
	}
}

func TestUpload_Rejects(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		userID string
		in     Upload
		want   error
	}{
		{"bad extension", f.owner.ID, f.upload("doc.gif", "", ""), domain.ErrInvalidInput},
		{"both targets", f.owner.ID, f.upload("a.png", f.recipe.ID, f.review.ID), domain.ErrInvalidInput},
		{"foreign recipe", f.other.ID, f.upload("a.png", f.recipe.ID, ""), domain.ErrForbidden},
		{"foreign review", f.other.ID, f.upload("a.png", "", f.review.ID), domain.ErrForbidden},
		{"missing recipe", f.owner.ID, f.upload("a.png", "nope", ""), domain.ErrNotFound},
		{"unknown uploader", "ghost", f.upload("a.png", "", ""), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Upload(f.ctx, tt.userID, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(f.host.uploaded) != 0 {
		t.Errorf("host called for rejected uploads: %v", f.host.uploaded)
	}
}

func TestUpload_HostDisabled(t *testing.T) {
	f := newFixture(t)
	f.host.disabled = true

	if _, err := f.svc.Upload(f.ctx, f.owner.ID, f.upload("a.png", "", "")); !errors.Is(err, domain.ErrImageHostDisabled) {
		t.Fatalf("expected ErrImageHostDisabled, got %v", err)
	}
}

func TestUpload_RollsBackHostOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	svc := New(f.host, failingRepo{Repository: f.images, err: errors.New("disk full")}, f.users, f.recipes, f.reviews)

	if _, err := svc.Upload(f.ctx, f.owner.ID, f.upload("a.png", "", "")); err == nil {
		t.Fatal("expected error")
	}
	if !slices.Equal(f.host.destroyed, []string{"pub-a.png"}) {
		t.Errorf("destroyed = %v", f.host.destroyed)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	img, err := f.svc.Upload(f.ctx, f.owner.ID, f.upload("soup.png", f.recipe.ID, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(f.ctx, f.other.ID, img.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(f.ctx, f.owner.ID, img.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(f.host.destroyed, []string{img.PublicID}) {
		t.Errorf("destroyed = %v", f.host.destroyed)
	}
	if _, err := f.svc.Get(f.ctx, img.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	u, _ := f.users.Get(f.ctx, f.owner.ID)
	r, _ := f.recipes.Get(f.ctx, f.recipe.ID)
	if len(u.Images) != 0 || len(r.Images) != 0 {
		t.Errorf("dangling refs: user %v, recipe %v", u.Images, r.Images)
	}
}

func TestDelete_HostFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	img, _ := f.svc.Upload(f.ctx, f.owner.ID, f.upload("soup.png", "", ""))
	f.host.destroyErr = domain.ErrImageHostFailed

	if err := f.svc.Delete(f.ctx, f.owner.ID, img.ID); !errors.Is(err, domain.ErrImageHostFailed) {
		t.Fatalf("expected ErrImageHostFailed, got %v", err)
	}
	if _, err := f.svc.Get(f.ctx, img.ID); err != nil {
		t.Errorf("record removed despite host failure: %v", err)
	}
}
