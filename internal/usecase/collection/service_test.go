package collection

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain"
	domcol "github.com/kailas-cloud/recipeshare/internal/domain/collection"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
)

// --- Mocks ---

type mockRepo struct {
	cols      map[string]domcol.Collection
	createErr error
	deleted   []string
}

func newMockRepo(cols ...domcol.Collection) *mockRepo {
	m := &mockRepo{cols: make(map[string]domcol.Collection)}
	for _, c := range cols {
		m.cols[c.ID] = c
	}
	return m
}

func (m *mockRepo) Create(_ context.Context, c domcol.Collection) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.cols[c.ID] = c
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domcol.Collection, error) {
	c, ok := m.cols[id]
	if !ok {
		return domcol.Collection{}, domain.NewNotFound("collection")
	}
	return c, nil
}

func (m *mockRepo) Save(_ context.Context, id string, c domcol.Collection) error {
	m.cols[id] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.cols[id]; !ok {
		return domain.NewNotFound("collection")
	}
	delete(m.cols, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockUsers struct {
	users   map[string]domuser.User
	saveErr error
}

func (m *mockUsers) Get(_ context.Context, id string) (domuser.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domuser.User{}, domain.NewNotFound("user")
	}
	return u, nil
}

func (m *mockUsers) Save(_ context.Context, id string, u domuser.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.users[id] = u
	return nil
}

type mockRecipes map[string]bool

func (m mockRecipes) Get(_ context.Context, id string) (domrecipe.Recipe, error) {
	if !m[id] {
		return domrecipe.Recipe{}, domain.NewNotFound("recipe")
	}
	return domrecipe.Recipe{ID: id}, nil
}

type mockLister struct {
	reqs []listing.Request
	docs []db.Document
}

func (m *mockLister) Find(_ context.Context, req listing.Request) (listquery.Page[db.Document], error) {
	m.reqs = append(m.reqs, req)
	docs := m.docs
	if req.Filter != nil {
		docs = slices.DeleteFunc(slices.Clone(docs), func(d db.Document) bool { return !req.Filter(d) })
	}
	return listquery.NewPage("collections", docs), nil
}

type stubHandle struct{ listing.Handle }

func (stubHandle) Name() string { return document.Collections }

type fixture struct {
	repo   *mockRepo
	users  *mockUsers
	lister *mockLister
	svc    *Service
}

func newFixture(cols ...domcol.Collection) *fixture {
	f := &fixture{
		repo:   newMockRepo(cols...),
		users:  &mockUsers{users: map[string]domuser.User{"u1": {ID: "u1"}, "u2": {ID: "u2"}}},
		lister: &mockLister{},
	}
	f.svc = New(f.repo, f.users, mockRecipes{"r1": true, "r2": true}, f.lister, stubHandle{})
	return f
}

func makeCollection(t *testing.T, userID string, private bool) domcol.Collection {
	t.Helper()
	c, err := domcol.New(userID, "Favourites", "", private)
	if err != nil {
		t.Fatalf("domcol.New: %v", err)
	}
	return c
}

func ptr[T any](v T) *T { return &v }

// --- Tests ---

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	c, err := f.svc.Create(context.Background(), "u1", "Weeknight", "<i>fast</i>", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.UserID != "u1" || !c.IsPrivate || c.Description != "fast" {
		t.Errorf("collection = %+v", c)
	}
	if !slices.Equal(f.users.users["u1"].Collections, []string{c.ID}) {
		t.Errorf("owner collections = %v", f.users.users["u1"].Collections)
	}
}

func TestCreate_EmptyName(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), "u1", "  ", "", false); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreate_UnknownOwner(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), "ghost", "x", "", false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(f.repo.cols) != 0 {
		t.Error("collection stored for unknown owner")
	}
}

func TestCreate_RollsBack(t *testing.T) {
	f := newFixture()
	f.users.saveErr = errors.New("write failed")

	if _, err := f.svc.Create(context.Background(), "u1", "x", "", false); err == nil {
		t.Fatal("expected error")
	}
	if len(f.repo.cols) != 0 || len(f.repo.deleted) != 1 {
		t.Errorf("rollback did not delete: cols=%d deleted=%v", len(f.repo.cols), f.repo.deleted)
	}
}

func TestGet_Visibility(t *testing.T) {
	private := makeCollection(t, "u1", true)
	public := makeCollection(t, "u1", false)
	f := newFixture(private, public)
	ctx := context.Background()

	tests := []struct {
		name   string
		viewer string
		id     string
		want   error
	}{
		{"public anonymous", "", public.ID, nil},
		{"private owner", "u1", private.ID, nil},
		{"private anonymous", "", private.ID, domain.ErrUnauthorized},
		{"private other user", "u2", private.ID, domain.ErrUnauthorized},
		{"missing", "u1", "nope", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Get(ctx, tt.viewer, tt.id)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	c := makeCollection(t, "u1", false)
	f := newFixture(c)
	ctx := context.Background()

	if _, err := f.svc.Update(ctx, "u2", c.ID, domcol.Patch{Name: ptr("x")}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Update(ctx, "u1", c.ID, domcol.Patch{AddRecipe: "zzz"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown recipe: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Update(ctx, "u1", c.ID, domcol.Patch{Name: ptr("")}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty name: expected ErrInvalidInput, got %v", err)
	}

	got, err := f.svc.Update(ctx, "u1", c.ID, domcol.Patch{AddRecipe: "r1", IsPrivate: ptr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsPrivate || !slices.Equal(f.repo.cols[c.ID].Recipes, []string{"r1"}) {
		t.Errorf("stored = %+v", f.repo.cols[c.ID])
	}

	_, err = f.svc.Update(ctx, "u1", c.ID, domcol.Patch{AddRecipe: "r1"})
	if !errors.Is(err, domain.ErrInvalidInput) || err.Error() != "Recipe already in collection" {
		t.Errorf("duplicate add: got %v", err)
	}
	_, err = f.svc.Update(ctx, "u1", c.ID, domcol.Patch{RemoveRecipe: "r2"})
	if !errors.Is(err, domain.ErrInvalidInput) || err.Error() != "Recipe not in collection" {
		t.Errorf("absent remove: got %v", err)
	}
}

func TestDelete(t *testing.T) {
	c := makeCollection(t, "u1", false)
	f := newFixture(c)
	f.users.users["u1"] = domuser.User{ID: "u1", Collections: []string{c.ID, "other"}}
	ctx := context.Background()

	if err := f.svc.Delete(ctx, "u2", c.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(ctx, "u1", c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.repo.cols[c.ID]; ok {
		t.Error("collection still stored")
	}
	if !slices.Equal(f.users.users["u1"].Collections, []string{"other"}) {
		t.Errorf("owner collections = %v", f.users.users["u1"].Collections)
	}
}

func TestList_PublicOnly(t *testing.T) {
	f := newFixture()
	f.lister.docs = []db.Document{
		{"_id": "c1", "isPrivate": false},
		{"_id": "c2", "isPrivate": true},
		{"_id": "c3"},
	}

	page, err := f.svc.List(context.Background(), listquery.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, 0, len(page.Items))
	for _, c := range page.Items {
		got = append(got, c.ID)
	}
	if !slices.Equal(got, []string{"c1", "c3"}) {
		t.Errorf("ids = %v", got)
	}
	if f.lister.reqs[0].ID != "" || f.lister.reqs[0].Path != "" {
		t.Errorf("flat list sent nested request: %+v", f.lister.reqs[0])
	}
}

func TestListRecipes_ChecksVisibility(t *testing.T) {
	private := makeCollection(t, "u1", true)
	f := newFixture(private)
	ctx := context.Background()

	if _, err := f.svc.ListRecipes(ctx, "u2", private.ID, listquery.Params{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(f.lister.reqs) != 0 {
		t.Fatal("lister called for hidden collection")
	}

	if _, err := f.svc.ListRecipes(ctx, "u1", private.ID, listquery.Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := f.lister.reqs[0]
	if req.ID != private.ID || req.Path != document.Recipes {
		t.Errorf("request = %+v", req)
	}
}
