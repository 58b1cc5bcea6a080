package redis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/domain/filter"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestKeyLayout(t *testing.T) {
	s := &Store{prefix: "rs:"}
	if got := s.docKey("recipes", "r1"); got != "rs:recipes:r1" {
		t.Errorf("docKey = %q", got)
	}
	if got := s.indexName("recipes"); got != "rs:recipes:idx" {
		t.Errorf("indexName = %q", got)
	}
	if got := keyPrefixOrDefault(""); got != DefaultKeyPrefix {
		t.Errorf("keyPrefixOrDefault(\"\") = %q", got)
	}
}

// --- document.go tests ---

func TestInsert_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET" &&
				cmd[1] == "recipeshare:recipes:r1" &&
				cmd[2] == "$" &&
				strings.Contains(cmd[3], `"_id":"r1"`) &&
				cmd[4] == "NX"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	err := s.Insert(context.Background(), "recipes", db.Document{"_id": "r1", "name": "Soup"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsert_Exists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET"
		})).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	err := s.Insert(context.Background(), "recipes", db.Document{"_id": "r1"})
	if !errors.Is(err, db.ErrKeyExists) {
		t.Fatalf("expected ErrKeyExists, got %v", err)
	}
}

func TestInsert_MissingID(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if err := s.Insert(context.Background(), "recipes", db.Document{"name": "x"}); err == nil {
		t.Fatal("expected error for missing _id")
	}
}

func TestInsert_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Insert(context.Background(), "recipes", db.Document{"_id": "r1"})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "recipeshare:tags:t1")).
		Return(mock.Result(mock.RedisString(`{"_id":"t1","name":"Vegan","createdAt":1700000000000}`)))

	s := NewStoreForTest(c)
	doc, err := s.Get(context.Background(), "tags", "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["name"] != "Vegan" {
		t.Errorf("name = %v", doc["name"])
	}
	if doc["createdAt"] != float64(1700000000000) {
		t.Errorf("createdAt = %v (%T)", doc["createdAt"], doc["createdAt"])
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "recipeshare:tags:missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "tags", "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestReplace_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET" && cmd[1] == "recipeshare:notes:n1" && cmd[4] == "XX"
		})).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	err := s.Replace(context.Background(), "notes", "n1", db.Document{"body": "salt"})
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestReplace_KeepsID(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET" && strings.Contains(cmd[3], `"_id":"n1"`)
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Replace(context.Background(), "notes", "n1", db.Document{"body": "salt"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		reply   int64
		wantErr error
	}{
		{"deleted", 1, nil},
		{"missing", 0, db.ErrKeyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("DEL", "recipeshare:reviews:v1")).
				Return(mock.Result(mock.RedisInt64(tt.reply)))

			s := NewStoreForTest(c)
			err := s.Delete(context.Background(), "reviews", "v1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeDocument_Array(t *testing.T) {
	doc, err := decodeDocument(`[{"_id":"a"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["_id"] != "a" {
		t.Errorf("_id = %v", doc["_id"])
	}

	if _, err := decodeDocument(`[]`); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("empty array: err = %v", err)
	}
	if _, err := decodeDocument(`{bad`); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

// --- index.go tests ---

func TestCreateIndex_Args(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := []string{
		"FT.CREATE", "recipeshare:recipes:idx",
		"ON", "JSON", "PREFIX", "1", "recipeshare:recipes:",
		"SCHEMA",
		"$._id", "AS", "id", "TAG",
		"$.tags[*]", "AS", "tags", "TAG",
		"$.rating", "AS", "rating", "NUMERIC", "SORTABLE",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	def := db.NewIndex("recipes").
		Tag("_id").
		TagList("tags").
		Numeric("rating").Sortable().
		MustBuild()
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), db.NewIndex("tags").Tag("name").MustBuild())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), &db.IndexDefinition{Collection: "x"}); err == nil {
		t.Fatal("expected error for index without fields")
	}
}

func TestBuildFieldArgs_TagOptions(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{
		Name:             "name",
		Type:             db.IndexFieldTag,
		TagSeparator:     "|",
		TagCaseSensitive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.Join(args, " ")
	if got != "$.name AS name TAG SEPARATOR | CASESENSITIVE" {
		t.Errorf("args = %q", got)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name   string
		result rueidis.RedisResult
		want   bool
	}{
		{"present", mock.Result(mock.RedisArray()), true},
		{"unknown", mock.Result(mock.RedisError("Unknown Index name")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "recipeshare:users:idx")).
				Return(tt.result)

			s := NewStoreForTest(c)
			got, err := s.IndexExists(context.Background(), "users")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("exists = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- find.go tests ---

func TestFind_SortedAggregate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := []string{
		"FT.AGGREGATE", "recipeshare:recipes:idx",
		"@rating:[5 5]",
		"LOAD", "1", "$",
		"SORTBY", "4", "@rating", "DESC", "@createdAt", "ASC", "MAX", "10001",
		"LIMIT", "0", "10001",
		"DIALECT", "2",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisArray(
				mock.RedisString("rating"), mock.RedisString("5"),
				mock.RedisString("$"), mock.RedisString(`{"_id":"r2","rating":5}`),
			),
			mock.RedisArray(
				mock.RedisString("$"), mock.RedisString(`{"_id":"r1","rating":5}`),
			),
		)))

	stars, _ := filter.NewEquals("rating", 5)
	expr, _ := filter.NewExpression([]filter.Condition{stars}, nil, nil)

	s := NewStoreForTest(c)
	docs, err := s.Find(context.Background(), &db.FindQuery{
		Collection: "recipes",
		Filter:     expr,
		Sort: []db.SortKey{
			{Field: "rating", Descending: true},
			{Field: "createdAt"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if docs[0]["_id"] != "r2" || docs[1]["_id"] != "r1" {
		t.Errorf("order = %v, %v", docs[0]["_id"], docs[1]["_id"])
	}
}

func TestFind_NoSortNoFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.AGGREGATE", "recipeshare:tags:idx", "*", "LOAD", "1", "$",
			"LIMIT", "0", "5", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	docs, err := s.Find(context.Background(), &db.FindQuery{Collection: "tags", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("docs = %d, want 0", len(docs))
	}
}

func TestFind_TooManyResults(t *testing.T) {
	row := func(id string) rueidis.RedisMessage {
		return mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"_id":"`+id+`"}`))
	}

	tests := []struct {
		name    string
		rows    []rueidis.RedisMessage
		wantErr bool
	}{
		{"at the cap", []rueidis.RedisMessage{mock.RedisInt64(2), row("a"), row("b")}, false},
		{"over the cap", []rueidis.RedisMessage{mock.RedisInt64(3), row("a"), row("b"), row("c")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().
				Do(gomock.Any(), mock.Match(
					"FT.AGGREGATE", "recipeshare:recipes:idx", "*", "LOAD", "1", "$",
					"LIMIT", "0", "3", "DIALECT", "2",
				)).
				Return(mock.Result(mock.RedisArray(tt.rows...)))

			s := NewStoreForTest(c)
			s.maxResults = 2
			docs, err := s.Find(context.Background(), &db.FindQuery{Collection: "recipes"})
			if tt.wantErr {
				if !errors.Is(err, db.ErrTooManyResults) || !isDBError(err) {
					t.Fatalf("expected db.Error wrapping ErrTooManyResults, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(docs) != 2 {
				t.Errorf("docs = %d, want 2", len(docs))
			}
		})
	}
}

func TestFind_EmptyIDsSkipsQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	docs, err := s.Find(context.Background(), &db.FindQuery{Collection: "recipes", IDs: []string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("docs = %v, want empty non-nil", docs)
	}
}

func TestFind_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	_, err := s.Find(context.Background(), &db.FindQuery{Collection: "recipes"})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestFind_RequiresCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if _, err := s.Find(context.Background(), &db.FindQuery{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildQuery(t *testing.T) {
	tagA, _ := filter.NewMatch("tags", "t-1")
	incX, _ := filter.NewMatch("ingredients", "Olive Oil")
	excZ, _ := filter.NewMatch("ingredients", "Nuts")
	expr, _ := filter.NewExpression([]filter.Condition{tagA, incX}, nil, []filter.Condition{excZ})

	got := buildQuery(&db.FindQuery{
		IDs:    []string{"a-1", "b"},
		Filter: expr,
	})
	want := `@id:{a\-1 | b} @tags:{t\-1} @ingredients:{Olive\ Oil} -@ingredients:{Nuts}`
	if got != want {
		t.Errorf("buildQuery =\n %q\nwant\n %q", got, want)
	}
}

func TestBuildFilter_ShouldGroup(t *testing.T) {
	a, _ := filter.NewMatch("name", "Vegan")
	b, _ := filter.NewMatch("name", "Quick Meals")
	expr, _ := filter.NewExpression(nil, []filter.Condition{a, b}, nil)

	got := buildFilter(expr)
	want := `(@name:{Vegan} | @name:{Quick\ Meals})`
	if got != want {
		t.Errorf("buildFilter = %q, want %q", got, want)
	}
}

func TestBuildNumericFilter(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		r    filter.Range
		want string
	}{
		{"exact", mustRange(nil, f(3), nil, f(3)), "@rating:[3 3]"},
		{"open low", mustRange(f(1), nil, nil, nil), "@rating:[(1 +inf]"},
		{"open high", mustRange(nil, nil, f(4), nil), "@rating:[-inf (4]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildNumericFilter("rating", tt.r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTagEscaper_Injection(t *testing.T) {
	got := tagEscaper.Replace("x} | @isPrivate:{true")
	want := `x\}\ \|\ \@isPrivate\:\{true`
	if got != want {
		t.Errorf("escaped = %q, want %q", got, want)
	}
}

func TestIsRedisErr(t *testing.T) {
	err := mock.Result(mock.RedisError("Index Already Exists")).Error()
	if !isRedisErr(err, "index already exists") {
		t.Error("expected case-insensitive match")
	}
	if isRedisErr(errors.New("index already exists"), "index already exists") {
		t.Error("plain errors are not redis errors")
	}
}

// --- helpers ---

func mustRange(gt, gte, lt, lte *float64) filter.Range {
	r, err := filter.NewRangeFilter(gt, gte, lt, lte)
	if err != nil {
		panic(err)
	}
	return r
}

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
