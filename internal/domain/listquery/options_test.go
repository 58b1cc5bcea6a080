package listquery

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/recipeshare/internal/domain"
)

type stubTags struct {
	byName map[string]string
	err    error
	calls  int
	names  []string
}

func (s *stubTags) IDsByName(_ context.Context, names []string) (map[string]string, error) {
	s.calls++
	s.names = names
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]string)
	for _, n := range names {
		if id, ok := s.byName[n]; ok {
			out[n] = id
		}
	}
	return out, nil
}

func TestOptions_SortOrder(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   []SortKey
	}{
		{"none", nil, nil},
		{"createdAt asc", map[string]string{ParamCreatedAt: Asc}, []SortKey{{FieldCreatedAt, false}}},
		{"createdAt desc", map[string]string{ParamCreatedAt: Desc}, []SortKey{{FieldCreatedAt, true}}},
		{
			"rating is primary",
			map[string]string{ParamCreatedAt: Asc, ParamRating: Desc},
			[]SortKey{{FieldRating, true}, {FieldCreatedAt, false}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Options(context.Background(), NewParams(tt.values), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(d.Sort, tt.want) {
				t.Errorf("Sort = %v, want %v", d.Sort, tt.want)
			}
		})
	}
}

func TestOptions_Match(t *testing.T) {
	tags := &stubTags{byName: map[string]string{"Vegan": "t1", "Quick Meals": "t2"}}
	d, err := Options(context.Background(), NewParams(map[string]string{
		ParamStars:  "4",
		ParamTags:   "vegan, quick meals",
		ParamInc:    "olive oil ,garlic",
		ParamNotInc: "NUTS",
	}), tags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stars != 4 {
		t.Errorf("Stars = %d", d.Stars)
	}
	if !slices.Equal(tags.names, []string{"Vegan", "Quick Meals"}) {
		t.Errorf("resolver saw %v", tags.names)
	}
	if !slices.Equal(d.TagIDs, []string{"t1", "t2"}) {
		t.Errorf("TagIDs = %v", d.TagIDs)
	}
	if !slices.Equal(d.Include, []string{"Olive Oil", "Garlic"}) {
		t.Errorf("Include = %v", d.Include)
	}
	if !slices.Equal(d.Exclude, []string{"Nuts"}) {
		t.Errorf("Exclude = %v", d.Exclude)
	}
	if d.Unsatisfiable {
		t.Error("unexpected Unsatisfiable")
	}

	expr, err := d.Expression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Must()) != 5 || len(expr.MustNot()) != 1 || len(expr.Should()) != 0 {
		t.Errorf("must=%d mustNot=%d should=%d", len(expr.Must()), len(expr.MustNot()), len(expr.Should()))
	}
	rating := expr.Must()[0]
	if rating.Key() != FieldRating || !rating.IsRange() || *rating.Range().GTE() != 4 || *rating.Range().LTE() != 4 {
		t.Errorf("rating condition = %+v", rating)
	}
}

func TestOptions_UnknownTagIsUnsatisfiable(t *testing.T) {
	tags := &stubTags{byName: map[string]string{"Vegan": "t1"}}
	d, err := Options(context.Background(), NewParams(map[string]string{ParamTags: "vegan,unknown"}), tags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Unsatisfiable {
		t.Error("expected Unsatisfiable")
	}
	if d.TagIDs != nil {
		t.Errorf("TagIDs = %v, want nil", d.TagIDs)
	}
}

func TestOptions_BlankItems(t *testing.T) {
	tests := []struct {
		name          string
		params        map[string]string
		unsatisfiable bool
		exclude       []string
	}{
		{"blank tag", map[string]string{ParamTags: " "}, true, nil},
		{"trailing blank tag", map[string]string{ParamTags: "vegan, "}, true, nil},
		{"blank include", map[string]string{ParamInc: " "}, true, nil},
		{"blank include item", map[string]string{ParamInc: "salt,  "}, true, nil},
		{"blank exclude", map[string]string{ParamNotInc: " "}, false, []string{}},
		{"blank exclude item", map[string]string{ParamNotInc: "salt, "}, false, []string{"Salt"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tags := &stubTags{byName: map[string]string{"Vegan": "t1"}}
			d, err := Options(context.Background(), NewParams(tc.params), tags)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Unsatisfiable != tc.unsatisfiable {
				t.Errorf("Unsatisfiable = %v, want %v", d.Unsatisfiable, tc.unsatisfiable)
			}
			if tc.exclude != nil && !slices.Equal(d.Exclude, tc.exclude) {
				t.Errorf("Exclude = %v, want %v", d.Exclude, tc.exclude)
			}
			if tags.calls != 0 {
				t.Errorf("resolver called %d times", tags.calls)
			}
		})
	}
}

func TestOptions_NoTagsSkipsResolver(t *testing.T) {
	tags := &stubTags{}
	if _, err := Options(context.Background(), NewParams(map[string]string{ParamStars: "1"}), tags); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tags.calls != 0 {
		t.Errorf("resolver called %d times", tags.calls)
	}
}

func TestOptions_ResolverError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Options(context.Background(), NewParams(map[string]string{ParamTags: "vegan"}), &stubTags{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestOptions_TagsWithoutResolver(t *testing.T) {
	_, err := Options(context.Background(), NewParams(map[string]string{ParamTags: "vegan"}), nil)
	if !errors.Is(err, domain.ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestOptions_TooManyTerms(t *testing.T) {
	items := make([]string, 0, 40)
	for i := range 40 {
		items = append(items, "item"+strings.Repeat("x", i))
	}
	_, err := Options(context.Background(), NewParams(map[string]string{ParamInc: strings.Join(items, ",")}), nil)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestDescriptor_EmptyExpression(t *testing.T) {
	expr, err := Descriptor{}.Expression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Error("expected empty expression")
	}
}
