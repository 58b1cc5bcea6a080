package listquery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/filter"
	"github.com/kailas-cloud/recipeshare/internal/domain/text"
)

// Document fields a descriptor can sort or match on.
const (
	FieldCreatedAt   = "createdAt"
	FieldRating      = "rating"
	FieldTags        = "tags"
	FieldIngredients = "ingredients"
)

// SortKey orders results by one field.
type SortKey struct {
	Field      string
	Descending bool
}

// TagResolver maps Title Case tag names to tag ids. Names without a tag are
// absent from the result.
type TagResolver interface {
	IDsByName(ctx context.Context, names []string) (map[string]string, error)
}

// Descriptor is the normalized query built from Params: a sort list and the
// match conditions. Unsatisfiable is set when a requested tag does not exist
// or a required item is blank.
type Descriptor struct {
	Sort          []SortKey
	Stars         int
	TagIDs        []string
	Include       []string
	Exclude       []string
	Unsatisfiable bool
}

// Options builds the descriptor for p. Sort puts rating before createdAt.
// Tag names are resolved through tags only when the tags parameter is present.
func Options(ctx context.Context, p Params, tags TagResolver) (Descriptor, error) {
	var d Descriptor

	if dir, ok := p.Get(ParamRating); ok {
		d.Sort = append(d.Sort, SortKey{Field: FieldRating, Descending: dir == Desc})
	}
	if dir, ok := p.Get(ParamCreatedAt); ok {
		d.Sort = append(d.Sort, SortKey{Field: FieldCreatedAt, Descending: dir == Desc})
	}

	if stars, ok := p.Get(ParamStars); ok {
		d.Stars, _ = strconv.Atoi(stars)
	}

	// A blank required item matches nothing; a blank excluded item excludes nothing.
	if v, ok := p.Get(ParamInc); ok {
		d.Include = text.TitleTokens(v)
		d.Unsatisfiable = d.Unsatisfiable || hasBlankItem(v)
	}
	if v, ok := p.Get(ParamNotInc); ok {
		d.Exclude = text.TitleTokens(v)
	}

	if v, ok := p.Get(ParamTags); ok {
		names := text.TitleTokens(v)
		if hasBlankItem(v) {
			d.Unsatisfiable = true
		} else if len(names) > 0 {
			ids, err := resolveTags(ctx, tags, names)
			if err != nil {
				return Descriptor{}, err
			}
			if ids == nil {
				d.Unsatisfiable = true
			}
			d.TagIDs = ids
		}
	}

	must := len(d.TagIDs) + len(d.Include)
	if d.Stars > 0 {
		must++
	}
	if must > filter.MaxConditionsPerGroup || len(d.Exclude) > filter.MaxConditionsPerGroup {
		return Descriptor{}, fmt.Errorf("too many match terms (max %d): %w", filter.MaxConditionsPerGroup, domain.ErrInvalidQuery)
	}

	return d, nil
}

func hasBlankItem(csv string) bool {
	for _, item := range strings.Split(csv, ",") {
		if strings.TrimSpace(item) == "" {
			return true
		}
	}
	return false
}

// resolveTags returns the ids for names in order, or nil when any name is unknown.
func resolveTags(ctx context.Context, tags TagResolver, names []string) ([]string, error) {
	if tags == nil {
		return nil, fmt.Errorf("tag resolver is required: %w", domain.ErrMisconfigured)
	}
	byName, err := tags.IDsByName(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, nil
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Expression converts the match part of the descriptor into a filter:
// rating equality, every tag id, every included ingredient, and no excluded one.
func (d Descriptor) Expression() (filter.Expression, error) {
	var must, mustNot []filter.Condition

	if d.Stars > 0 {
		c, err := filter.NewEquals(FieldRating, float64(d.Stars))
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}
	for _, id := range d.TagIDs {
		c, err := filter.NewMatch(FieldTags, id)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}
	for _, in := range d.Include {
		c, err := filter.NewMatch(FieldIngredients, in)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}
	for _, ex := range d.Exclude {
		c, err := filter.NewMatch(FieldIngredients, ex)
		if err != nil {
			return filter.Expression{}, err
		}
		mustNot = append(mustNot, c)
	}

	expr, err := filter.NewExpression(must, nil, mustNot)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return expr, nil
}
