// Package listquery turns list-endpoint query strings into a normalized
// query descriptor and slices results into pages.
package listquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/recipeshare/internal/domain"
)

// Query parameters understood by list endpoints.
const (
	ParamTags      = "tags"
	ParamInc       = "inc"
	ParamNotInc    = "notInc"
	ParamCreatedAt = "createdAt"
	ParamRating    = "rating"
	ParamStars     = "stars"
	ParamLimit     = "limit"
	ParamOffset    = "offset"
)

// Allow-lists per endpoint family.
var (
	RecipeParams = []string{
		ParamTags, ParamInc, ParamNotInc,
		ParamCreatedAt, ParamRating, ParamStars,
		ParamLimit, ParamOffset,
	}
	ReviewParams = []string{ParamCreatedAt, ParamRating, ParamStars, ParamLimit, ParamOffset}
	BasicParams  = []string{ParamCreatedAt, ParamLimit, ParamOffset}
)

// Pagination defaults.
const (
	DefaultOffset = 0
	DefaultLimit  = 20
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

var (
	listItemRegex = regexp.MustCompile(`^[\w\s]+$`)
	starsRegex    = regexp.MustCompile(`^[1-5]$`)
	digitsRegex   = regexp.MustCompile(`^[0-9]+$`)
)

// grammar holds the value check per known parameter.
var grammar = map[string]func(string) bool{
	ParamTags:      isList,
	ParamInc:       isList,
	ParamNotInc:    isList,
	ParamCreatedAt: isDirection,
	ParamRating:    isDirection,
	ParamStars:     starsRegex.MatchString,
	ParamLimit:     isCount,
	ParamOffset:    isCount,
}

// Params is a validated, allow-listed subset of a query string.
type Params struct {
	values map[string]string
}

// Validate keeps the keys of raw that are in allowed and checks each kept value
// against its grammar. Keys outside allowed are dropped unchecked. A single bad
// value fails the whole call with an error wrapping domain.ErrInvalidQuery.
func Validate(raw map[string]string, allowed []string) (Params, error) {
	values := make(map[string]string, len(allowed))
	for _, key := range allowed {
		v, ok := raw[key]
		if !ok {
			continue
		}
		check, known := grammar[key]
		if !known {
			return Params{}, fmt.Errorf("parameter %q has no grammar: %w", key, domain.ErrMisconfigured)
		}
		if !check(v) {
			return Params{}, fmt.Errorf("parameter %q: %w", key, domain.ErrInvalidQuery)
		}
		values[key] = v
	}
	return Params{values: values}, nil
}

// FromValues validates a URL query. An allow-listed key given more than once
// is invalid.
func FromValues(q url.Values, allowed []string) (Params, error) {
	raw := make(map[string]string, len(allowed))
	for _, key := range allowed {
		vs, ok := q[key]
		if !ok {
			continue
		}
		if len(vs) != 1 {
			return Params{}, fmt.Errorf("parameter %q repeated: %w", key, domain.ErrInvalidQuery)
		}
		raw[key] = vs[0]
	}
	return Validate(raw, allowed)
}

// NewParams builds Params from already validated values. Intended for callers
// that compose queries in code.
func NewParams(values map[string]string) Params {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Params{values: cp}
}

// Get returns the value of key and whether it was supplied.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key was supplied.
func (p Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Len returns the number of supplied parameters.
func (p Params) Len() int { return len(p.values) }

// Map returns a copy of the supplied parameters.
func (p Params) Map() map[string]string {
	cp := make(map[string]string, len(p.values))
	for k, v := range p.values {
		cp[k] = v
	}
	return cp
}

// Window returns the pagination bounds. paginate is false when neither offset
// nor limit was supplied; otherwise the missing bound takes its default.
func (p Params) Window(defaultLimit int) (offset, limit int, paginate bool) {
	o, hasOffset := p.values[ParamOffset]
	l, hasLimit := p.values[ParamLimit]
	if !hasOffset && !hasLimit {
		return 0, 0, false
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	offset, limit = DefaultOffset, defaultLimit
	if hasOffset {
		offset, _ = strconv.Atoi(o)
	}
	if hasLimit {
		limit, _ = strconv.Atoi(l)
	}
	return offset, limit, true
}

func isList(v string) bool {
	if v == "" {
		return false
	}
	for _, item := range strings.Split(v, ",") {
		if !listItemRegex.MatchString(item) {
			return false
		}
	}
	return true
}

func isDirection(v string) bool {
	return v == Asc || v == Desc
}

func isCount(v string) bool {
	if !digitsRegex.MatchString(v) {
		return false
	}
	_, err := strconv.Atoi(v)
	return err == nil
}
