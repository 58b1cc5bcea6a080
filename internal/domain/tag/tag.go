package tag

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/text"
)

// Names share the list-query grammar so every tag can be filtered on.
var nameRegex = regexp.MustCompile(`^[\w\s]+$`)

// Tag labels recipes. Name is Title Case and unique.
type Tag struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// New validates and creates a tag with a Title Case name.
func New(name string) (Tag, error) {
	n := text.TitleCase(name)
	if n == "" {
		return Tag{}, domain.NewValidation("tag name is required")
	}
	if len(n) > 64 {
		return Tag{}, domain.NewValidation("tag name too long (max 64)")
	}
	if !nameRegex.MatchString(n) {
		return Tag{}, domain.NewValidation("tag name must contain only letters, digits, underscores and spaces")
	}
	return Tag{ID: uuid.NewString(), Name: n, CreatedAt: time.Now().UnixMilli()}, nil
}
