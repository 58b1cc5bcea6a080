package image

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipeshare/internal/domain"
)

// Image is an uploaded picture hosted by the image host. It belongs to a
// user and optionally to one recipe or review.
type Image struct {
	ID        string `json:"_id"`
	UserID    string `json:"userId"`
	RecipeID  string `json:"recipeId,omitempty"`
	ReviewID  string `json:"reviewId,omitempty"`
	URL       string `json:"url"`
	PublicID  string `json:"publicId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	CreatedAt int64  `json:"createdAt"`
}

// Hosted is what the image host returns for a stored upload.
type Hosted struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Format   string
}

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// ValidateFilename accepts jpg, jpeg and png uploads.
func ValidateFilename(name string) error {
	if !allowedExt[strings.ToLower(filepath.Ext(name))] {
		return domain.NewValidation("only jpg, jpeg and png images are allowed")
	}
	return nil
}

// ValidateOwner checks that at most one of recipeID and reviewID is set.
func ValidateOwner(recipeID, reviewID string) error {
	if recipeID != "" && reviewID != "" {
		return domain.NewValidation("an image belongs to a recipe or a review, not both")
	}
	return nil
}

// New creates an image record for a hosted upload.
func New(userID, recipeID, reviewID string, h Hosted) Image {
	return Image{
		ID:        uuid.NewString(),
		UserID:    userID,
		RecipeID:  recipeID,
		ReviewID:  reviewID,
		URL:       h.URL,
		PublicID:  h.PublicID,
		Width:     h.Width,
		Height:    h.Height,
		Format:    h.Format,
		CreatedAt: time.Now().UnixMilli(),
	}
}
