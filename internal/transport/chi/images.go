package chi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	imageuc "github.com/kailas-cloud/recipeshare/internal/usecase/image"
)

const imageField = "image"

// UploadImage handles POST /images. The body is multipart with an image
// file and optional recipeId or reviewId fields.
func (s *Server) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.handleError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))
			return
		}
		s.handleError(w, r, domain.NewValidation("Invalid multipart body"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(imageField)
	if err != nil {
		s.handleError(w, r, domain.NewValidation("You need an image"))
		return
	}
	defer func() { _ = file.Close() }()

	img, err := s.images.Upload(r.Context(), userID, imageuc.Upload{
		Filename: header.Filename,
		Body:     file,
		RecipeID: r.FormValue("recipeId"),
		ReviewID: r.FormValue("reviewId"),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"image": img})
}

// GetImage handles GET /images/{id}.
func (s *Server) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	img, err := s.images.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"image": img})
}

// DeleteImage handles DELETE /images/{id}.
func (s *Server) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	userID, err := callerID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.images.Delete(r.Context(), userID, id); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeDestroyed(w, id)
}
