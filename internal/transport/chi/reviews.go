package chi

import (
	"net/http"

	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domreview "github.com/kailas-cloud/recipeshare/internal/domain/review"
)

type updateReviewRequest struct {
	Rating *int    `json:"rating"`
	Body   *string `json:"body"`
}

// ListReviews handles GET /reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	q, err := listParams(r, listquery.ReviewParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.reviews.List(r.Context(), q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// GetReview handles GET /reviews/{id}.
func (s *Server) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	rev, err := s.reviews.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"review": rev})
}

// UpdateReview handles PUT /reviews/{id}.
func (s *Server) UpdateReview(w http.ResponseWriter, r *http.Request) {
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
	var req updateReviewRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	rev, err := s.reviews.Update(r.Context(), userID, id, domreview.Patch{Rating: req.Rating, Body: req.Body})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"review": rev})
}

// DeleteReview handles DELETE /reviews/{id}.
func (s *Server) DeleteReview(w http.ResponseWriter, r *http.Request) {
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
	if err := s.reviews.Delete(r.Context(), userID, id); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeDestroyed(w, id)
}

// ListReviewImages handles GET /reviews/{id}/images.
func (s *Server) ListReviewImages(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.BasicParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.reviews.ListImages(r.Context(), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}
