package chi

import (
	"net/http"

	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
)

type tagRequest struct {
	Name string `json:"name"`
}

// ListTags handles GET /tags.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	q, err := listParams(r, listquery.BasicParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.tags.List(r.Context(), q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// CreateTag handles POST /tags.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	t, err := s.tags.Create(r.Context(), req.Name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"tag": t})
}

// GetTag handles GET /tags/{id}.
func (s *Server) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	t, err := s.tags.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"tag": t})
}
