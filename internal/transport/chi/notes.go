package chi

import (
	"context"
	"net/http"

	domnote "github.com/kailas-cloud/recipeshare/internal/domain/note"
)

type noteRequest struct {
	Body string `json:"body"`
}

// notesTarget binds the recipe id and the caller of a notes request.
func notesTarget(r *http.Request) (userID, recipeID string, err error) {
	recipeID, err = pathID(r)
	if err != nil {
		return "", "", err
	}
	userID, err = callerID(r)
	if err != nil {
		return "", "", err
	}
	return userID, recipeID, nil
}

// GetNote handles GET /recipes/{id}/notes.
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, err := notesTarget(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	n, err := s.notes.Get(r.Context(), userID, recipeID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"notes": n})
}

// CreateNote handles POST /recipes/{id}/notes.
func (s *Server) CreateNote(w http.ResponseWriter, r *http.Request) {
	s.writeNote(w, r, http.StatusCreated, s.notes.Create)
}

// UpdateNote handles PUT /recipes/{id}/notes.
func (s *Server) UpdateNote(w http.ResponseWriter, r *http.Request) {
	s.writeNote(w, r, http.StatusOK, s.notes.Update)
}

func (s *Server) writeNote(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	op func(ctx context.Context, userID, recipeID, body string) (domnote.Note, error),
) {
	userID, recipeID, err := notesTarget(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req noteRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	n, err := op(r.Context(), userID, recipeID, req.Body)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, status, map[string]any{"notes": n})
}

// DeleteNote handles DELETE /recipes/{id}/notes.
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, err := notesTarget(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	id, err := s.notes.Delete(r.Context(), userID, recipeID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeDestroyed(w, id)
}
