package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// dataResponse is the success envelope.
type dataResponse struct {
	Data any `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeData(w http.ResponseWriter, status int, data map[string]any) {
	writeJSON(w, status, dataResponse{Data: data})
}

// writePage flattens a list envelope: the items are keyed by the page's result key.
func writePage[T any](w http.ResponseWriter, p listquery.Page[T]) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	writeData(w, http.StatusOK, map[string]any{
		"length":      p.Length,
		"groupLength": p.GroupLength,
		p.ResultKey:   items,
	})
}

func writeDestroyed(w http.ResponseWriter, id string) {
	writeData(w, http.StatusOK, map[string]any{"destroyed": id})
}

// decode reads a JSON body of at most s.maxBody bytes.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return domain.NewValidation("Invalid request body: %s", err.Error())
	}
	return nil
}
