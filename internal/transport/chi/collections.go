package chi

import (
	"net/http"

	"github.com/kailas-cloud/recipeshare/internal/domain/collection"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
)

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

type updateCollectionRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	IsPrivate    *bool   `json:"isPrivate"`
	AddRecipe    string  `json:"addRecipe"`
	RemoveRecipe string  `json:"removeRecipe"`
}

// ListCollections handles GET /collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	q, err := listParams(r, listquery.BasicParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.collections.List(r.Context(), q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// CreateCollection handles POST /collections.
func (s *Server) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req collectionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	c, err := s.collections.Create(r.Context(), userID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"collection": c})
}

// GetCollection handles GET /collections/{id}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	c, err := s.collections.Get(r.Context(), viewerID(r.Context()), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"collection": c})
}

// UpdateCollection handles PUT /collections/{id}.
func (s *Server) UpdateCollection(w http.ResponseWriter, r *http.Request) {
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
	var req updateCollectionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	c, err := s.collections.Update(r.Context(), userID, id, collection.Patch{
		Name:         req.Name,
		Description:  req.Description,
		IsPrivate:    req.IsPrivate,
		AddRecipe:    req.AddRecipe,
		RemoveRecipe: req.RemoveRecipe,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"collection": c})
}

// DeleteCollection handles DELETE /collections/{id}.
func (s *Server) DeleteCollection(w http.ResponseWriter, r *http.Request) {
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
	if err := s.collections.Delete(r.Context(), userID, id); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeDestroyed(w, id)
}

// ListCollectionRecipes handles GET /collections/{id}/recipes.
func (s *Server) ListCollectionRecipes(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.RecipeParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.collections.ListRecipes(r.Context(), viewerID(r.Context()), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}
