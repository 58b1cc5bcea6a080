package chi

import (
	"encoding/json"
	"net/http"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
)

type recipeRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
	PrepTime     int      `json:"prepTime"`
	CookTime     int      `json:"cookTime"`
	Servings     int      `json:"servings"`
}

type updateRecipeRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
	Tags         *[]string `json:"tags"`
	PrepTime     *int      `json:"prepTime"`
	CookTime     *int      `json:"cookTime"`
	Servings     *int      `json:"servings"`

	// Server-managed fields. Sending any of them is an error.
	Images  json.RawMessage `json:"images"`
	Reviews json.RawMessage `json:"reviews"`
	Rating  json.RawMessage `json:"rating"`
	UserID  json.RawMessage `json:"userId"`
}

func (req updateRecipeRequest) readOnly() string {
	switch {
	case req.Images != nil:
		return "images"
	case req.Reviews != nil:
		return "reviews"
	case req.Rating != nil:
		return "rating"
	case req.UserID != nil:
		return "userId"
	}
	return ""
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

// ListRecipes handles GET /recipes.
func (s *Server) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q, err := listParams(r, listquery.RecipeParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.recipes.List(r.Context(), q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// CreateRecipe handles POST /recipes.
func (s *Server) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req recipeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	rec, err := s.recipes.Create(r.Context(), userID, domrecipe.Draft{
		Name:         req.Name,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         req.Tags,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"recipe": rec})
}

// GetRecipe handles GET /recipes/{id}.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	rec, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"recipe": rec})
}

// UpdateRecipe handles PUT /recipes/{id}.
func (s *Server) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
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
	var req updateRecipeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if field := req.readOnly(); field != "" {
		s.handleError(w, r, domain.NewValidation("%s cannot be updated", field))
		return
	}

	rec, err := s.recipes.Update(r.Context(), userID, id, domrecipe.Patch{
		Name:         req.Name,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         req.Tags,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"recipe": rec})
}

// DeleteRecipe handles DELETE /recipes/{id}.
func (s *Server) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
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
	if err := s.recipes.Delete(r.Context(), userID, id); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeDestroyed(w, id)
}

// ListRecipeReviews handles GET /recipes/{id}/reviews.
func (s *Server) ListRecipeReviews(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.ReviewParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.recipes.ListReviews(r.Context(), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// CreateRecipeReview handles POST /recipes/{id}/reviews.
func (s *Server) CreateRecipeReview(w http.ResponseWriter, r *http.Request) {
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
	var req reviewRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	rev, err := s.reviews.Create(r.Context(), userID, id, req.Rating, req.Body)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"review": rev})
}

// ListRecipeImages handles GET /recipes/{id}/images.
func (s *Server) ListRecipeImages(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.BasicParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.recipes.ListImages(r.Context(), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}
