package chi

import (
	"net/http"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/listquery"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/metrics"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
	Password *string `json:"password"`
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		s.handleError(w, r, err)
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	writeData(w, http.StatusOK, map[string]any{"token": token})
}

// RegisterUser handles POST /users.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	u, err := s.users.Register(r.Context(), domuser.Registration{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	token, err := s.auth.Issue(u.ID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"user": u, "token": token})
}

// GetMe handles GET /users/me.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeUser(w, r, id)
}

// GetUser handles GET /users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeUser(w, r, id)
}

func (s *Server) writeUser(w http.ResponseWriter, r *http.Request, id string) {
	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": u})
}

// UpdateUser handles PUT /users.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req updateUserRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	u, err := s.users.Update(r.Context(), id, domuser.Patch{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": u})
}

// DeleteUser handles DELETE /users.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeDestroyed(w, id)
}

// ListUserRecipes handles GET /users/{id}/recipes.
func (s *Server) ListUserRecipes(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.RecipeParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.users.ListRecipes(r.Context(), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// ListUserReviews handles GET /users/{id}/reviews.
func (s *Server) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.ReviewParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.users.ListReviews(r.Context(), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// ListUserCollections handles GET /users/{id}/collections.
func (s *Server) ListUserCollections(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.BasicParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.users.ListCollections(r.Context(), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// ListUserImages handles GET /users/{id}/images.
func (s *Server) ListUserImages(w http.ResponseWriter, r *http.Request) {
	id, q, err := nestedParams(r, listquery.BasicParams)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	page, err := s.users.ListImages(r.Context(), id, q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, page)
}

// CreateUserRecipe handles POST /users/{id}/recipes.
func (s *Server) CreateUserRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.requireSelf(r); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.CreateRecipe(w, r)
}

// CreateUserCollection handles POST /users/{id}/collections.
func (s *Server) CreateUserCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.requireSelf(r); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.CreateCollection(w, r)
}

// requireSelf checks that {id} names the caller.
func (s *Server) requireSelf(r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	caller, err := callerID(r)
	if err != nil {
		return err
	}
	if id != caller {
		return domain.ErrForbidden
	}
	return nil
}

// nestedParams binds {id} and the list query of a nested list endpoint.
func nestedParams(r *http.Request, allowed []string) (string, listquery.Params, error) {
	id, err := pathID(r)
	if err != nil {
		return "", listquery.Params{}, err
	}
	q, err := listParams(r, allowed)
	if err != nil {
		return "", listquery.Params{}, err
	}
	return id, q, nil
}
