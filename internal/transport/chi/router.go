package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/recipeshare/internal/metrics"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// Handler builds the HTTP handler: middleware, /health, /metrics and the
// versioned API routes. limiter throttles POST /auth/login.
func (s *Server) Handler(limiter *LoginLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "Method Not Allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		requireAuth := RequireAuth(s.auth)
		optionalAuth := OptionalAuth(s.auth)

		login := http.Handler(http.HandlerFunc(s.Login))
		if limiter != nil {
			login = limiter.Middleware(login)
		}
		r.Method(http.MethodPost, "/auth/login", login)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.RegisterUser)
			r.Get("/{id}", s.GetUser)
			r.Get("/{id}/recipes", s.ListUserRecipes)
			r.Get("/{id}/reviews", s.ListUserReviews)
			r.Get("/{id}/collections", s.ListUserCollections)
			r.Get("/{id}/images", s.ListUserImages)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", s.GetMe)
				r.Put("/", s.UpdateUser)
				r.Delete("/", s.DeleteUser)
				r.Post("/{id}/recipes", s.CreateUserRecipe)
				r.Post("/{id}/collections", s.CreateUserCollection)
			})
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.ListRecipes)
			r.Get("/{id}", s.GetRecipe)
			r.Get("/{id}/reviews", s.ListRecipeReviews)
			r.Get("/{id}/images", s.ListRecipeImages)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", s.CreateRecipe)
				r.Put("/{id}", s.UpdateRecipe)
				r.Delete("/{id}", s.DeleteRecipe)
				r.Post("/{id}/reviews", s.CreateRecipeReview)
				r.Get("/{id}/notes", s.GetNote)
				r.Post("/{id}/notes", s.CreateNote)
				r.Put("/{id}/notes", s.UpdateNote)
				r.Delete("/{id}/notes", s.DeleteNote)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", s.ListReviews)
			r.Get("/{id}", s.GetReview)
			r.Get("/{id}/images", s.ListReviewImages)
			r.With(requireAuth).Put("/{id}", s.UpdateReview)
			r.With(requireAuth).Delete("/{id}", s.DeleteReview)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", s.ListCollections)
			r.With(optionalAuth).Get("/{id}", s.GetCollection)
			r.With(optionalAuth).Get("/{id}/recipes", s.ListCollectionRecipes)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", s.CreateCollection)
				r.Put("/{id}", s.UpdateCollection)
				r.Delete("/{id}", s.DeleteCollection)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.ListTags)
			r.Get("/{id}", s.GetTag)
			r.With(requireAuth).Post("/", s.CreateTag)
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/{id}", s.GetImage)
			r.With(requireAuth).Post("/", s.UploadImage)
			r.With(requireAuth).Delete("/{id}", s.DeleteImage)
		})
	})

	return r
}
