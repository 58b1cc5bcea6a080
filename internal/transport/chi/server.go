package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	authuc "github.com/kailas-cloud/recipeshare/internal/usecase/auth"
	collectionuc "github.com/kailas-cloud/recipeshare/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/recipeshare/internal/usecase/health"
	imageuc "github.com/kailas-cloud/recipeshare/internal/usecase/image"
	noteuc "github.com/kailas-cloud/recipeshare/internal/usecase/note"
	recipeuc "github.com/kailas-cloud/recipeshare/internal/usecase/recipe"
	reviewuc "github.com/kailas-cloud/recipeshare/internal/usecase/review"
	taguc "github.com/kailas-cloud/recipeshare/internal/usecase/tag"
	useruc "github.com/kailas-cloud/recipeshare/internal/usecase/user"
)

// Services bundles the use cases served over HTTP.
type Services struct {
	Auth        *authuc.Service
	Users       *useruc.Service
	Recipes     *recipeuc.Service
	Reviews     *reviewuc.Service
	Collections *collectionuc.Service
	Tags        *taguc.Service
	Notes       *noteuc.Service
	Images      *imageuc.Service
	Health      *healthuc.Service
}

// Options holds request size limits.
type Options struct {
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// Server holds the HTTP handlers of the recipeshare API.
type Server struct {
	auth          *authuc.Service
	users         *useruc.Service
	recipes       *recipeuc.Service
	reviews       *reviewuc.Service
	collections   *collectionuc.Service
	tags          *taguc.Service
	notes         *noteuc.Service
	images        *imageuc.Service
	health        *healthuc.Service
	maxBody       int64
	maxUpload     int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, opts Options, logger *zap.Logger) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		auth:          svc.Auth,
		users:         svc.Users,
		recipes:       svc.Recipes,
		reviews:       svc.Reviews,
		collections:   svc.Collections,
		tags:          svc.Tags,
		notes:         svc.Notes,
		images:        svc.Images,
		health:        svc.Health,
		maxBody:       opts.MaxBodyBytes,
		maxUpload:     opts.MaxUploadBytes,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// callerID returns the authenticated user's id.
func callerID(r *http.Request) (string, error) {
	u, ok := currentUser(r.Context())
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return u.ID, nil
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, status, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}
