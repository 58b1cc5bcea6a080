package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/logger"
)

// Error codes rendered in errorResponse.Code.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeInvalidQuery      = "invalid_query"
	codeNotFound          = "not_found"
	codeAlreadyExists     = "already_exists"
	codeUnauthorized      = "unauthorized"
	codeRateLimited       = "rate_limited"
	codeImageHostDisabled = "image_host_disabled"
	codeImageHostError    = "image_host_error"
	codeInternalError     = "internal_error"
)

const internalErrorMessage = "internal error"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrOffsetOutOfBounds, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusBadRequest, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusBadRequest, codeAlreadyExists),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrImageHostDisabled, http.StatusServiceUnavailable, codeImageHostDisabled),
		sentinelHandler(domain.ErrImageHostFailed, http.StatusBadGateway, codeImageHostError),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, clientMessage(err, sentinel))
		return true
	}
}

// clientMessage picks the message shown to clients: the typed error's own
// text when present, the sentinel text otherwise. Wrapping context stays in logs.
func clientMessage(err, sentinel error) string {
	var (
		nf  *domain.NotFoundError
		ve  *domain.ValidationError
		ce  *domain.ConflictError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ce):
		return ce.Error()
	case errors.As(err, &mbe):
		return "Request body too large"
	case errors.Is(sentinel, domain.ErrForbidden):
		return domain.ErrUnauthorized.Error()
	}
	return sentinel.Error()
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	if !errors.Is(err, domain.ErrMisconfigured) {
		for _, h := range s.errorHandlers {
			if h(w, err) {
				log.Debug("domain error", zap.Error(err))
				return
			}
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, internalErrorMessage)
}
