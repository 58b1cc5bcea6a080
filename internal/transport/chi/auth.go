package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/logger"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domuser.User, error)
}

type userKey struct{}

func withUser(ctx context.Context, u domuser.User) context.Context {
	ctx = context.WithValue(ctx, userKey{}, u)
	return logger.With(ctx, zap.String("user_id", u.ID))
}

// currentUser returns the authenticated caller, if any.
func currentUser(ctx context.Context) (domuser.User, bool) {
	u, ok := ctx.Value(userKey{}).(domuser.User)
	return u, ok
}

// viewerID returns the caller id or "" for anonymous requests.
func viewerID(ctx context.Context) string {
	u, _ := currentUser(ctx)
	return u.ID
}

// bearerToken extracts the token from the Authorization header.
// ok is false when the header is absent.
func bearerToken(r *http.Request) (token string, ok bool, err error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false, nil
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) || len(auth) == len(bearerPrefix) {
		return "", true, domain.ErrUnauthorized
	}
	return auth[len(bearerPrefix):], true, nil
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return authMiddleware(a, true)
}

// OptionalAuth attaches the caller when a token is sent. A bad token is still rejected.
func OptionalAuth(a Authenticator) func(http.Handler) http.Handler {
	return authMiddleware(a, false)
}

func authMiddleware(a Authenticator, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present, err := bearerToken(r)
			if !present {
				if required {
					writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthorized.Error())
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthorized.Error())
				return
			}

			u, err := a.Authenticate(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).Debug("authentication failed", zap.Error(err))
				writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthorized.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
		})
	}
}
