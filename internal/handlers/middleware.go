package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nosaterra/apiserver/internal/auth"
	"github.com/nosaterra/apiserver/internal/services"
	"github.com/nosaterra/apiserver/internal/store"
	"github.com/nosaterra/apiserver/types"
	"github.com/sirupsen/logrus"
)

type contextKey string

const contextUserKey contextKey = "user"

// Middleware authenticates requests and gates admin-only routes.
//
// Every protected request verifies the bearer token and resolves its
// subject against the user store. There is no session cache, so account
// deletion and role changes take effect on the next request.
type Middleware struct {
	tokens      *auth.Tokens
	userService *services.UserService
	logger      *logrus.Logger
}

func NewMiddleware(tokens *auth.Tokens, userService *services.UserService, logger *logrus.Logger) *Middleware {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Middleware{tokens: tokens, userService: userService, logger: logger}
}

// RequireAuth verifies the bearer token, loads the subject's user record
// with the credential stripped, and attaches it to the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		subject, err := m.tokens.Verify(tokenString)
		if err != nil {
			// Expired is the only failure distinguished to the client;
			// malformed and signature-mismatch stay uniform.
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token expired")
				return
			}
			m.logger.WithError(err).Debug("token rejected")
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := m.userService.GetByID(r.Context(), subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Valid token for an account deleted since issuance.
				writeError(w, http.StatusUnauthorized, "User not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to load user")
			return
		}

		ctx := context.WithValue(r.Context(), contextUserKey, user.Public())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin enforces the admin role on an already-authenticated
// request. A known caller without the role gets 403, distinct from the
// 401 an unknown caller gets.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if user.Role != types.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
