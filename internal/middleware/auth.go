package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/web"
)

type contextKey struct{}

var userKey contextKey

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLoader loads a user record by id.
type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// UserFrom returns the authenticated user attached by RequireAuth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// WithUser attaches a user to the context. Exported for handler tests.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// RequireAuth validates the Authorization bearer token, loads the user
// and injects it into the request context. Every failure (missing
// header, bad token, unknown or inactive user, store error) is
// normalized to a 401 so authentication can never surface a 500.
func RequireAuth(tokens TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				web.Error(w, http.StatusUnauthorized, "로그인이 필요합니다.")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			userID, err := tokens.Verify(token)
			if err != nil {
				web.Error(w, http.StatusUnauthorized, "유효하지 않은 토큰입니다.")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil || user == nil || !user.IsActive {
				web.Error(w, http.StatusUnauthorized, "사용자를 찾을 수 없거나 비활성화되었습니다.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects requests whose authenticated user is not an
// admin. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok || user.Role != models.RoleAdmin {
			web.Error(w, http.StatusForbidden, "접근 권한이 없습니다.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
