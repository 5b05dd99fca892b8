package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/propserve/brokerage-api/internal/models"
	"github.com/propserve/brokerage-api/internal/services"
	"github.com/propserve/brokerage-api/internal/utils"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticator gates routes on a valid token and an allowed role.
type Authenticator struct {
	auth services.AuthService
}

func NewAuthenticator(auth services.AuthService) *Authenticator {
	return &Authenticator{auth: auth}
}

// RequireRole validates the bearer token, re-derives the account from
// the store and rejects principals outside the allowed roles.
func (a *Authenticator) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing or malformed Authorization header", nil)
				return
			}

			principal, err := a.auth.Validate(r.Context(), token)
			if err != nil {
				utils.HandleAppError(w, err)
				return
			}

			if _, ok := allowed[principal.Role]; !ok {
				utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "This account is not allowed to access this resource", nil)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated principal set by
// RequireRole.
func PrincipalFromContext(ctx context.Context) (*services.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*services.Principal)
	return principal, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
