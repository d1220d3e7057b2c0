package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaughan-dsouza/nerv/internal/auth"
	"github.com/vaughan-dsouza/nerv/internal/utils"
)

// TokenVerifier is the part of auth.Tokens the gate needs.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a bearer token (401) or with one that does
// not verify (403). Otherwise the caller identity is put in the context.
func Auth(tokens TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				log.Warn("token rejected",
					slog.String("reason", rejectReason(err)),
					slog.String("path", r.URL.Path),
					slog.String("request_id", chimw.GetReqID(r.Context())),
				)
				utils.JSONError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			ctx := utils.WithIdentity(r.Context(), utils.Identity{
				UserID: claims.UserID(),
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenSignature):
		return "signature"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
