package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/georgemunganga/restro-backend/internal/modules/staff"
	apperrors "github.com/georgemunganga/restro-backend/internal/platform/errors"
)

type contextKey string

const claimsContextKey contextKey = "staff"

// RequireStaff rejects requests without a valid staff bearer token and stores
// the claims on the request context.
func RequireStaff(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				respond(w, http.StatusUnauthorized, apperrors.Body{Error: err.Error(), Code: apperrors.CodeUnauthorized})
				return
			}

			claims, err := svc.Verify(tokenStr)
			if err != nil {
				respond(w, apperrors.HTTPStatus(err), apperrors.BodyOf(err))
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose staff claims do not carry the admin role.
// It expects RequireStaff to have run first.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			respond(w, http.StatusUnauthorized, apperrors.BodyOf(apperrors.New(apperrors.CodeUnauthorized, "staff token required")))
			return
		}
		if claims.Role != staff.RoleAdmin {
			respond(w, http.StatusForbidden, apperrors.BodyOf(apperrors.New(apperrors.CodeForbidden, "admin role required")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFrom returns the staff claims stored by RequireStaff.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}
