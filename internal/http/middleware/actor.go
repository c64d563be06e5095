package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/condobill/internal/http/request"
	"github.com/MrJamesThe3rd/condobill/internal/http/respond"
)

type actorKey struct{}

// Actor verifies an optional HS256 bearer token and stores its uid claim on the request context.
// Requests without an Authorization header pass through untouched; a token that fails
// verification is rejected with 401.
func Actor(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			uid, err := parseUID(raw, key)
			if err != nil {
				respond.Status(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, uid)))
		})
	}
}

func bearer(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}

	return strings.Trim(fields[1], `"'`), true
}

func parseUID(raw string, key []byte) (string, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	switch uid := claims["uid"].(type) {
	case string:
		if uid != "" {
			return uid, nil
		}
	case float64:
		return fmt.Sprintf("%.0f", uid), nil
	}

	return "", fmt.Errorf("invalid token: missing uid claim")
}

// ActorFrom returns the token's uid when present, otherwise fallback (the body's uid).
func ActorFrom(ctx context.Context, fallback string) string {
	if uid, ok := ctx.Value(actorKey{}).(string); ok {
		return uid
	}

	return fallback
}

// RequireActor is ActorFrom for writes: with neither a token nor a body uid it fails with a
// missing uid error.
func RequireActor(ctx context.Context, fallback string) (string, error) {
	actor := strings.TrimSpace(ActorFrom(ctx, fallback))
	if actor == "" {
		return "", request.ErrMissing.With("required", []string{"uid"})
	}

	return actor, nil
}
