package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type contextKey string

const tgIDKey contextKey = "tgId"

// TgIDFromContext returns the authenticated account ID set by AuthMiddleware.
func TgIDFromContext(ctx context.Context) (string, bool) {
	tgID, ok := ctx.Value(tgIDKey).(string)
	return tgID, ok && tgID != ""
}

// WithTgID returns a context carrying the account ID, the same way
// AuthMiddleware sets it.
func WithTgID(ctx context.Context, tgID string) context.Context {
	return context.WithValue(ctx, tgIDKey, tgID)
}

// AuthMiddleware validates the Bearer token, rejects blacklisted tokens and
// places the owning account ID on the request context. redisClient may be nil,
// in which case logout blacklisting is not enforced.
func AuthMiddleware(redisClient *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			token := parts[1]

			if redisClient != nil {
				key := fmt.Sprintf("blacklist:%s", token)
				if exists, err := redisClient.Exists(r.Context(), key).Result(); err == nil && exists > 0 {
					http.Error(w, "Token revoked", http.StatusUnauthorized)
					return
				}
			}

			tgID, err := validateToken(token)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), tgIDKey, tgID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(viper.GetString("jwt.secret_key")), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}

	tgID, ok := claims["tgId"].(string)
	if !ok || tgID == "" {
		return "", fmt.Errorf("token carries no account ID")
	}
	return tgID, nil
}
