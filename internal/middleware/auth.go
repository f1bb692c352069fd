package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// OperatorKey holds the authenticated operator id in the request context
const OperatorKey contextKey = "operatorID"

// BearerAuth requires an HS256-signed bearer token. The operator id is taken
// from the sub claim, or user_id when sub is absent.
func BearerAuth(secret string) func(http.Handler) http.Handler {
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

			operatorID, err := validateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OperatorKey, operatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorID returns the operator set by BearerAuth, or ""
func OperatorID(ctx context.Context) string {
	id, _ := ctx.Value(OperatorKey).(string)
	return id
}

func validateToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	if id, ok := claims["user_id"]; ok {
		return fmt.Sprintf("%v", id), nil
	}
	return "", fmt.Errorf("token has no subject")
}
