package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bskmt/club-api/internal/model"
)

// Claims are the token claims the API cares about
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// TokenValidator validates a bearer token and returns its claims
type TokenValidator struct {
	secret []byte
	issuer string
}

// NewTokenValidator creates a validator for HS256 tokens
func NewTokenValidator(secret, issuer string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret), issuer: issuer}
}

// Validate parses and verifies a token string
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// Auth returns a middleware that validates bearer tokens and puts the
// subject user ID in the request context
func Auth(validator *TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, pd := claimsFromRequest(validator, r)
			if pd != nil {
				pd.WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, AdminKey, claims.Admin)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth is like Auth but also requires the admin claim
func AdminAuth(validator *TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, pd := claimsFromRequest(validator, r)
			if pd != nil {
				pd.WriteJSON(w)
				return
			}
			if !claims.Admin {
				model.NewForbiddenError("admin access required").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, AdminKey, true)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// claimsFromRequest extracts and validates the bearer token of a request
func claimsFromRequest(validator *TokenValidator, r *http.Request) (*Claims, *model.ProblemDetails) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, model.NewUnauthorizedError("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, model.NewUnauthorizedError("invalid authorization header format")
	}

	claims, err := validator.Validate(parts[1])
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, model.NewUnauthorizedError("token expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, model.NewUnauthorizedError("invalid token signature")
		default:
			return nil, model.NewUnauthorizedError("invalid token")
		}
	}
	return claims, nil
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// IsAdmin reports whether the request carries the admin claim
func IsAdmin(ctx context.Context) bool {
	if admin, ok := ctx.Value(AdminKey).(bool); ok {
		return admin
	}
	return false
}
