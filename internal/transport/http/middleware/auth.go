package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"jumewears/internal/httputil"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
	// IsStaffKey is the context key for the staff flag
	IsStaffKey contextKey = "is_staff"
)

// AuthCookieName is the cookie carrying the access token for browser clients.
const AuthCookieName = "access_token"

// RequireAuth validates the JWT and rejects unauthenticated requests.
// Checks Authorization header first (for API clients), then falls back to
// the cookie (for web).
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseToken(r, jwtSecret)
			if !ok {
				httputil.WriteUnauthorized(w, "Authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches the user to the context when a valid token is
// present but lets the request through either way. Guest carts and public
// comment threads use this.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := parseToken(r, jwtSecret); ok {
				r = r.WithContext(contextWithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff sits behind RequireAuth and rejects non-staff users.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetIsStaffFromContext(r.Context()) {
			httputil.WriteForbidden(w, "Staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authClaims struct {
	userID  int64
	isStaff bool
}

func parseToken(r *http.Request, jwtSecret string) (authClaims, bool) {
	var tokenString string

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		cookie, err := r.Cookie(AuthCookieName)
		if err == nil && cookie.Value != "" {
			tokenString = cookie.Value
		}
	}

	if tokenString == "" {
		return authClaims{}, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return authClaims{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authClaims{}, false
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return authClaims{}, false
	}

	isStaff, _ := claims["is_staff"].(bool)

	return authClaims{userID: int64(userIDFloat), isStaff: isStaff}, true
}

func contextWithClaims(ctx context.Context, claims authClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.userID)
	return context.WithValue(ctx, IsStaffKey, claims.isStaff)
}

// GetUserIDFromContext extracts the user ID from the request context
// Returns the user ID and true if found, or 0 and false if not found
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetIsStaffFromContext reports whether the authenticated user is staff.
func GetIsStaffFromContext(ctx context.Context) bool {
	isStaff, _ := ctx.Value(IsStaffKey).(bool)
	return isStaff
}
