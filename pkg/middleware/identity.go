package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const IdentityKey contextKey = "account_identity"

// AccountClaims is the token payload issued by the accounts service. This
// backend only consumes it; issuing and refreshing tokens happen elsewhere.
type AccountClaims struct {
	AccountID string `json:"sub"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

func ParseAccountToken(tokenString, secret string) (*AccountClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &AccountClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*AccountClaims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// NewAccountToken exists for tests and local tooling; production tokens come
// from the accounts service.
func NewAccountToken(accountID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccountClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// OptionalIdentity parses a Bearer token when present and stores the account
// claims in the request context. Requests without a token pass through
// untouched; sessions owned by guests never carry one. A malformed token is
// treated as absent rather than rejected here; ownership decisions belong to
// the session authentication gate.
func OptionalIdentity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if strings.HasPrefix(authz, "Bearer ") && secret != "" {
				tok := strings.TrimPrefix(authz, "Bearer ")
				if claims, err := ParseAccountToken(tok, secret); err == nil {
					ctx := context.WithValue(r.Context(), IdentityKey, claims)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccountFromContext returns the parsed claims, or nil for guests.
func AccountFromContext(ctx context.Context) *AccountClaims {
	if v := ctx.Value(IdentityKey); v != nil {
		if c, ok := v.(*AccountClaims); ok {
			return c
		}
	}
	return nil
}
