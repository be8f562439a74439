package middlewares

import (
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/anvil/internal"
)

// JWTKey is the HMAC secret used to verify bearer tokens.
// Provide it in the container to enable the "authenticate" middleware:
//
//	container.Provide(c, middlewares.JWTKey(secret))
type JWTKey []byte

// Claims are the token claims stored on the context by Authenticate.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the claims grant role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

type claimsKey struct{}

var bearer = internal.NewExtractor(internal.FromBearerToken())

// Authenticate returns middleware that requires a valid HS256 bearer token
// signed with key. Parsed claims are available through GetClaims.
func Authenticate(key JWTKey) internal.Middleware {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return []byte(key), nil }

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			raw, ok := bearer.Extract(c)
			if !ok {
				return internal.ErrUnauthorized("missing authentication token")
			}

			claims := &Claims{}
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return internal.ErrUnauthorized("token expired", internal.WithError(err))
				}
				return internal.ErrUnauthorized("invalid token", internal.WithError(err))
			}

			c.Set(claimsKey{}, claims)
			return next(c)
		}
	}
}

// Can returns middleware that requires the authenticated claims to carry at
// least one of roles. Without roles any authenticated request passes.
// It must run after Authenticate.
func Can(roles ...string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return internal.ErrUnauthorized("authentication required")
			}
			if len(roles) > 0 && !slices.ContainsFunc(roles, claims.HasRole) {
				return internal.ErrForbidden("insufficient permissions")
			}
			return next(c)
		}
	}
}

// GetClaims returns the claims stored by Authenticate, or nil.
func GetClaims(c internal.Context) *Claims {
	claims, _ := c.Get(claimsKey{}).(*Claims)
	return claims
}
