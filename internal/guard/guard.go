package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/twelled/spv-lifecycle/internal/config"
	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/store"
)

// Claims are the token claims issued by the identity provider. The subject
// carries the user identifier; email is a provider extension claim.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Guard resolves authenticated principals from bearer tokens and enforces
// role requirements. The role is attached to the principal exactly once, at
// resolution time; callers never consult the role table again.
type Guard struct {
	store      store.Store
	secret     []byte
	adminEmail string
}

// New creates a guard backed by the given store and auth configuration
func New(s store.Store, cfg config.AuthConfig) *Guard {
	return &Guard{
		store:      s,
		secret:     []byte(cfg.JWTSecret),
		adminEmail: strings.ToLower(cfg.AdminEmail),
	}
}

// ResolvePrincipal validates a bearer token and builds the acting principal.
// Failures to parse or validate the token return domain.ErrUnauthenticated;
// a valid token for a user with no role assignment resolves to RoleMember.
func (g *Guard) ResolvePrincipal(ctx context.Context, tokenString string) (domain.Principal, error) {
	if tokenString == "" {
		return domain.Principal{}, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}

	claims, err := g.validateToken(tokenString)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return domain.Principal{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	principal := domain.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
	}

	role, err := g.resolveRole(ctx, principal)
	if err != nil {
		return domain.Principal{}, err
	}
	principal.Role = role

	return principal, nil
}

// RequireAdmin returns domain.ErrForbidden unless the principal holds the
// admin role
func (g *Guard) RequireAdmin(p domain.Principal) error {
	if !p.IsAdmin() {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	return nil
}

// resolveRole determines the principal's role. The configured admin email is
// mapped to the admin role here rather than special-cased at every call site;
// otherwise the role table decides, defaulting to member.
func (g *Guard) resolveRole(ctx context.Context, p domain.Principal) (domain.Role, error) {
	if g.adminEmail != "" && strings.ToLower(p.Email) == g.adminEmail {
		return domain.RoleAdmin, nil
	}

	role, err := g.store.GetUserRole(ctx, p.ID)
	if err != nil {
		return "", fmt.Errorf("failed to look up user role: %w", err)
	}
	if role == "" {
		return domain.RoleMember, nil
	}

	return role, nil
}

// validateToken parses and validates an HS256 token and returns its claims
func (g *Guard) validateToken(tokenString string) (*Claims, error) {
	if len(g.secret) == 0 {
		return nil, errors.New("JWT secret not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
