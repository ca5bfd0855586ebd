package auth

import (
	"context"
	"slices"
)

// Principal is the authenticated identity of one request.
type Principal struct {
	Subject     string
	Role        Role
	Authorities []Role
	UserID      *int64
}

// NewPrincipal builds a Principal from decoded claims. Role is the first
// granted authority.
func NewPrincipal(claims *Claims) *Principal {
	p := &Principal{
		Subject:     claims.Subject,
		Authorities: claims.Role.Authorities(),
		UserID:      claims.UserID,
	}
	if len(p.Authorities) > 0 {
		p.Role = p.Authorities[0]
	}
	return p
}

// HasAuthority reports whether role is among the granted authorities.
func (p *Principal) HasAuthority(role Role) bool {
	return p != nil && slices.Contains(p.Authorities, role)
}

// Owns reports whether the principal's user id equals id.
func (p *Principal) Owns(id int64) bool {
	return p != nil && p.UserID != nil && *p.UserID == id
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
