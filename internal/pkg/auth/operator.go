package auth

import "crypto/subtle"

// OperatorGate authorizes catalog administration requests carrying the
// static operator secret. This is a trust domain entirely separate from
// customer bearer tokens: operator requests never pass through the token
// strategy and customer tokens never grant operator access.
type OperatorGate struct {
	secret []byte
}

// NewOperatorGate builds a gate around the configured shared secret.
func NewOperatorGate(secret string) *OperatorGate {
	return &OperatorGate{secret: []byte(secret)}
}

// Verify reports whether the presented secret matches. Comparison is
// constant-time. An empty configured secret matches nothing.
func (g *OperatorGate) Verify(presented string) bool {
	if len(g.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(presented)) == 1
}
