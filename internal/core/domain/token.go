package domain

import "time"

// AccessToken is a bearer token obtained through the client-credentials grant.
// The TokenBroker owns the live value; credential stores only hold a serialised copy.
type AccessToken struct {
	// Value is the bearer token sent in the Authorization header.
	Value string
	// TokenType is typically "Bearer".
	TokenType string
	// Scope is the scope granted by the authorization server, often empty.
	Scope string
	// ExpiresAt is when the token stops being accepted.
	ExpiresAt time.Time
	// Raw holds any additional fields from the token-exchange response.
	Raw map[string]any
}

// Valid reports whether the token can still be used at now.
// A token is valid iff now is strictly before ExpiresAt, so a zero expiry is never valid.
func (t *AccessToken) Valid(now time.Time) bool {
	if t == nil || t.Value == "" {
		return false
	}
	return now.Before(t.ExpiresAt)
}

// Expired is the negation of Valid.
func (t *AccessToken) Expired(now time.Time) bool {
	return !t.Valid(now)
}

// ExpiresIn returns the time left before expiry, measured from now.
func (t *AccessToken) ExpiresIn(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}

// TokenState is the outcome of inspecting the stored credential.
type TokenState int

// Token states evaluated on every broker call.
const (
	// NoStoredToken means the credential store had nothing usable.
	NoStoredToken TokenState = iota
	// StoredTokenExpired means a token was loaded but now >= ExpiresAt.
	StoredTokenExpired
	// StoredTokenValid means the stored token can be reused without a network call.
	StoredTokenValid
)

// String returns the string representation.
func (s TokenState) String() string {
	switch s {
	case NoStoredToken:
		return "none"
	case StoredTokenExpired:
		return "expired"
	case StoredTokenValid:
		return "valid"
	default:
		return "unknown"
	}
}

// NeedsAuthorization returns true if the broker must request a new token.
func (s TokenState) NeedsAuthorization() bool {
	return s != StoredTokenValid
}

// EvaluateToken classifies a loaded token against a single now sample.
func EvaluateToken(token *AccessToken, now time.Time) TokenState {
	if token == nil || token.Value == "" {
		return NoStoredToken
	}
	if token.Expired(now) {
		return StoredTokenExpired
	}
	return StoredTokenValid
}
