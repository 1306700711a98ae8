package noteshare

import "github.com/google/uuid"

// TokenStore resolves bearer tokens to user identities. The session and
// account subsystem lives outside this service; handlers only need the
// token-to-user seam.
type TokenStore interface {
	// Lookup returns the user ID a token belongs to.
	// Returns an error wrapping ErrUnauthorized for unknown tokens.
	Lookup(token string) (uuid.UUID, error)
}
