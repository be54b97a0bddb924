package identity

import (
	"errors"
	"net/http"
)

// Principal is an authenticated subject as reported by the external identity
// provider: a stable subject id plus the verified login email.
type Principal struct {
	SubjectID string
	Email     string
}

var ErrNotAuthenticated = errors.New("not authenticated")

// Provider resolves the principal behind an incoming request. The identity
// provider itself (sign-up, sign-in, credential storage) is an external
// system; this interface is the only contract the application consumes.
type Provider interface {
	CurrentUser(r *http.Request) (*Principal, error)
}
