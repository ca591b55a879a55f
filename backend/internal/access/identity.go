package access

import (
	"net/http"
	"strings"
)

// Identity is the requester as resolved by the authentication layer.
// The zero value is an anonymous requester.
type Identity struct {
	Username string
	Staff    bool
}

// Authenticated reports whether the requester is logged in
func (i Identity) Authenticated() bool {
	return i.Username != ""
}

// Authenticator resolves the identity behind a request.
type Authenticator interface {
	Authenticate(r *http.Request) Identity
}

// HeaderAuthenticator trusts a header set by the fronting proxy that owns
// sessions. Staff status comes from a fixed username list.
type HeaderAuthenticator struct {
	header string
	staff  map[string]struct{}
}

// NewHeaderAuthenticator creates an authenticator reading the given header
func NewHeaderAuthenticator(header string, staffUsers []string) *HeaderAuthenticator {
	staff := make(map[string]struct{}, len(staffUsers))
	for _, u := range staffUsers {
		staff[u] = struct{}{}
	}
	return &HeaderAuthenticator{header: header, staff: staff}
}

func (a *HeaderAuthenticator) Authenticate(r *http.Request) Identity {
	username := strings.TrimSpace(r.Header.Get(a.header))
	if username == "" {
		return Identity{}
	}
	_, isStaff := a.staff[username]
	return Identity{Username: username, Staff: isStaff}
}
