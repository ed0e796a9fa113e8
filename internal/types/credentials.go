package types

import "encoding/base64"

// Credentials resolve to the bearer token sent to the publisher API.
type Credentials interface {
	BearerToken() string
}

type UsernamePasswordCredentials struct {
	Username string
	Password string
}

func (c UsernamePasswordCredentials) BearerToken() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
}

func (c UsernamePasswordCredentials) String() string {
	return "UsernamePasswordCredentials{username=" + c.Username + ", password=****}"
}

type BearerTokenCredentials struct {
	Token string
}

func (c BearerTokenCredentials) BearerToken() string {
	return c.Token
}

func (c BearerTokenCredentials) String() string {
	return "BearerTokenCredentials{token=****}"
}

// CredentialsEqual compares credentials by their resolved token, so a
// username/password pair equals the bearer token it encodes to.
func CredentialsEqual(a Credentials, b Credentials) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.BearerToken() == b.BearerToken()
}
