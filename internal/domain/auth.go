package domain

import (
	"encoding/base64"
	"net/http"
)

// Credentials stores the authentication material for the Azure DevOps
// organization. Supports personal access tokens (sent basic-encoded with an
// empty username, as the Azure DevOps REST API expects) and bearer tokens.
type Credentials struct {
	Type  AuthType
	PAT   string // Used for PAT auth
	Token string // Used for bearer auth
}

// AuthorizationHeader produces the Authorization header value for these
// credentials. PATs are basic-encoded as ":<pat>"; bearer tokens are sent
// as-is.
func (c *Credentials) AuthorizationHeader() string {
	switch c.Type {
	case BearerAuth:
		return "Bearer " + c.Token
	default:
		encoded := base64.StdEncoding.EncodeToString([]byte(":" + c.PAT))
		return "Basic " + encoded
	}
}

// AuthenticationManager holds the organization credentials and hands out
// authenticated HTTP clients. Credentials are resolved once at startup from
// configuration and never mutated afterwards.
type AuthenticationManager struct {
	credentials *Credentials
}

// NewAuthenticationManager creates an authentication manager with the given
// credentials.
func NewAuthenticationManager(credentials *Credentials) *AuthenticationManager {
	return &AuthenticationManager{credentials: credentials}
}

// NewAuthenticationManagerFromConfig creates an authentication manager from
// the loaded configuration. The credential method is taken from the explicit
// auth.type value; no environment variables are consulted.
func NewAuthenticationManagerFromConfig(config *Config) *AuthenticationManager {
	return NewAuthenticationManager(&Credentials{
		Type:  ParseAuthType(config.Auth.Type),
		PAT:   config.Auth.PAT,
		Token: config.Auth.Token,
	})
}

// Credentials returns the configured credentials.
// Returns an AuthenticationError if no usable credentials are configured.
func (am *AuthenticationManager) Credentials() (*Credentials, error) {
	if err := am.validate(); err != nil {
		return nil, err
	}
	return am.credentials, nil
}

// GetAuthenticatedClient returns an HTTP client that attaches the
// Authorization header to every outgoing request.
// Returns an AuthenticationError if credentials are missing or incomplete.
func (am *AuthenticationManager) GetAuthenticatedClient() (*http.Client, error) {
	if err := am.validate(); err != nil {
		return nil, err
	}

	transport := &authenticatedTransport{
		base:        http.DefaultTransport,
		credentials: am.credentials,
	}

	return &http.Client{Transport: transport}, nil
}

// validate checks that the stored credentials are usable.
func (am *AuthenticationManager) validate() error {
	if am.credentials == nil {
		return NewAuthenticationError("no credentials configured")
	}
	switch am.credentials.Type {
	case PATAuth:
		if am.credentials.PAT == "" {
			return NewAuthenticationError("personal access token is empty")
		}
	case BearerAuth:
		if am.credentials.Token == "" {
			return NewAuthenticationError("bearer token is empty")
		}
	}
	return nil
}

// authenticatedTransport is an http.RoundTripper that adds the Authorization
// header to each request before delegating to the base transport.
type authenticatedTransport struct {
	base        http.RoundTripper
	credentials *Credentials
}

// RoundTrip implements http.RoundTripper.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request so the original is never mutated
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", t.credentials.AuthorizationHeader())
	return t.base.RoundTrip(cloned)
}
