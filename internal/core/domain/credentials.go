package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// CredentialsNamespace is the key of the single persisted auth record.
const CredentialsNamespace = "persist:auth"

// Credentials stores the storefront session tokens.
// There is exactly one Credentials record per client installation.
type Credentials struct {
	// AccessToken is the short-lived bearer token for API access.
	AccessToken string `json:"access"`
	// RefreshToken is used solely to obtain new access tokens.
	RefreshToken string `json:"refresh"`
	// UpdatedAt is when the pair was last written.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsAuthenticated returns true if an access token is present.
func (c Credentials) IsAuthenticated() bool {
	return c.AccessToken != ""
}

// HasRefreshToken returns true if a refresh token is available.
func (c Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Unwrapped returns a copy with quoting artifacts stripped from both tokens.
func (c Credentials) Unwrapped() Credentials {
	c.AccessToken = UnquoteToken(c.AccessToken)
	c.RefreshToken = UnquoteToken(c.RefreshToken)
	return c
}

// UnquoteToken strips serialization quoting from a persisted token.
// Values written through a JSON-stringifying layer can arrive as "\"abc\"",
// sometimes encoded more than once, or wrapped in single quotes.
func UnquoteToken(raw string) string {
	s := strings.TrimSpace(raw)
	for len(s) >= 2 {
		switch {
		case s[0] == '"' && s[len(s)-1] == '"':
			var decoded string
			if err := json.Unmarshal([]byte(s), &decoded); err != nil {
				decoded = s[1 : len(s)-1]
			}
			s = strings.TrimSpace(decoded)
		case s[0] == '\'' && s[len(s)-1] == '\'':
			s = strings.TrimSpace(s[1 : len(s)-1])
		default:
			return s
		}
	}
	return s
}
