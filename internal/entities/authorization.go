package entities

import "time"

// AuthMode is the credential scheme controlling access to generated operations
type AuthMode string

const (
	AuthModeAPIKey AuthMode = "apiKey"
)

// AuthRule is an allow rule attached to the schema
type AuthRule string

const (
	AllowPublicAPIKey AuthRule = "publicApiKey"
)

// API key lifetime bounds in days
const (
	MinAPIKeyExpiresInDays     = 1
	MaxAPIKeyExpiresInDays     = 365
	DefaultAPIKeyExpiresInDays = 364
)

// Authorization holds the authorization modes and allow rules of a schema
type Authorization struct {
	DefaultMode AuthMode
	APIKey      *APIKeyConfig
	Rules       []AuthRule
}

// APIKeyConfig configures the shared API key mode
type APIKeyConfig struct {
	ExpiresInDays int
}

// ExpiresAt returns when a key issued at the given time expires
func (c *APIKeyConfig) ExpiresAt(issued time.Time) time.Time {
	return issued.AddDate(0, 0, c.ExpiresInDays)
}

// DefaultAuthorization returns the authorization used when a schema declares none
func DefaultAuthorization() *Authorization {
	return &Authorization{
		DefaultMode: AuthModeAPIKey,
		APIKey:      &APIKeyConfig{ExpiresInDays: DefaultAPIKeyExpiresInDays},
		Rules:       []AuthRule{AllowPublicAPIKey},
	}
}

// Allows reports whether the rule is present
func (a *Authorization) Allows(rule AuthRule) bool {
	for _, r := range a.Rules {
		if r == rule {
			return true
		}
	}
	return false
}
