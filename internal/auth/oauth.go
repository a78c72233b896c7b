package auth

import (
	"fmt"

	"golang.org/x/oauth2"
)

const (
	// Concept2 Logbook OAuth endpoints
	AuthURL  = "https://log.concept2.com/oauth/authorize"
	TokenURL = "https://log.concept2.com/oauth/access_token"
)

// Scopes required for our app (Concept2 uses comma-separated scopes)
var Scopes = []string{
	"user:read,results:read",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	redirect := cfg.RedirectURL
	if redirect == "" {
		redirect = DefaultRedirectURL()
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: redirect,
		Scopes:      Scopes,
	}
}

// DefaultRedirectURL is the local callback registered with the Logbook app
func DefaultRedirectURL() string {
	return fmt.Sprintf("http://localhost:%d/callback", CallbackPort)
}

// AuthResult contains the token from successful auth
type AuthResult struct {
	Token *oauth2.Token
}
