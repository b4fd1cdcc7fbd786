package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"rtbsamples/internal/validate"
)

// OAuth scopes used by the samples
const (
	RealtimeBiddingScope = "https://www.googleapis.com/auth/realtime-bidding"
	PubsubScope          = "https://www.googleapis.com/auth/pubsub"
)

// Mode selects how access tokens are obtained
type Mode string

const (
	// ModeOAuth exchanges a signed assertion for an access token at the key's token_uri
	ModeOAuth Mode = "oauth"
	// ModeSelfSignedJWT sends a locally signed JWT as the access token
	ModeSelfSignedJWT Mode = "self-signed-jwt"
	// ModeNone sends no credentials, for local fakes and emulators
	ModeNone Mode = "none"
)

// ParseMode parses an auth mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOAuth, ModeSelfSignedJWT, ModeNone:
		return m, nil
	case "":
		return ModeOAuth, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q (want oauth, self-signed-jwt or none)", s)
	}
}

// ServiceAccountKey is the JSON key file of a service account
type ServiceAccountKey struct {
	Type         string `json:"type" validate:"eq=service_account"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key" validate:"required"`
	ClientEmail  string `json:"client_email" validate:"required,email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// Credentials is a parsed service account key
type Credentials struct {
	Key  ServiceAccountKey
	Path string
	raw  []byte
}

// LoadServiceAccount reads and validates a service account key file
func LoadServiceAccount(path string) (*Credentials, error) {
	if path == "" {
		return nil, fmt.Errorf("no service account key file configured; set --key-file or RTB_KEY_FILE")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	creds, err := ParseServiceAccount(data)
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	creds.Path = path
	return creds, nil
}

// ParseServiceAccount parses and validates service account key JSON
func ParseServiceAccount(data []byte) (*Credentials, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	if err := validate.Struct(key); err != nil {
		return nil, fmt.Errorf("service account key: %w", err)
	}
	return &Credentials{Key: key, raw: data}, nil
}

// TokenSource returns a token source for scopes in the given mode. A nil
// source is returned for ModeNone.
func (c *Credentials) TokenSource(ctx context.Context, mode Mode, scopes ...string) (oauth2.TokenSource, error) {
	switch mode {
	case ModeNone:
		return nil, nil
	case ModeSelfSignedJWT:
		signer, err := NewSelfSignedJWT(c.Key, scopes...)
		if err != nil {
			return nil, err
		}
		return oauth2.ReuseTokenSource(nil, signer), nil
	case ModeOAuth, "":
		cfg, err := google.JWTConfigFromJSON(c.raw, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to build JWT config: %w", err)
		}
		return cfg.TokenSource(ctx), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}

// NewHTTPClient returns an HTTP client that authorizes requests with ts over
// base. A nil ts leaves requests unauthenticated.
func NewHTTPClient(ts oauth2.TokenSource, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	if ts == nil {
		return &http.Client{Transport: base}
	}
	return &http.Client{Transport: &oauth2.Transport{Source: ts, Base: base}}
}
