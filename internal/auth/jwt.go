package auth

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const selfSignedTokenLifetime = time.Hour

// SelfSignedJWT mints RS256 access tokens from a service account key
// without calling a token endpoint
type SelfSignedJWT struct {
	privateKey *rsa.PrivateKey
	keyID      string
	email      string
	scopes     []string
	now        func() time.Time
}

// Claims are the claims of a self-signed access token
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// NewSelfSignedJWT creates a token minter for key, scoped to scopes
func NewSelfSignedJWT(key ServiceAccountKey, scopes ...string) (*SelfSignedJWT, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}
	if len(scopes) == 0 {
		return nil, fmt.Errorf("self-signed JWT requires at least one scope")
	}

	return &SelfSignedJWT{
		privateKey: privateKey,
		keyID:      key.PrivateKeyID,
		email:      key.ClientEmail,
		scopes:     scopes,
		now:        time.Now,
	}, nil
}

// Token implements oauth2.TokenSource
func (s *SelfSignedJWT) Token() (*oauth2.Token, error) {
	now := s.now()
	expiry := now.Add(selfSignedTokenLifetime)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.email,
			Subject:   s.email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		Scope: strings.Join(s.scopes, " "),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if s.keyID != "" {
		token.Header["kid"] = s.keyID
	}

	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

// ValidateToken checks a token minted by s and returns its claims
func (s *SelfSignedJWT) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &s.privateKey.PublicKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Issuer != s.email {
		return nil, fmt.Errorf("invalid issuer")
	}
	return claims, nil
}
