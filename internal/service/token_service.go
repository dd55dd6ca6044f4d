package service

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hack-neuron/frontend/internal/utils"
)

// TokenClaims is the signed token payload: the application name and the
// issuance time in unix seconds.
type TokenClaims struct {
	Name string `json:"name"`
	Time int64  `json:"time"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens with an RS256 key pair. It is
// stateless: the keys are loaded once at startup and never change, so the
// service is safe for concurrent use. Verify only checks the signature and
// structure; revocation is AuthService's concern.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewTokenService loads the PEM-encoded RS256 key pair from disk. The private
// key signs issued tokens and never leaves the process; the public key
// verifies presented ones.
func NewTokenService(privateKeyPath, publicKeyPath string) (*TokenService, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return NewTokenServiceWithKeys(privateKey, publicKey), nil
}

// NewTokenServiceWithKeys builds a TokenService from already-parsed keys.
func NewTokenServiceWithKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *TokenService {
	return &TokenService{privateKey: privateKey, publicKey: publicKey}
}

// Issue signs a fresh token for name. Tokens for the same name differ only in
// the embedded issuance time.
func (s *TokenService) Issue(name string) (string, error) {
	claims := TokenClaims{
		Name: name,
		Time: time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and decodes the payload. Any malformed,
// unsigned, or tampered token fails with utils.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, utils.ErrInvalidToken
	}
	return claims, nil
}

// PublicKey returns the verification key so that other services can check
// tokens independently.
func (s *TokenService) PublicKey() *rsa.PublicKey {
	return s.publicKey
}
