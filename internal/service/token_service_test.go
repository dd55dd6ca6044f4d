package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hack-neuron/frontend/internal/utils"
)

// newTestTokenService builds a TokenService with a freshly generated key pair.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return NewTokenServiceWithKeys(key, &key.PublicKey)
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("app1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "app1", claims.Name)
	assert.InDelta(t, time.Now().Unix(), claims.Time, 5)
}

func TestTokenServiceIssueDiffersOverTime(t *testing.T) {
	svc := newTestTokenService(t)

	first, err := svc.Issue("app1")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	second, err := svc.Issue("app1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTokenServiceRejectsForeignKey(t *testing.T) {
	svc := newTestTokenService(t)
	foreign := newTestTokenService(t)

	token, err := foreign.Issue("app1")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestTokenServiceRejectsMalformed(t *testing.T) {
	svc := newTestTokenService(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, utils.ErrInvalidToken, "token %q", token)
	}
}

func TestTokenServiceRejectsTampered(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("app1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestNewTokenServiceLoadsPEMFiles(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "jwt.key")
	pubPath := filepath.Join(dir, "jwt.key.pub")

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o644))

	svc, err := NewTokenService(privPath, pubPath)
	require.NoError(t, err)

	token, err := svc.Issue("app1")
	require.NoError(t, err)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "app1", claims.Name)
}

func TestNewTokenServiceMissingFiles(t *testing.T) {
	_, err := NewTokenService("no/such/jwt.key", "no/such/jwt.key.pub")
	assert.Error(t, err)
}
