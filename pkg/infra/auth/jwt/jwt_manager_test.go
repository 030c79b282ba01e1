package jwt

import (
	"testing"
	"time"

	"github.com/asifkhuda/turing/pkg/config"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManagerWithSecret(secret string) Manager {
	return NewJwtManager(&config.ServerConfig{SecretKey: secret})
}

func signTokenWithSecret(secret string, claims jwtlib.Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func TestCreateToken_AndValidate_Success(t *testing.T) {
	mgr := newManagerWithSecret("test-secret")

	token, err := mgr.CreateToken(time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NoError(t, mgr.ValidateToken(token))
}

func TestCreateToken_MissingSecret(t *testing.T) {
	mgr := newManagerWithSecret("")
	_, err := mgr.CreateToken(time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.ErrorIs(t, mgr.ValidateToken("a.b.c"), ErrMissingSecret)
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	claims := &Claims{Scope: AdminScope, RegisteredClaims: jwtlib.RegisteredClaims{IssuedAt: jwtlib.NewNumericDate(time.Now())}}
	signed, err := signTokenWithSecret("other-secret", claims)
	require.NoError(t, err)

	err = newManagerWithSecret("test-secret").ValidateToken(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestValidateToken_Expired(t *testing.T) {
	secret := "expire-secret"
	claims := &Claims{Scope: AdminScope, RegisteredClaims: jwtlib.RegisteredClaims{
		IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-1 * time.Hour)),
	}}
	signed, err := signTokenWithSecret(secret, claims)
	require.NoError(t, err)

	err = newManagerWithSecret(secret).ValidateToken(signed)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestValidateToken_WrongScope(t *testing.T) {
	secret := "scope-secret"
	signed, err := signTokenWithSecret(secret, &Claims{Scope: "read"})
	require.NoError(t, err)

	err = newManagerWithSecret(secret).ValidateToken(signed)
	assert.Equal(t, ErrInvalidScope, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	assert.Equal(t, ErrInvalidToken, newManagerWithSecret("s").ValidateToken("not-a-token"))
}

func TestDecodeToken_Success(t *testing.T) {
	mgr := newManagerWithSecret("decode-secret")
	token, err := mgr.CreateToken(0)
	require.NoError(t, err)

	claims, err := mgr.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, AdminScope, claims.Scope)
	assert.NotNil(t, claims.IssuedAt)
	assert.Nil(t, claims.ExpiresAt)
}

func TestDecodeToken_Invalid(t *testing.T) {
	signed, err := signTokenWithSecret("wrong", &Claims{RegisteredClaims: jwtlib.RegisteredClaims{IssuedAt: jwtlib.NewNumericDate(time.Now())}})
	require.NoError(t, err)

	claims, err := newManagerWithSecret("right").DecodeToken(signed)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
