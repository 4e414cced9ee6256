package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xinwork/repair-order-api/internal/config"
	"github.com/xinwork/repair-order-api/internal/models"
)

const testSecret = "test-secret-key-that-is-long-enough-1234"

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService(config.JWTConfig{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)
	return s
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService(config.JWTConfig{Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewTokenService(config.JWTConfig{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewTokenService(config.JWTConfig{SecretKey: testSecret})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestGenerateAndValidateToken(t *testing.T) {
	s := newTestService(t)
	user := &models.User{ID: 42, Username: "zhang", Role: models.RoleManager}

	token, err := s.GenerateToken(user)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "zhang", claims.Username)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateToken_Expired(t *testing.T) {
	s := newTestService(t)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.GenerateToken(&models.User{ID: 1, Username: "a", Role: models.RoleWorker})
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	s := newTestService(t)
	other, err := NewTokenService(config.JWTConfig{SecretKey: testSecret + "-other", Duration: time.Hour})
	require.NoError(t, err)

	token, err := other.GenerateToken(&models.User{ID: 1, Username: "a", Role: models.RoleWorker})
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	s := newTestService(t)
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := newTestService(t).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
