package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	m, err := NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	complexID := uint(4)
	token, err := m.Issue(&models.User{ID: 12, Email: "t@example.com", Role: models.RoleTenant, ComplexID: &complexID})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, models.RoleTenant, claims.Role)
	assert.Equal(t, "12", claims.Subject)
	require.NotNil(t, claims.ComplexID)
	assert.Equal(t, uint(4), *claims.ComplexID)
}

func TestValidateRejects(t *testing.T) {
	m, err := NewManager("test-secret", time.Minute)
	require.NoError(t, err)
	other, err := NewManager("other-secret", time.Minute)
	require.NoError(t, err)

	foreign, err := other.Issue(&models.User{ID: 1, Role: models.RoleTenant})
	require.NoError(t, err)
	_, err = m.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	past := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return past }
	expired, err := m.Issue(&models.User{ID: 1, Role: models.RoleTenant})
	require.NoError(t, err)
	m.now = time.Now
	_, err = m.Validate(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "password123"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}
