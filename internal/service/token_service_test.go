package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/models"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "study-planner")
	token, err := svc.Issue("student-1", models.RoleStudent, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "study-planner", claims.Issuer)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("other", "").Issue("u", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenService("secret", "").ValidateToken(token)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestTokenServiceExpired(t *testing.T) {
	svc := NewTokenService("secret", "")
	token, err := svc.Issue("u", models.RoleTeacher, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrTokenExpired.Code, appErr.Code)
}

func TestTokenServiceRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &models.JWTClaims{UserID: "u"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenService("secret", "").ValidateToken(signed)
	assert.Error(t, err)
}
