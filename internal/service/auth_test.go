package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/testhelpers"
	"github.com/pageza/pantrychef/backend/internal/types"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	authSvc := service.NewAuthService(db, testSecret)
	ctx := context.Background()

	user, err := authSvc.Register(ctx, "chef", " Chef@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "chef@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	_, err = authSvc.Register(ctx, "chef2", "chef@example.com", "other")
	assert.ErrorIs(t, err, service.ErrUserExists)

	loggedIn, token, err := authSvc.Login(ctx, "CHEF@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims, err := authSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "chef", claims.Username)

	_, _, err = authSvc.Login(ctx, "chef@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = authSvc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	fx := testhelpers.SeedFixtures(t, db)
	authSvc := service.NewAuthService(db, testSecret)

	token, err := authSvc.GenerateToken(&fx.User)
	require.NoError(t, err)

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	now := time.Now()

	tests := []struct {
		name  string
		token string
	}{
		{"tampered", token[:len(token)-2] + "xx"},
		{"wrong secret", sign(&types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "pantrychef", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
			UserID:           fx.User.ID,
		}, jwt.SigningMethodHS256, []byte("another-secret"))},
		{"expired", sign(&types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "pantrychef", ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))},
			UserID:           fx.User.ID,
		}, jwt.SigningMethodHS256, []byte(testSecret))},
		{"foreign issuer", sign(&types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
			UserID:           fx.User.ID,
		}, jwt.SigningMethodHS256, []byte(testSecret))},
		{"no user", sign(&types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "pantrychef", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		}, jwt.SigningMethodHS256, []byte(testSecret))},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := authSvc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
