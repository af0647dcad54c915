package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/redis"
	"github.com/ikkim/franchise-portal/pkg/util"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *serviceFixture, *redis.TokenBlacklist) {
	fx := setupServiceFixture(t)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	blacklist := redis.NewTokenBlacklist(rdb)

	svc := NewAuthService(fx.accountRepo, blacklist, testJWTSecret, 15*time.Minute, 7*24*time.Hour)

	hash, err := util.HashPassword("adminpass123")
	require.NoError(t, err)
	require.NoError(t, fx.accountRepo.Create(&model.Account{
		Email:        "admin@example.com",
		PasswordHash: hash,
		Name:         "Admin",
		Role:         model.RoleAdmin,
	}))
	return svc, fx, blacklist
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "admin@example.com", "adminpass123", nil},
		{"email is case-insensitive", "ADMIN@example.com", "adminpass123", nil},
		{"wrong password", "admin@example.com", "wrongpass", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "adminpass123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, tokens, err := svc.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.RoleAdmin, account.Role)
			assert.NotNil(t, account.LastLoginAt)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, account.ID, claims.UserID)
			assert.Equal(t, "admin", claims.Role)
			assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	_, tokens, err := svc.Login("admin@example.com", "adminpass123")
	require.NoError(t, err)

	fresh, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	orphan, err := util.GenerateTokenPair(9999, "gone@example.com", "agent", testJWTSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = svc.Refresh(orphan.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, blacklist := setupAuthServiceTest(t)
	_, tokens, err := svc.Login("admin@example.com", "adminpass123")
	require.NoError(t, err)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Logout(ctx, claims.ID, claims.TimeUntilExpiry()))

	revoked, err := blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_LogoutWithoutBlacklist(t *testing.T) {
	fx := setupServiceFixture(t)
	svc := NewAuthService(fx.accountRepo, nil, testJWTSecret, time.Minute, time.Hour)
	assert.NoError(t, svc.Logout(context.Background(), "jti", time.Minute))
}

func TestAuthService_GetAccountByID(t *testing.T) {
	svc, fx, _ := setupAuthServiceTest(t)
	account, err := fx.accountRepo.FindByEmail("admin@example.com")
	require.NoError(t, err)

	found, err := svc.GetAccountByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", found.Email)

	_, err = svc.GetAccountByID(9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
