package db

import (
	"testing"

	"github.com/ikkim/franchise-portal/config"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdmin(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	cfg := config.AdminConfig{Email: "Admin@Example.com", Password: "admin-pass-1", Name: "Admin"}

	require.NoError(t, SeedAdmin(testDB, cfg))
	require.NoError(t, SeedAdmin(testDB, cfg))

	var accounts []model.Account
	require.NoError(t, testDB.Find(&accounts).Error)
	require.Len(t, accounts, 1)
	assert.Equal(t, "admin@example.com", accounts[0].Email)
	assert.Equal(t, model.RoleAdmin, accounts[0].Role)
	assert.True(t, util.VerifyPassword(accounts[0].PasswordHash, "admin-pass-1"))
}

func TestSeedAdmin_Skipped(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, SeedAdmin(testDB, config.AdminConfig{Email: "admin@example.com"}))

	var count int64
	testDB.Model(&model.Account{}).Count(&count)
	assert.Equal(t, int64(0), count)

	err = SeedAdmin(testDB, config.AdminConfig{Email: "admin@example.com", Password: "short"})
	assert.ErrorIs(t, err, util.ErrWeakPassword)
}
