package db

import (
	"errors"
	"strings"

	"github.com/ikkim/franchise-portal/config"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/ikkim/franchise-portal/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table the portal owns, in creation order.
var Models = []interface{}{
	&model.Account{},
	&model.Agent{},
	&model.Proposal{},
	&model.Application{},
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs migrations against the given handle
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(Models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(Models),
	})
	return nil
}

// SeedAdmin creates the configured admin account if it does not exist yet.
// An empty password disables seeding.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Password == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin seed", nil)
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	var existing model.Account
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logger.Info("Admin account already seeded, skipping...", map[string]interface{}{
			"email": email,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := util.CheckPasswordStrength(cfg.Password); err != nil {
		return err
	}
	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &model.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         cfg.Name,
		Role:         model.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		logger.Error("Failed to seed admin account", err)
		return err
	}

	logger.Info("Admin account seeded", map[string]interface{}{
		"account_id": admin.ID,
		"email":      email,
	})
	return nil
}
