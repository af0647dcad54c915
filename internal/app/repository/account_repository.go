package repository

import (
	"strings"
	"time"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(account *model.Account) error
	FindByID(id uint) (*model.Account, error)
	FindByEmail(email string) (*model.Account, error)
	TouchLastLogin(id uint, at time.Time) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *model.Account) error {
	logger.Debug("Creating account in database", map[string]interface{}{
		"email": account.Email,
		"role":  account.Role,
	})

	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	if err := r.db.Create(account).Error; err != nil {
		logger.Error("Failed to create account in database", err, map[string]interface{}{
			"email": account.Email,
		})
		return err
	}
	return nil
}

func (r *accountRepository) FindByID(id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(email string) (*model.Account, error) {
	var account model.Account
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&account).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find account by email", err, map[string]interface{}{
				"email": email,
			})
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&model.Account{}).Where("id = ?", id).Update("last_login_at", at).Error
}
