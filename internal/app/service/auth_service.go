package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/ikkim/franchise-portal/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenRevoker blacklists access tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiry time.Duration) error
}

type AuthService interface {
	Login(email, password string) (*model.Account, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, tokenID string, remaining time.Duration) error
	GetAccountByID(id uint) (*model.Account, error)
}

type authService struct {
	accountRepo   repository.AccountRepository
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewAuthService(
	accountRepo repository.AccountRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		accountRepo:   accountRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

func (s *authService) Login(email, password string) (*model.Account, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: account not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(account.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(account)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := s.accountRepo.TouchLastLogin(account.ID, now); err != nil {
		logger.Warn("Failed to record last login", map[string]interface{}{
			"account_id": account.ID,
			"error":      err.Error(),
		})
	} else {
		account.LastLoginAt = &now
	}

	logger.Info("Login successful", map[string]interface{}{
		"account_id": account.ID,
		"role":       account.Role,
	})
	return account, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. Deleted accounts cannot
// refresh.
func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	account, err := s.accountRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(account)
}

func (s *authService) Logout(ctx context.Context, tokenID string, remaining time.Duration) error {
	if s.revoker == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, tokenID, remaining)
}

func (s *authService) GetAccountByID(id uint) (*model.Account, error) {
	account, err := s.accountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *authService) issue(account *model.Account) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		account.ID,
		account.Email,
		string(account.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, err
	}
	return tokens, nil
}
