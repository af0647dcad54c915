package service

import (
	"errors"
	"strings"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/ikkim/franchise-portal/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrAgentExists   = errors.New("agent already exists for this email")
	ErrAgentNotFound = errors.New("agent not found")
)

type CreateAgentInput struct {
	Name     string
	Email    string
	Phone    string
	Region   string
	Password string
}

type AgentService interface {
	Create(input CreateAgentInput) (*model.Agent, error)
	List(activeOnly bool) ([]model.Agent, error)
	GetByAccountID(accountID uint) (*model.Agent, error)
	Delete(id uint) error
}

type agentService struct {
	agentRepo   repository.AgentRepository
	accountRepo repository.AccountRepository
}

func NewAgentService(agentRepo repository.AgentRepository, accountRepo repository.AccountRepository) AgentService {
	return &agentService{
		agentRepo:   agentRepo,
		accountRepo: accountRepo,
	}
}

// Create registers an agent together with the login it uses on the agent
// console.
func (s *agentService) Create(input CreateAgentInput) (*model.Agent, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	logger.Info("Creating agent", map[string]interface{}{
		"email":  email,
		"region": input.Region,
	})

	if err := util.CheckPasswordStrength(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.FindByEmail(email); err == nil {
		logger.Warn("Agent creation failed: email already used", map[string]interface{}{
			"email": email,
		})
		return nil, ErrAgentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	agent := &model.Agent{
		Name:   strings.TrimSpace(input.Name),
		Email:  email,
		Phone:  strings.TrimSpace(input.Phone),
		Region: strings.TrimSpace(input.Region),
		Active: true,
	}
	account := &model.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         agent.Name,
		Role:         model.RoleAgent,
	}

	if err := s.agentRepo.CreateWithAccount(agent, account); err != nil {
		if isDuplicate(err) {
			return nil, ErrAgentExists
		}
		return nil, err
	}

	logger.Info("Agent created", map[string]interface{}{
		"agent_id":   agent.ID,
		"account_id": account.ID,
	})
	return agent, nil
}

func (s *agentService) List(activeOnly bool) ([]model.Agent, error) {
	return s.agentRepo.List(activeOnly)
}

func (s *agentService) GetByAccountID(accountID uint) (*model.Agent, error) {
	agent, err := s.agentRepo.FindByAccountID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return agent, nil
}

func (s *agentService) Delete(id uint) error {
	if err := s.agentRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAgentNotFound
		}
		return err
	}
	logger.Info("Agent deleted", map[string]interface{}{
		"agent_id": id,
	})
	return nil
}
