package repository

import (
	"strings"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"gorm.io/gorm"
)

type AgentRepository interface {
	// CreateWithAccount stores the agent and its login in one transaction.
	CreateWithAccount(agent *model.Agent, account *model.Account) error
	FindByID(id uint) (*model.Agent, error)
	FindByAccountID(accountID uint) (*model.Agent, error)
	FindByEmail(email string) (*model.Agent, error)
	List(activeOnly bool) ([]model.Agent, error)
	Delete(id uint) error
}

type agentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) CreateWithAccount(agent *model.Agent, account *model.Account) error {
	logger.Debug("Creating agent with account", map[string]interface{}{
		"email": agent.Email,
	})

	agent.Email = strings.ToLower(strings.TrimSpace(agent.Email))
	account.Email = agent.Email

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		agent.AccountID = account.ID
		return tx.Create(agent).Error
	})
	if err != nil {
		logger.Error("Failed to create agent", err, map[string]interface{}{
			"email": agent.Email,
		})
		return err
	}

	logger.Debug("Agent created", map[string]interface{}{
		"agent_id":   agent.ID,
		"account_id": account.ID,
	})
	return nil
}

func (r *agentRepository) FindByID(id uint) (*model.Agent, error) {
	var agent model.Agent
	if err := r.db.First(&agent, id).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) FindByAccountID(accountID uint) (*model.Agent, error) {
	var agent model.Agent
	if err := r.db.Where("account_id = ?", accountID).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) FindByEmail(email string) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) List(activeOnly bool) ([]model.Agent, error) {
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var agents []model.Agent
	if err := query.Find(&agents).Error; err != nil {
		logger.Error("Failed to list agents", err)
		return nil, err
	}
	return agents, nil
}

// Delete soft-deletes the agent together with its login.
func (r *agentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var agent model.Agent
		if err := tx.First(&agent, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&agent).Update("active", false).Error; err != nil {
			return err
		}
		if err := tx.Delete(&agent).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Account{}, agent.AccountID).Error
	})
}
