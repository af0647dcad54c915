package repository

import (
	"time"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"gorm.io/gorm"
)

type ProposalRepository interface {
	Create(p *model.Proposal) error
	FindByToken(token string) (*model.Proposal, error)
	ListByAgent(agentID uint) ([]model.Proposal, error)
	MarkSubmitted(id, applicationID uint) error
	ExpireBefore(now time.Time) (int64, error)
}

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(p *model.Proposal) error {
	if err := r.db.Create(p).Error; err != nil {
		logger.Error("Failed to create proposal", err, map[string]interface{}{
			"agent_id": p.AgentID,
			"email":    p.Email,
		})
		return err
	}
	logger.Debug("Proposal created", map[string]interface{}{
		"proposal_id": p.ID,
		"agent_id":    p.AgentID,
	})
	return nil
}

func (r *proposalRepository) FindByToken(token string) (*model.Proposal, error) {
	var p model.Proposal
	if err := r.db.Preload("Agent").Where("token = ?", token).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepository) ListByAgent(agentID uint) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := r.db.Where("agent_id = ?", agentID).Order("created_at DESC").Find(&proposals).Error
	if err != nil {
		logger.Error("Failed to list proposals", err, map[string]interface{}{
			"agent_id": agentID,
		})
		return nil, err
	}
	return proposals, nil
}

func (r *proposalRepository) MarkSubmitted(id, applicationID uint) error {
	return r.db.Model(&model.Proposal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         model.ProposalSubmitted,
			"application_id": applicationID,
		}).Error
}

// ExpireBefore closes open proposals whose expiry has passed and returns how
// many were closed.
func (r *proposalRepository) ExpireBefore(now time.Time) (int64, error) {
	res := r.db.Model(&model.Proposal{}).
		Where("status = ? AND expires_at <= ?", model.ProposalOpen, now).
		Update("status", model.ProposalExpired)
	if res.Error != nil {
		logger.Error("Failed to expire proposals", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
