package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/repository"
	"github.com/ikkim/franchise-portal/internal/metrics"
	"github.com/ikkim/franchise-portal/internal/websocket"
	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/ikkim/franchise-portal/pkg/util"
	"gorm.io/gorm"
)

const inviteTokenBytes = 24

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteExpired  = errors.New("invite has expired")
	ErrInviteUsed     = errors.New("invite has already been used")
)

type CreateProposalInput struct {
	FullName         string
	Email            string
	MobileNumber     string
	FranchisePinCode string
	Location         string
}

// ProposalView is a proposal together with the link the agent shares.
type ProposalView struct {
	model.Proposal
	InviteLink string `json:"inviteLink"`
}

type ProposalService interface {
	Create(accountID uint, input CreateProposalInput) (*ProposalView, error)
	ListForAgent(accountID uint) ([]ProposalView, error)
	ValidateInvite(token string) (*model.Proposal, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type proposalService struct {
	proposalRepo repository.ProposalRepository
	agentRepo    repository.AgentRepository
	events       EventPublisher
	formURL      string
	ttl          time.Duration
	now          func() time.Time
}

func NewProposalService(
	proposalRepo repository.ProposalRepository,
	agentRepo repository.AgentRepository,
	events EventPublisher,
	formURL string,
	ttl time.Duration,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		agentRepo:    agentRepo,
		events:       events,
		formURL:      formURL,
		ttl:          ttl,
		now:          time.Now,
	}
}

// InviteLink builds the application form URL that pre-fills the applicant's
// contact fields and carries the invite token.
func InviteLink(formURL string, p *model.Proposal) string {
	q := url.Values{}
	q.Set("email", p.Email)
	q.Set("fullName", p.FullName)
	if p.MobileNumber != "" {
		q.Set("mobileNumber", p.MobileNumber)
	}
	if p.FranchisePinCode != "" {
		q.Set("franchisePinCode", p.FranchisePinCode)
	}
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	q.Set("token", p.Token)

	sep := "?"
	if strings.Contains(formURL, "?") {
		sep = "&"
	}
	return formURL + sep + q.Encode()
}

func (s *proposalService) agentFor(accountID uint) (*model.Agent, error) {
	agent, err := s.agentRepo.FindByAccountID(accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return agent, nil
}

func (s *proposalService) Create(accountID uint, input CreateProposalInput) (*ProposalView, error) {
	agent, err := s.agentFor(accountID)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateToken(inviteTokenBytes)
	if err != nil {
		logger.Error("Failed to generate invite token", err)
		return nil, err
	}

	p := &model.Proposal{
		AgentID:          agent.ID,
		FullName:         strings.TrimSpace(input.FullName),
		Email:            strings.ToLower(strings.TrimSpace(input.Email)),
		MobileNumber:     strings.TrimSpace(input.MobileNumber),
		FranchisePinCode: strings.TrimSpace(input.FranchisePinCode),
		Location:         strings.TrimSpace(input.Location),
		Token:            token,
		Status:           model.ProposalOpen,
		ExpiresAt:        s.now().Add(s.ttl),
	}
	if err := s.proposalRepo.Create(p); err != nil {
		return nil, err
	}

	logger.Info("Proposal created", map[string]interface{}{
		"proposal_id": p.ID,
		"agent_id":    agent.ID,
		"expires_at":  p.ExpiresAt,
	})
	if s.events != nil {
		s.events.Publish(websocket.EventProposalCreated, map[string]interface{}{
			"id":       p.ID,
			"agentId":  agent.ID,
			"fullName": p.FullName,
			"email":    p.Email,
		})
	}
	return &ProposalView{Proposal: *p, InviteLink: InviteLink(s.formURL, p)}, nil
}

func (s *proposalService) ListForAgent(accountID uint) ([]ProposalView, error) {
	agent, err := s.agentFor(accountID)
	if err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.ListByAgent(agent.ID)
	if err != nil {
		return nil, err
	}

	views := make([]ProposalView, 0, len(proposals))
	for i := range proposals {
		views = append(views, ProposalView{
			Proposal:   proposals[i],
			InviteLink: InviteLink(s.formURL, &proposals[i]),
		})
	}
	return views, nil
}

func (s *proposalService) ValidateInvite(token string) (*model.Proposal, error) {
	p, err := s.proposalRepo.FindByToken(strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	switch {
	case p.Status == model.ProposalSubmitted:
		return nil, ErrInviteUsed
	case p.Status == model.ProposalExpired || !s.now().Before(p.ExpiresAt):
		return nil, ErrInviteExpired
	}
	return p, nil
}

func (s *proposalService) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.proposalRepo.ExpireBefore(now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.ProposalsExpired.Add(float64(n))
		logger.Info("Expired stale proposals", map[string]interface{}{
			"count": n,
		})
	}
	return n, nil
}
