package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/franchise-portal/internal/app/service"
	apperrors "github.com/ikkim/franchise-portal/internal/errors"
	"github.com/ikkim/franchise-portal/internal/middleware"
	"github.com/ikkim/franchise-portal/pkg/portalclient"
)

type ProposalController struct {
	proposalService service.ProposalService
}

func NewProposalController(proposalService service.ProposalService) *ProposalController {
	return &ProposalController{proposalService: proposalService}
}

type CreateProposalRequest struct {
	FullName         string `json:"fullName" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	MobileNumber     string `json:"mobileNumber"`
	FranchisePinCode string `json:"franchisePinCode"`
	Location         string `json:"location"`
}

// CreateProposal POST /api/agent/proposals
func (ctrl *ProposalController) CreateProposal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	accountID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid proposal request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "fullName and a valid email are required")
		return
	}

	view, err := ctrl.proposalService.Create(accountID, service.CreateProposalInput{
		FullName:         req.FullName,
		Email:            req.Email,
		MobileNumber:     req.MobileNumber,
		FranchisePinCode: req.FranchisePinCode,
		Location:         req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			apperrors.NotFound(c, apperrors.AgentNotFound, "Agent profile not found")
			return
		}
		log.Error("Failed to create proposal", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"proposal": view,
	})
}

// ListProposals GET /api/agent/proposals
func (ctrl *ProposalController) ListProposals(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	views, err := ctrl.proposalService.ListForAgent(accountID)
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			apperrors.NotFound(c, apperrors.AgentNotFound, "Agent profile not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to list proposals", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"proposals": views,
		"count":     len(views),
	})
}

// ValidateInvite is called by the form when opened through an invite link
// GET /api/invite/:token
func (ctrl *ProposalController) ValidateInvite(c *gin.Context) {
	p, err := ctrl.proposalService.ValidateInvite(c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			apperrors.NotFound(c, apperrors.InviteNotFound, "Invite not found")
		case errors.Is(err, service.ErrInviteExpired):
			apperrors.Gone(c, apperrors.InviteExpired, "This invite has expired")
		case errors.Is(err, service.ErrInviteUsed):
			apperrors.Gone(c, apperrors.InviteUsed, "This invite has already been used")
		default:
			middleware.GetLoggerFromContext(c).Error("Failed to validate invite", err)
			apperrors.InternalError(c, "")
		}
		return
	}

	invite := portalclient.Invite{
		Valid:            true,
		Email:            p.Email,
		FullName:         p.FullName,
		MobileNumber:     p.MobileNumber,
		FranchisePinCode: p.FranchisePinCode,
		ExpiresAt:        p.ExpiresAt,
	}
	if p.Agent != nil {
		invite.AgentName = p.Agent.Name
	}
	c.JSON(http.StatusOK, invite)
}
