package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/franchise-portal/internal/app/service"
	apperrors "github.com/ikkim/franchise-portal/internal/errors"
	"github.com/ikkim/franchise-portal/internal/middleware"
	"github.com/ikkim/franchise-portal/pkg/util"
)

type AgentController struct {
	agentService service.AgentService
}

func NewAgentController(agentService service.AgentService) *AgentController {
	return &AgentController{agentService: agentService}
}

type CreateAgentRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Region   string `json:"region"`
	Password string `json:"password" binding:"required"`
}

// CreateAgent POST /api/agents
func (ctrl *AgentController) CreateAgent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create agent request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "name, email and password are required")
		return
	}

	agent, err := ctrl.agentService.Create(service.CreateAgentInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Region:   req.Region,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAgentExists):
			apperrors.Conflict(c, apperrors.AgentExists, "An agent with this email already exists")
		case errors.Is(err, util.ErrWeakPassword):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		default:
			log.Error("Failed to create agent", err)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create agent")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Agent created",
		"agent":   agent,
	})
}

// ListAgents GET /api/agents?active=true
func (ctrl *AgentController) ListAgents(c *gin.Context) {
	agents, err := ctrl.agentService.List(c.Query("active") == "true")
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list agents", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"agents":  agents,
		"count":   len(agents),
	})
}

// DeleteAgent DELETE /api/agents/:id
func (ctrl *AgentController) DeleteAgent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.agentService.Delete(id); err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			apperrors.NotFound(c, apperrors.AgentNotFound, "Agent not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to delete agent", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Agent deleted"})
}
