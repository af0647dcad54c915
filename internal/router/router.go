package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/franchise-portal/config"
	"github.com/ikkim/franchise-portal/internal/app/controller"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController        *controller.AuthController
	applicationController *controller.ApplicationController
	agentController       *controller.AgentController
	proposalController    *controller.ProposalController
	pincodeController     *controller.PincodeController
	adminController       *controller.AdminController
	authMiddleware        *middleware.AuthMiddleware
	config                *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	applicationController *controller.ApplicationController,
	agentController *controller.AgentController,
	proposalController *controller.ProposalController,
	pincodeController *controller.PincodeController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:        authController,
		applicationController: applicationController,
		agentController:       agentController,
		proposalController:    proposalController,
		pincodeController:     pincodeController,
		adminController:       adminController,
		authMiddleware:        authMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Franchise portal API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticate := r.authMiddleware.Authenticate()
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)
	agentOnly := r.authMiddleware.RequireRole(model.RoleAgent)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", authenticate, r.authController.Logout)
			auth.GET("/me", authenticate, r.authController.Me)
		}

		// Public application form
		api.POST("/createApplication", r.applicationController.CreateApplication)
		api.GET("/getApplication/email/:email", r.applicationController.GetApplicationByEmail)
		api.GET("/invite/:token", r.proposalController.ValidateInvite)
		api.GET("/pincode/:code", r.pincodeController.Lookup)

		admin := api.Group("", authenticate, adminOnly)
		{
			admin.GET("/getApplication", r.applicationController.ListApplications)

			application := admin.Group("/application")
			{
				application.GET("/:id", r.applicationController.GetApplication)
				application.DELETE("/:id", r.applicationController.DeleteApplication)
				application.GET("/:id/documents/:field", r.applicationController.DocumentURL)
				application.POST("/approve", r.applicationController.Approve)
				application.POST("/reject", r.applicationController.Reject)
				application.POST("/agreement", r.applicationController.SendAgreement)
				application.POST("/payment/verify", r.applicationController.VerifyPayment)
			}

			agents := admin.Group("/agents")
			{
				agents.GET("", r.agentController.ListAgents)
				agents.POST("", r.agentController.CreateAgent)
				agents.DELETE("/:id", r.agentController.DeleteAgent)
			}

			dashboard := admin.Group("/admin")
			{
				dashboard.GET("/stats", r.adminController.Stats)
				dashboard.GET("/report", r.adminController.ExportApplications)
				dashboard.GET("/ws", r.adminController.Feed)
			}
		}

		agent := api.Group("/agent", authenticate, agentOnly)
		{
			agent.POST("/proposals", r.proposalController.CreateProposal)
			agent.GET("/proposals", r.proposalController.ListProposals)
			agent.GET("/applications", r.applicationController.ListAgentApplications)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
