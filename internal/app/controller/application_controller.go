package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/service"
	apperrors "github.com/ikkim/franchise-portal/internal/errors"
	"github.com/ikkim/franchise-portal/internal/form"
	"github.com/ikkim/franchise-portal/internal/middleware"
	"github.com/ikkim/franchise-portal/pkg/portalclient"
)

const (
	msgApplicationSubmitted = "Application submitted successfully"
	msgApplicationExists    = "An application has already been submitted with this email"
	multipartMemory         = 32 << 20
)

type ApplicationController struct {
	applicationService service.ApplicationService
	maxUploadSize      int64
}

func NewApplicationController(applicationService service.ApplicationService, maxUploadSize int64) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		maxUploadSize:      maxUploadSize,
	}
}

type StatusUpdateRequest struct {
	ID      uint   `json:"id" binding:"required"`
	Remarks string `json:"remarks"`
}

type PaymentVerifyRequest struct {
	ID               uint   `json:"id" binding:"required"`
	PaymentReference string `json:"paymentReference" binding:"required"`
	Remarks          string `json:"remarks"`
}

// CreateApplication accepts the public application form
// POST /api/createApplication
func (ctrl *ApplicationController) CreateApplication(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.maxUploadSize)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		log.Warn("Invalid application body", map[string]interface{}{
			"error": err.Error(),
		})
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperrors.RespondWithError(c, http.StatusRequestEntityTooLarge, apperrors.UploadFileTooLarge, "Upload is too large")
			return
		}
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Expected a multipart form")
		return
	}
	defer c.Request.MultipartForm.RemoveAll()

	docs, err := readDocuments(c.Request.MultipartForm)
	if err != nil {
		log.Error("Failed to read uploaded documents", err)
		apperrors.BadRequest(c, apperrors.UploadFailed, "Could not read the uploaded documents")
		return
	}

	app, err := ctrl.applicationService.Create(c.Request.Context(), service.CreateApplicationInput{
		Values:    c.Request.MultipartForm.Value,
		Documents: docs,
	})
	if err != nil {
		var verr *service.ApplicationValidationError
		switch {
		case errors.As(err, &verr):
			apperrors.RespondWithValidationError(c, verr.Fields.Summary(), verr.Fields)
		case errors.Is(err, service.ErrApplicationExists):
			apperrors.Conflict(c, apperrors.ApplicationExists, msgApplicationExists)
		case errors.Is(err, form.ErrFileTooLarge):
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, form.ErrFileTooLarge.Error())
		case errors.Is(err, service.ErrInvalidDocument):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		case errors.Is(err, service.ErrInvalidApplication):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		default:
			log.Error("Failed to create application", err)
			apperrors.InternalError(c, "Failed to submit application. Please try again")
		}
		return
	}

	log.Info("Application submitted", map[string]interface{}{
		"application_id":   app.ID,
		"reference_number": app.ReferenceNumber,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         msgApplicationSubmitted,
		"referenceNumber": app.ReferenceNumber,
	})
}

// readDocuments loads every uploaded file. Files are read one byte past the
// size limit so oversized uploads are still detected.
func readDocuments(mf *multipart.Form) ([]service.DocumentUpload, error) {
	var docs []service.DocumentUpload
	for field, headers := range mf.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", field, err)
			}
			data, err := io.ReadAll(io.LimitReader(f, form.MaxFileSize+1))
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", field, err)
			}
			docs = append(docs, service.DocumentUpload{
				Field:       field,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}
	return docs, nil
}

// GetApplicationByEmail is the duplicate check used by the form on mount
// GET /api/getApplication/email/:email
func (ctrl *ApplicationController) GetApplicationByEmail(c *gin.Context) {
	app, err := ctrl.applicationService.GetByEmail(c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotFound) {
			apperrors.NotFound(c, apperrors.ApplicationNotFound, "No application found for this email")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to look up application", err)
		apperrors.InternalError(c, "")
		return
	}

	// public route: only what the duplicate check needs
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"application": portalclient.Application{
			ID:              app.ID,
			Email:           app.Email,
			FullName:        app.FullName,
			Status:          string(app.Status),
			ReferenceNumber: app.ReferenceNumber,
			CreatedAt:       app.CreatedAt,
		},
	})
}

// ListApplications lists applications for admins
// GET /api/getApplication?status=pending&page=1&limit=20&search=
func (ctrl *ApplicationController) ListApplications(c *gin.Context) {
	filter, ok := applicationFilter(c)
	if !ok {
		return
	}

	apps, total, err := ctrl.applicationService.List(filter)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list applications", err)
		apperrors.InternalError(c, "")
		return
	}

	respondApplicationPage(c, apps, total, filter)
}

// ListAgentApplications lists applications that came in through the
// caller's proposals
// GET /api/agent/applications
func (ctrl *ApplicationController) ListAgentApplications(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	filter, ok := applicationFilter(c)
	if !ok {
		return
	}

	apps, total, err := ctrl.applicationService.ListForAgent(accountID, filter)
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			apperrors.NotFound(c, apperrors.AgentNotFound, "Agent profile not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to list agent applications", err)
		apperrors.InternalError(c, "")
		return
	}

	respondApplicationPage(c, apps, total, filter)
}

func applicationFilter(c *gin.Context) (model.ApplicationFilter, bool) {
	filter := model.ApplicationFilter{
		Status: model.ApplicationStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   1,
		Limit:  20,
	}
	if filter.Status != "" && !validStatus(filter.Status) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown status")
		return filter, false
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "page must be a positive number")
			return filter, false
		}
		filter.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "limit must be a positive number")
			return filter, false
		}
		filter.Limit = n
	}
	return filter, true
}

func validStatus(s model.ApplicationStatus) bool {
	switch s {
	case model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusAgreement, model.StatusOneTimeFee:
		return true
	}
	return false
}

func respondApplicationPage(c *gin.Context, apps []model.Application, total int64, filter model.ApplicationFilter) {
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": apps,
		"count":        len(apps),
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

// GetApplication returns one application
// GET /api/application/:id
func (ctrl *ApplicationController) GetApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	app, err := ctrl.applicationService.GetByID(id)
	if err != nil {
		ctrl.respondError(c, err, "get application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// Approve POST /api/application/approve
func (ctrl *ApplicationController) Approve(c *gin.Context) {
	ctrl.updateStatus(c, ctrl.applicationService.Approve, "Application approved")
}

// Reject POST /api/application/reject
func (ctrl *ApplicationController) Reject(c *gin.Context) {
	ctrl.updateStatus(c, ctrl.applicationService.Reject, "Application rejected")
}

// SendAgreement POST /api/application/agreement
func (ctrl *ApplicationController) SendAgreement(c *gin.Context) {
	ctrl.updateStatus(c, ctrl.applicationService.SendAgreement, "Agreement stage recorded")
}

func (ctrl *ApplicationController) updateStatus(
	c *gin.Context,
	apply func(id, reviewerID uint, remarks string) (*model.Application, error),
	message string,
) {
	log := middleware.GetLoggerFromContext(c)

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid status update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "id is required")
		return
	}

	reviewerID, _ := middleware.GetUserID(c)
	app, err := apply(req.ID, reviewerID, req.Remarks)
	if err != nil {
		ctrl.respondError(c, err, "update application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"application": app,
	})
}

// VerifyPayment records the one-time fee
// POST /api/application/payment/verify
func (ctrl *ApplicationController) VerifyPayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PaymentVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid payment verification request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "id and paymentReference are required")
		return
	}

	reviewerID, _ := middleware.GetUserID(c)
	app, err := ctrl.applicationService.VerifyPayment(req.ID, reviewerID, req.PaymentReference, req.Remarks)
	if err != nil {
		ctrl.respondError(c, err, "verify payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Payment verified",
		"application": app,
	})
}

// DeleteApplication DELETE /api/application/:id
func (ctrl *ApplicationController) DeleteApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.applicationService.Delete(id); err != nil {
		ctrl.respondError(c, err, "delete application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application deleted"})
}

// DocumentURL returns a temporary download link for one document
// GET /api/application/:id/documents/:field?index=0
func (ctrl *ApplicationController) DocumentURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.DefaultQuery("index", "0"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "index must be a number")
		return
	}

	u, err := ctrl.applicationService.DocumentURL(c.Request.Context(), id, c.Param("field"), index)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			apperrors.NotFound(c, apperrors.ApplicationNoDocument, "Document not found")
			return
		}
		ctrl.respondError(c, err, "get document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": u})
}

func (ctrl *ApplicationController) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application not found")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		apperrors.Conflict(c, apperrors.ApplicationInvalidStatus, "The application's current status does not allow this change")
	default:
		middleware.GetLoggerFromContext(c).Error("Failed to "+action, err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
