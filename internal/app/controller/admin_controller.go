package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/app/service"
	apperrors "github.com/ikkim/franchise-portal/internal/errors"
	"github.com/ikkim/franchise-portal/internal/middleware"
	ws "github.com/ikkim/franchise-portal/internal/websocket"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	appService    service.ApplicationService
	reportService service.ReportService
	hub           *ws.Hub
	upgrader      websocket.Upgrader
}

func NewAdminController(
	appService service.ApplicationService,
	reportService service.ReportService,
	hub *ws.Hub,
	allowedOrigins []string,
) *AdminController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &AdminController{
		appService:    appService,
		reportService: reportService,
		hub:           hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no Origin
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Stats GET /api/admin/stats
func (ctrl *AdminController) Stats(c *gin.Context) {
	stats, err := ctrl.appService.Stats(time.Now())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load stats", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// ExportApplications downloads matching applications as a workbook
// GET /api/admin/report?status=pending
func (ctrl *AdminController) ExportApplications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.ApplicationStatus(c.Query("status"))
	if status != "" && !validStatus(status) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown status")
		return
	}

	data, err := ctrl.reportService.ApplicationsWorkbook(model.ApplicationFilter{
		Status: status,
		Search: c.Query("search"),
	})
	if err != nil {
		log.Error("Failed to build applications report", err)
		apperrors.InternalError(c, "Failed to build report")
		return
	}

	filename := fmt.Sprintf("applications-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)

	log.Info("Applications report exported", map[string]interface{}{
		"status": status,
		"bytes":  len(data),
	})
}

// Feed upgrades to a websocket that streams application events
// GET /api/admin/ws?token=...
func (ctrl *AdminController) Feed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	accountID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, accountID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Admin feed connected", map[string]interface{}{
		"account_id": accountID,
	})
}
