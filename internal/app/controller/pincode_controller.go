package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/franchise-portal/internal/errors"
	"github.com/ikkim/franchise-portal/internal/middleware"
	"github.com/ikkim/franchise-portal/pkg/pincode"
)

type PincodeController struct {
	lookup pincode.Lookuper
}

func NewPincodeController(lookup pincode.Lookuper) *PincodeController {
	return &PincodeController{lookup: lookup}
}

// Lookup resolves a franchise PIN code to its city and state
// GET /api/pincode/:code
func (ctrl *PincodeController) Lookup(c *gin.Context) {
	code := c.Param("code")

	place, err := ctrl.lookup.Lookup(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, pincode.ErrInvalidCode):
			apperrors.BadRequest(c, apperrors.PincodeInvalid, "PIN code must be 6 digits")
		case errors.Is(err, pincode.ErrNotFound):
			apperrors.NotFound(c, apperrors.PincodeNotFound, "No location found for this PIN code")
		default:
			middleware.GetLoggerFromContext(c).Error("Pincode lookup failed", err, map[string]interface{}{
				"pincode": code,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "PIN code service is unavailable")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"place":   place,
	})
}
