package handlers

import (
	"errors"
	"net/http"

	"travel_crm_backend/internal/core"
	"travel_crm_backend/internal/services"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type InstallmentHandler struct {
	installmentService services.InstallmentService
}

func NewInstallmentHandler(is services.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: is}
}

// Quote computes the 1x..12x card schedule and its shareable text.
func (h *InstallmentHandler) Quote(c *gin.Context) {
	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "Quote", err)
		return
	}

	quote, err := h.installmentService.Quote(req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "Quote: Error from installmentService.Quote")
		respondInternal(c, "Failed to compute installments.")
		return
	}
	c.JSON(http.StatusOK, quote)
}
