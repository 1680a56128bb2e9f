package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"travel_crm_backend/internal/services"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DeviceHeader identifies the browser or device owning a local slot.
const DeviceHeader = "X-Device-ID"

// maxSlotBytes bounds a single slot upload.
const maxSlotBytes = 5 << 20

type LocalDataHandler struct {
	localService services.LocalDataService
}

func NewLocalDataHandler(ls services.LocalDataService) *LocalDataHandler {
	return &LocalDataHandler{localService: ls}
}

func (h *LocalDataHandler) respondError(c *gin.Context, handler string, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownSlot):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Unknown local collection.", err.Error()))
	case errors.Is(err, services.ErrLocalValidation):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrConfirmationRequired):
		utils.RespondConfirmationRequired(c, "migrating local data clears it from this device")
	default:
		utils.LogError(err, handler+": Error from localDataService")
		respondInternal(c, "Failed to access local data.")
	}
}

// GetSlot handles GET /local/:slot.
func (h *LocalDataHandler) GetSlot(c *gin.Context) {
	payload, err := h.localService.GetSlot(c.Request.Context(), c.GetHeader(DeviceHeader), c.Param("slot"))
	if err != nil {
		h.respondError(c, "GetSlot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// ReplaceSlot handles PUT /local/:slot with a JSON array body.
func (h *LocalDataHandler) ReplaceSlot(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSlotBytes+1))
	if err != nil {
		respondBindError(c, "ReplaceSlot", err)
		return
	}
	if len(body) > maxSlotBytes {
		utils.RespondValidationFailed(c, "local collection is too large")
		return
	}

	payload, err := h.localService.ReplaceSlot(c.Request.Context(), c.GetHeader(DeviceHeader), c.Param("slot"), json.RawMessage(body))
	if err != nil {
		h.respondError(c, "ReplaceSlot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// Migrate handles POST /local/migrate?confirm=true.
func (h *LocalDataHandler) Migrate(c *gin.Context) {
	report, err := h.localService.Migrate(c.Request.Context(), accountID(c), c.GetHeader(DeviceHeader), confirmed(c))
	if err != nil {
		h.respondError(c, "Migrate", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
