package handlers

import (
	"errors"
	"net/http"

	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/services"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ApprovalHandler exposes the administrator review queue.
type ApprovalHandler struct {
	approvalService services.ApprovalService
}

func NewApprovalHandler(as services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: as}
}

func (h *ApprovalHandler) respondError(c *gin.Context, handler string, err error) {
	switch {
	case errors.Is(err, services.ErrApprovalUnauthorized):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Only administrators can review approval requests.", ""))
	case errors.Is(err, services.ErrApprovalNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Approval request not found.", ""))
	case errors.Is(err, services.ErrApprovalAlreadyReviewed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Approval request was already reviewed.", err.Error()))
	default:
		utils.LogError(err, handler+": Error from approvalService")
		respondInternal(c, "Failed to process approval request.")
	}
}

// ListAll returns every request, newest first.
func (h *ApprovalHandler) ListAll(c *gin.Context) {
	reqs, err := h.approvalService.ListAll(accountID(c))
	if err != nil {
		h.respondError(c, "ListAll", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs})
}

// ListPending returns the review queue, oldest first.
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	reqs, err := h.approvalService.ListPending(accountID(c))
	if err != nil {
		h.respondError(c, "ListPending", err)
		return
	}
	counts, err := h.approvalService.Counts(accountID(c))
	if err != nil {
		h.respondError(c, "ListPending", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs, "counts": counts})
}

func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.decide(c, "Approve", h.approvalService.Approve)
}

func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.decide(c, "Reject", h.approvalService.Reject)
}

// decide accepts an optional {"admin_notes": "..."} body.
func (h *ApprovalHandler) decide(c *gin.Context, handler string, fn func(actorID, requestID string, note *string) (*models.ApprovalRequest, error)) {
	var req services.DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, handler, err)
			return
		}
	}

	decided, err := fn(accountID(c), c.Param("id"), req.Note)
	if err != nil {
		h.respondError(c, handler, err)
		return
	}
	c.JSON(http.StatusOK, decided)
}
