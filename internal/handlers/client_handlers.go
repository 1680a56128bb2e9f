package handlers

import (
	"errors"
	"net/http"

	"travel_crm_backend/internal/services"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

func (h *ClientHandler) respondError(c *gin.Context, handler string, err error) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", ""))
	case errors.Is(err, services.ErrClientValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrConfirmationRequired):
		utils.RespondConfirmationRequired(c, "deleting a client")
	default:
		utils.LogError(err, handler+": Error from clientService")
		respondInternal(c, "Failed to process client request.")
	}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateClient", err)
		return
	}

	client, err := h.clientService.CreateClient(accountID(c), req)
	if err != nil {
		h.respondError(c, "CreateClient", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients lists the caller's clients, newest first, with optional ?search=.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.GetClients(accountID(c), optionalQuery(c, "search"))
	if err != nil {
		h.respondError(c, "GetClients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	client, err := h.clientService.GetClientByID(accountID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, "GetClientByID", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles updating a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateClient", err)
		return
	}

	client, err := h.clientService.UpdateClient(accountID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, "UpdateClient", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client. Requires ?confirm=true.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.DeleteClient(accountID(c), c.Param("id"), confirmed(c)); err != nil {
		h.respondError(c, "DeleteClient", err)
		return
	}
	c.Status(http.StatusNoContent)
}
