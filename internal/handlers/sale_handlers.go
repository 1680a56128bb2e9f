package handlers

import (
	"errors"
	"net/http"

	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/services"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

func (h *SaleHandler) respondError(c *gin.Context, handler string, err error) {
	switch {
	case errors.Is(err, services.ErrSaleNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
	case errors.Is(err, services.ErrSaleValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrConfirmationRequired):
		utils.RespondConfirmationRequired(c, "deleting sales")
	default:
		utils.LogError(err, handler+": Error from saleService")
		respondInternal(c, "Failed to process sale request.")
	}
}

// GetSales returns the filtered ledger.
func (h *SaleHandler) GetSales(c *gin.Context) {
	var filters models.SaleFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, "GetSales", err)
		return
	}

	sales, err := h.saleService.List(accountID(c), filters)
	if err != nil {
		h.respondError(c, "GetSales", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sales})
}

func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	sale, err := h.saleService.GetSaleByID(accountID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, "GetSaleByID", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req services.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateSale", err)
		return
	}

	sale, err := h.saleService.CreateSale(accountID(c), req)
	if err != nil {
		h.respondError(c, "CreateSale", err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// UpdateSale replaces the main fields of a sale. Cost and supplier are ignored here.
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	var req services.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateSale", err)
		return
	}

	sale, err := h.saleService.UpdateSale(accountID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, "UpdateSale", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) UpdateFinancials(c *gin.Context) {
	var req services.UpdateFinancialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateFinancials", err)
		return
	}

	sale, err := h.saleService.UpdateFinancials(accountID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, "UpdateFinancials", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// DeleteSale requires ?confirm=true.
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	if err := h.saleService.DeleteSale(accountID(c), c.Param("id"), confirmed(c)); err != nil {
		h.respondError(c, "DeleteSale", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDeleteSales deletes every listed sale or none. Body: {"ids": [...], "confirm": true}.
func (h *SaleHandler) BulkDeleteSales(c *gin.Context) {
	var req services.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "BulkDeleteSales", err)
		return
	}

	res, err := h.saleService.BulkDelete(accountID(c), req)
	if err != nil {
		h.respondError(c, "BulkDeleteSales", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
