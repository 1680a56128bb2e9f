package handlers

import (
	"errors"
	"net/http"

	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/services"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the aggregated views of the ledger.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

func (h *DashboardHandler) respondError(c *gin.Context, handler string, err error) {
	if errors.Is(err, services.ErrDateFormat) || errors.Is(err, services.ErrDashboardValidation) {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	utils.LogError(err, handler+": Error from dashboardService")
	respondInternal(c, "Failed to build dashboard.")
}

// GetOverview handles GET /dashboard?start_date=&end_date=&year=&reference=&horizon=.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, "GetOverview", err)
		return
	}

	summary, err := h.dashboardService.Overview(accountID(c), params)
	if err != nil {
		h.respondError(c, "GetOverview", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetMonthlyRevenue(c *gin.Context) {
	year := utils.ParseIntDefault(c.Query("year"), 0)
	buckets, err := h.dashboardService.MonthlyRevenue(accountID(c), year)
	if err != nil {
		h.respondError(c, "GetMonthlyRevenue", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": buckets})
}

func (h *DashboardHandler) GetUpcomingTrips(c *gin.Context) {
	horizon := utils.ParseIntDefault(c.Query("horizon"), 0)
	trips, err := h.dashboardService.UpcomingTrips(accountID(c), c.Query("reference"), horizon)
	if err != nil {
		h.respondError(c, "GetUpcomingTrips", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}
