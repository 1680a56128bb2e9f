package router

import (
	"travel_crm_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes sets up sign-up and sign-in.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.Register)
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes sets up the routes that need a session but not approval.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.Me)
}

// SetupInstallmentRoutes sets up the card installment calculator.
func SetupInstallmentRoutes(apiGroup *gin.RouterGroup, installmentHandler *handlers.InstallmentHandler) {
	apiGroup.POST("/installments/quote", installmentHandler.Quote)
}

// SetupLocalSlotRoutes sets up the per-device fallback collections.
func SetupLocalSlotRoutes(apiGroup *gin.RouterGroup, localHandler *handlers.LocalDataHandler) {
	localRoutes := apiGroup.Group("/local")
	{
		localRoutes.GET("/:slot", localHandler.GetSlot)
		localRoutes.PUT("/:slot", localHandler.ReplaceSlot)
	}
}

// SetupLocalMigrationRoutes sets up the move of local data into the record store.
func SetupLocalMigrationRoutes(approvedGroup *gin.RouterGroup, localHandler *handlers.LocalDataHandler) {
	approvedGroup.POST("/local/migrate", localHandler.Migrate)
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(approvedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := approvedGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupSaleRoutes sets up the sales ledger routes.
func SetupSaleRoutes(approvedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := approvedGroup.Group("/sales")
	{
		saleRoutes.POST("", saleHandler.CreateSale)
		saleRoutes.GET("", saleHandler.GetSales)
		saleRoutes.POST("/bulk-delete", saleHandler.BulkDeleteSales)
		saleRoutes.GET("/:id", saleHandler.GetSaleByID)
		saleRoutes.PUT("/:id", saleHandler.UpdateSale)
		saleRoutes.PATCH("/:id/financials", saleHandler.UpdateFinancials)
		saleRoutes.DELETE("/:id", saleHandler.DeleteSale)
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(approvedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboardRoutes := approvedGroup.Group("/dashboard")
	{
		dashboardRoutes.GET("", dashboardHandler.GetOverview)
		dashboardRoutes.GET("/monthly-revenue", dashboardHandler.GetMonthlyRevenue)
		dashboardRoutes.GET("/upcoming-trips", dashboardHandler.GetUpcomingTrips)
	}
}

// SetupApprovalRoutes sets up the administrator review queue.
func SetupApprovalRoutes(adminGroup *gin.RouterGroup, approvalHandler *handlers.ApprovalHandler) {
	approvalRoutes := adminGroup.Group("/approvals")
	{
		approvalRoutes.GET("", approvalHandler.ListAll)
		approvalRoutes.GET("/pending", approvalHandler.ListPending)
		approvalRoutes.POST("/:id/approve", approvalHandler.Approve)
		approvalRoutes.POST("/:id/reject", approvalHandler.Reject)
	}
}
