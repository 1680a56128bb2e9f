package router

import (
	"database/sql"

	"travel_crm_backend/internal/handlers"
	"travel_crm_backend/internal/localstore"
	"travel_crm_backend/internal/middleware"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/internal/services"
	"travel_crm_backend/internal/session"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived resources the routes are built on.
type Dependencies struct {
	DB         *sql.DB
	Sessions   session.Store
	LocalStore localstore.Store
	Tokens     *utils.TokenManager
	AgencyName string
}

// Services is the wired service layer, returned so main can run startup tasks.
type Services struct {
	Auth AuthBootstrapper
}

// AuthBootstrapper is the startup hook main needs from the auth service.
type AuthBootstrapper interface {
	EnsureAdmin(name, email, password string) error
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) Services {
	// Initialize Repositories
	accountRepo := repositories.NewAccountRepository(deps.DB)
	approvalRepo := repositories.NewApprovalRepository(deps.DB)
	clientRepo := repositories.NewClientRepository(deps.DB)
	saleRepo := repositories.NewSaleRepository(deps.DB)

	// Initialize Services
	authService := services.NewAuthService(accountRepo, approvalRepo, deps.DB, deps.Tokens, deps.Sessions)
	approvalService := services.NewApprovalService(approvalRepo, accountRepo, deps.DB)
	clientService := services.NewClientService(clientRepo, deps.DB)
	saleService := services.NewSaleService(saleRepo, clientRepo, deps.DB)
	dashboardService := services.NewDashboardService(saleRepo, clientRepo, approvalService)
	installmentService := services.NewInstallmentService(deps.AgencyName)
	localService := services.NewLocalDataService(deps.LocalStore, clientRepo, saleRepo, deps.DB)

	// Initialize Handlers
	h := Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Approval:    handlers.NewApprovalHandler(approvalService),
		Client:      handlers.NewClientHandler(clientService),
		Sale:        handlers.NewSaleHandler(saleService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
		Installment: handlers.NewInstallmentHandler(installmentService),
		LocalData:   handlers.NewLocalDataHandler(localService),
	}

	Register(engine, h, Guards{
		Auth:     middleware.AuthMiddleware(deps.Tokens, deps.Sessions),
		Approved: middleware.ApprovedAccountMiddleware(accountRepo),
		Admin:    middleware.AdminOnlyMiddleware(),
	})

	return Services{Auth: authService}
}

// Handlers groups every HTTP handler.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Approval    *handlers.ApprovalHandler
	Client      *handlers.ClientHandler
	Sale        *handlers.SaleHandler
	Dashboard   *handlers.DashboardHandler
	Installment *handlers.InstallmentHandler
	LocalData   *handlers.LocalDataHandler
}

// Guards are the access-control middlewares, layered in this order.
type Guards struct {
	Auth     gin.HandlerFunc
	Approved gin.HandlerFunc
	Admin    gin.HandlerFunc
}

// Register mounts all routes under /api/v1.
func Register(engine *gin.Engine, h Handlers, g Guards) {
	apiV1 := engine.Group("/api/v1")

	// Public routes: sign-up/in, the calculator and the device-local fallback.
	SetupPublicAuthRoutes(apiV1.Group("/auth"), h.Auth)
	SetupInstallmentRoutes(apiV1, h.Installment)
	SetupLocalSlotRoutes(apiV1, h.LocalData)

	authenticated := apiV1.Group("")
	authenticated.Use(g.Auth)
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), h.Auth)

		approved := authenticated.Group("")
		approved.Use(g.Approved)
		{
			SetupClientRoutes(approved, h.Client)
			SetupSaleRoutes(approved, h.Sale)
			SetupDashboardRoutes(approved, h.Dashboard)
			SetupLocalMigrationRoutes(approved, h.LocalData)

			admin := approved.Group("")
			admin.Use(g.Admin)
			SetupApprovalRoutes(admin, h.Approval)
		}
	}
}
