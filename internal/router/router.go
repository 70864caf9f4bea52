package router

import (
	"time"

	"github.com/alexconectado/pdv-caixa/internal/config"
	"github.com/alexconectado/pdv-caixa/internal/handler"
	"github.com/alexconectado/pdv-caixa/internal/middleware"
	"github.com/alexconectado/pdv-caixa/internal/repository"
	"github.com/alexconectado/pdv-caixa/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	cashRepo := repository.NewCashRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, auditRepo, cfg)
	cashSvc := service.NewCashService(cashRepo, saleRepo, auditRepo)
	saleSvc := service.NewSaleService(saleRepo, cashSvc, cashRepo, auditRepo)
	reportSvc := service.NewReportService(saleRepo, cashRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, cfg)
	usersH := handler.NewUsersHandler(authSvc)
	cashH := handler.NewCashHandler(cashSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	auditH := handler.NewAuditHandler(auditRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/logout", authH.Logout)
	}

	// Protected routes. CSRF skips safe methods, so applying it at group
	// level covers every state-mutating route uniformly.
	sessionMW := middleware.SessionAuth(cfg.SessionSecret, userRepo)
	v1 := r.Group("/v1", sessionMW, middleware.CSRF())
	{
		cash := v1.Group("/cash")
		{
			cash.GET("/status", cashH.Status)
			cash.POST("/open", cashH.Open)
			cash.POST("/close", cashH.Close)
			cash.GET("/:id/receipt", cashH.Receipt)
		}

		sales := v1.Group("/sales")
		{
			sales.GET("", salesH.List)
			sales.POST("", salesH.Record)
			sales.GET("/:id/receipt", salesH.Receipt)
			// Destructive operations — admin only
			sales.POST("/:id/cancel", middleware.RequireRole("admin"), salesH.Cancel)
			sales.DELETE("/:id", middleware.RequireRole("admin"), salesH.Delete)
		}

		v1.GET("/reports", reportsH.Report)
		v1.GET("/reports/export/csv", reportsH.ExportCSV)
		v1.GET("/reports/export/pdf", reportsH.ExportPDF)
		v1.GET("/dashboard", reportsH.Dashboard)

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}

		v1.GET("/audit", middleware.RequireRole("admin"), auditH.List)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
