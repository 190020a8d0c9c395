package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tyrell35/Prospex/internal/auth"
	"github.com/tyrell35/Prospex/internal/config"
	"github.com/tyrell35/Prospex/internal/handler"
	middlewarepkg "github.com/tyrell35/Prospex/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UsersHandler
	Scrape    *handler.ScrapeHandler
	Leads     *handler.LeadsHandler
	Audit     *handler.AuditHandler
	CRM       *handler.CRMHandler
	Dashboard *handler.DashboardHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	// Worker callback; the audit worker authenticates out of band.
	e.POST("/audit-result", handlers.Audit.SaveResult)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/scrape", handlers.Scrape.Run, middlewarepkg.RateLimit("/scrape", cfg.RateLimitScrape))

	secured.GET("/leads", handlers.Leads.List)
	secured.GET("/leads/export", handlers.Leads.Export)
	secured.GET("/leads/:id", handlers.Leads.Get)
	secured.DELETE("/leads", handlers.Leads.Delete)

	secured.POST("/leads/:id/audit", handlers.Audit.Run)
	secured.POST("/leads/:id/push", handlers.CRM.Push)

	secured.GET("/stats", handlers.Dashboard.Stats)
	secured.GET("/activity", handlers.Dashboard.Activity)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
