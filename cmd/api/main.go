package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/tyrell35/Prospex/internal/audit"
	"github.com/tyrell35/Prospex/internal/auth"
	"github.com/tyrell35/Prospex/internal/config"
	"github.com/tyrell35/Prospex/internal/crm"
	"github.com/tyrell35/Prospex/internal/database"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/handler"
	middlewarepkg "github.com/tyrell35/Prospex/internal/middleware"
	"github.com/tyrell35/Prospex/internal/provider"
	"github.com/tyrell35/Prospex/internal/repository"
	"github.com/tyrell35/Prospex/internal/router"
	"github.com/tyrell35/Prospex/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	leadsRepo := repository.NewPGXLeadsRepository(pool)
	activityRepo := repository.NewPGXActivityRepository(pool)

	providerClient := &http.Client{Timeout: 90 * time.Second}
	providers := provider.Set{
		entity.SourceGoogleMaps: provider.NewOutscraperClient(cfg.Providers.OutscraperAPIKey, providerClient, cfg.ScrapeLimit),
		entity.SourceYelp:       provider.NewApifyYelpClient(cfg.Providers.ApifyAPIToken, providerClient, cfg.ScrapeLimit, ""),
		entity.SourceFresha:     provider.NewApifyFreshaClient(cfg.Providers.ApifyAPIToken, providerClient, ""),
	}

	workerClient := audit.NewWorkerClient(&http.Client{Timeout: 15 * time.Second}, cfg.AuditWorkerURL)
	ghlClient := crm.NewGHLClient(cfg.GHL.APIKey, cfg.GHL.LocationID, cfg.GHL.BaseURL, &http.Client{Timeout: 15 * time.Second})

	authService := service.NewAuthService(usersRepo, jwtManager)
	usersService := service.NewUsersService(usersRepo)
	ingestService := service.NewIngestService(providers, leadsRepo, activityRepo)
	leadsService := service.NewLeadsService(leadsRepo, activityRepo)
	auditsService := service.NewAuditsService(leadsRepo, workerClient, activityRepo)
	crmService := service.NewCRMService(leadsRepo, ghlClient, activityRepo)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUsersHandler(usersService),
		Scrape:    handler.NewScrapeHandler(ingestService),
		Leads:     handler.NewLeadsHandler(leadsService),
		Audit:     handler.NewAuditHandler(auditsService),
		CRM:       handler.NewCRMHandler(crmService),
		Dashboard: handler.NewDashboardHandler(leadsService, activityRepo),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
