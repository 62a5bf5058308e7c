package main

import (
	"fmt"
	"os"

	"github.com/ldelai/rapportino/internal/auth"
	"github.com/ldelai/rapportino/internal/config"
	"github.com/ldelai/rapportino/internal/db"
	"github.com/ldelai/rapportino/internal/excel"
	httphandler "github.com/ldelai/rapportino/internal/http"
	"github.com/ldelai/rapportino/internal/http/middleware"
	"github.com/ldelai/rapportino/internal/logger"
	"github.com/ldelai/rapportino/internal/pdf"
	"github.com/ldelai/rapportino/internal/repository"
	"github.com/ldelai/rapportino/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	var store repository.Store
	if cfg.DB.DSN != "" {
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		store = repository.NewGormStore(database)
	} else {
		log.Warn().Msg("DB_DSN not set, reports are kept in memory only")
		store = repository.NewMemoryStore()
	}

	reportService := service.NewReportService(store)
	dashboard := service.NewDashboard(store, cfg.Report.WeekStart)

	var tokenParser *auth.Parser
	if cfg.Auth.AccessSecret != "" {
		tokenParser = auth.NewParser(cfg.Auth.AccessSecret)
	} else {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, API is unauthenticated")
	}

	handler := httphandler.NewHandler(reportService, dashboard, excel.NewGenerator(), pdf.NewGenerator(), cfg.Report.LatestLimit, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting rapportino service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
