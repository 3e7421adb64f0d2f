package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nurpe/contract-payments/internal/auth"
	"github.com/nurpe/contract-payments/internal/config"
	"github.com/nurpe/contract-payments/internal/db"
	"github.com/nurpe/contract-payments/internal/excel"
	httphandler "github.com/nurpe/contract-payments/internal/http"
	"github.com/nurpe/contract-payments/internal/http/middleware"
	"github.com/nurpe/contract-payments/internal/logger"
	"github.com/nurpe/contract-payments/internal/pdf"
	"github.com/nurpe/contract-payments/internal/repository"
	"github.com/nurpe/contract-payments/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	txManager := repository.NewTxManager(database)
	profileRepo := repository.NewProfileRepository(database)
	contractRepo := repository.NewContractRepository(database)
	jobRepo := repository.NewJobRepository(database)
	reportRepo := repository.NewReportRepository(database)

	profileService := service.NewProfileService(profileRepo)
	contractService := service.NewContractService(contractRepo, jobRepo)
	paymentService := service.NewPaymentService(txManager, profileRepo, jobRepo, pdf.NewGenerator(), cfg)
	adminService := service.NewAdminService(reportRepo, excel.NewGenerator(), cfg)

	var tokenParser middleware.TokenParser
	if cfg.Auth.AdminSecret != "" {
		tokenParser = auth.NewParser(cfg.Auth.AdminSecret)
	} else {
		log.Warn().Msg("ADMIN_JWT_SECRET is empty, admin routes are open")
	}

	handler := httphandler.NewHandler(contractService, paymentService, adminService, txManager, log)
	router, err := httphandler.NewRouter(
		handler,
		middleware.Profile(profileService),
		middleware.Auth(tokenParser),
		cfg.Environment,
		cfg.HTTP.AllowOrigins,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", addr).Msg("starting payments service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
