package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/repository"
	"github.com/mamadbah2/stockbook/internal/repository/mongodb"
	"github.com/mamadbah2/stockbook/internal/scheduler"
	"github.com/mamadbah2/stockbook/internal/server/handlers"
	"github.com/mamadbah2/stockbook/internal/server/router"
	commandsvc "github.com/mamadbah2/stockbook/internal/service/commands"
	ledgersvc "github.com/mamadbah2/stockbook/internal/service/ledger"
	reportingsvc "github.com/mamadbah2/stockbook/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/stockbook/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/stockbook/pkg/clients/whatsapp"
	"github.com/mamadbah2/stockbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := repository.NewStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init ledger store", zap.Error(err))
	}

	session, err := ledgersvc.NewSession(context.Background(), store, baseLogger.Named("svc.ledger"))
	if err != nil {
		baseLogger.Fatal("failed to load ledger", zap.Error(err))
	}

	reportingSvc := reportingsvc.NewService(baseLogger.Named("svc.reporting"))
	ledgerHandler := handlers.NewLedgerHandler(session, baseLogger.Named("handlers.ledger"))

	var schedOpts []scheduler.Option

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		schedOpts = append(schedOpts, scheduler.WithSnapshots(mongoRepo))
		baseLogger.Info("report snapshots enabled", zap.String("db", cfg.MongoDB.DBName))
	}

	var webhookHandler *handlers.WebhookHandler
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(session, reportingSvc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		if cfg.WhatsApp.ReportRecipient != "" {
			schedOpts = append(schedOpts, scheduler.WithNotifier(messagingSvc, cfg.WhatsApp.ReportRecipient))
		}
		baseLogger.Info("whatsapp commands enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, chat commands disabled")
	}

	engine := router.New(ledgerHandler, webhookHandler, baseLogger.Named("router"))

	if len(schedOpts) > 0 {
		sched, err := scheduler.NewScheduler(cfg.Reporting, session, reportingSvc, baseLogger.Named("scheduler"), schedOpts...)
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
