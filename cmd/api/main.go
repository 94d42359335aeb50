package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/certidao-digital/atendimento/internal/api/http"
	"github.com/certidao-digital/atendimento/internal/api/http/handlers"
	"github.com/certidao-digital/atendimento/internal/auth"
	"github.com/certidao-digital/atendimento/internal/codegen"
	"github.com/certidao-digital/atendimento/internal/config"
	"github.com/certidao-digital/atendimento/internal/events"
	"github.com/certidao-digital/atendimento/internal/notify"
	"github.com/certidao-digital/atendimento/internal/observability"
	"github.com/certidao-digital/atendimento/internal/persistence"
	"github.com/certidao-digital/atendimento/internal/repository"
	"github.com/certidao-digital/atendimento/internal/service"
	"github.com/certidao-digital/atendimento/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	snapshot, err := persistence.NewSnapshotFile(cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to prepare snapshot file", zap.Error(err))
	}
	ticketRepo, err := repository.NewTicketRepository(snapshot)
	if err != nil {
		logger.Fatal("failed to load ticket collection", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	var whatsapp notify.MessageSender
	if sender := notify.NewGatewayMessageSender(cfg.Notification); sender != nil {
		whatsapp = sender
	}
	notifier := notify.NewCompletionNotifier(
		notify.NewSMTPEmailSender(cfg.Notification),
		whatsapp,
		cfg.Notification.Timeout(),
		logger,
	)

	tokens := auth.NewDownloadTokenManager(cfg.Auth.DownloadTokenSecret, cfg.Auth.DownloadTokenTTL())

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CodeGenerator:  codegen.NewGenerator(),
		Notifier:       notifier,
		Tokens:         tokens,
		Dispatcher:     dispatcher,
		Logger:         logger,
		AttachmentsDir: cfg.Store.AttachmentsDir,
		PublicBaseURL:  cfg.App.PublicBaseURL,
	})

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Metrics: handlers.NewMetricsHandler(metrics),
		Tickets: handlers.NewTicketsHandler(ticketService, tokens),
		APIKey:  auth.NewAPIKeyMiddleware(cfg.Auth),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
