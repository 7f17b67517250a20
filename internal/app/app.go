package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	emailadapter "github.com/Realquiid/vendopage/internal/adapter/email"
	mongoadapter "github.com/Realquiid/vendopage/internal/adapter/mongo"
	natsadapter "github.com/Realquiid/vendopage/internal/adapter/nats"
	paymentadapter "github.com/Realquiid/vendopage/internal/adapter/payment"
	redisadapter "github.com/Realquiid/vendopage/internal/adapter/redis"
	miniostorage "github.com/Realquiid/vendopage/internal/adapter/storage/minio"
	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/platform/metrics"
	httpport "github.com/Realquiid/vendopage/internal/port/http"
	"github.com/Realquiid/vendopage/internal/service"
	"github.com/Realquiid/vendopage/internal/worker"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// uploadConsumer is the slice of worker.UploadConsumer the app drives.
type uploadConsumer interface {
	Start() error
	Stop() error
}

type App struct {
	cfg *config.Config
	log logger.Logger

	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn

	httpServer *httpport.Server
	consumer   uploadConsumer
	cleanup    *worker.CleanupRunner
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Infof("starting vendopage (env %s)", cfg.Env)

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	publisher, err := natsadapter.NewPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create nats publisher: %w", err)
	}

	storage, err := miniostorage.NewStorage(ctx, cfg.MinIO, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	sellerRepo := mongoadapter.NewSellerRepository(mongoClient, cfg.MongoDB)
	listingRepo := mongoadapter.NewListingRepository(mongoClient, cfg.MongoDB)
	resetRepo := redisadapter.NewPasswordResetRepository(redisClient)
	sellerCache := redisadapter.NewSellerCache(redisClient)
	mailer := emailadapter.NewGomailSender(cfg.SMTP, log)
	flutterwave := paymentadapter.NewClient(cfg.Payment)

	sellerSvc := service.NewSellerService(sellerRepo, resetRepo, mailer, storage, cfg.Auth, log)
	listingSvc := service.NewListingService(listingRepo, sellerRepo, sellerCache, publisher, cfg.Uploader.Subject, log)
	uploadSvc := service.NewUploadTaskService(listingRepo, storage, cfg.Uploader.MaxAttempts, m, log)
	cleanupSvc := service.NewCleanupService(listingRepo, cfg.Cleanup.GraceWindow, m, log)
	paymentSvc := service.NewPaymentService(sellerRepo, flutterwave, cfg.Payment, m, log)
	adminSvc := service.NewAdminService(sellerRepo, listingRepo, log)

	handlers := httpport.Handlers{
		Sellers:  httpport.NewSellerHandler(sellerSvc, log),
		Listings: httpport.NewListingHandler(listingSvc, log),
		Admin:    httpport.NewAdminHandler(adminSvc, log),
		Payments: httpport.NewPaymentHandler(paymentSvc, log),
	}
	router := httpport.NewRouter(handlers, cfg.Auth.JWTSecret, m, registry, log)

	return &App{
		cfg:         cfg,
		log:         log,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
		httpServer:  httpport.NewServer(cfg.HTTPServer, router, log),
		consumer:    worker.NewUploadConsumer(natsConn, publisher, uploadSvc, cfg.Uploader, log),
		cleanup:     worker.NewCleanupRunner(cleanupSvc, cfg.Cleanup, log),
	}, nil
}

// Run starts the consumer, the cleanup loop, and the HTTP server, then blocks
// until SIGINT/SIGTERM and shuts everything down.
func (a *App) Run() error {
	if err := a.consumer.Start(); err != nil {
		return err
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	go a.cleanup.Run(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// A signal and a server failure take the same teardown path.
	var runErr error
	select {
	case sig := <-quit:
		a.log.Infof("received signal %s, shutting down", sig)
	case runErr = <-errCh:
		a.log.Errorf("http server failed: %v", runErr)
	}

	cancelWorkers()
	a.shutdown()
	return runErr
}

func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful)
	defer cancel()

	if err := a.consumer.Stop(); err != nil {
		a.log.Errorf("failed to drain upload consumer: %v", err)
	}
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Errorf("http server shutdown failed: %v", err)
	}

	a.natsConn.Close()
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("failed to close redis client: %v", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("failed to disconnect mongodb: %v", err)
		}
	}

	a.log.Info("shutdown complete")
}
