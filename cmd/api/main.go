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

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/application/service"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/config"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/database"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/events"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/memory"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/logger"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/handler"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/middleware"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/routes"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/printer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := openStorage(cfg, zlog)

	if cfg.Storage.SeedDemo {
		if err := database.SeedDemoData(ctx, repos, zlog); err != nil {
			zlog.Warn("failed to seed demo data", zap.Error(err))
		}
	}

	reports := openReportCache(ctx, cfg, zlog)
	publisher := openPublisher(cfg, zlog)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address, cfg.Printer.Timeout)
	if err != nil {
		zlog.Warn("failed to initialize printer, receipts will be spooled", zap.Error(err))
		thermalPrinter = printer.NewSpool()
	}

	// Initialize services
	drafts := service.NewSaleDraftStore(cfg.Draft.TTL)
	medicineService := service.NewMedicineService(repos, reports, cfg.Pharmacy.LowStockDefault, cfg.Pharmacy.ExpiryWarningDays, zlog)
	categoryService := service.NewCategoryService(repos.Categories, repos.Medicines)
	rackService := service.NewRackService(repos.Racks, repos.Medicines, reports, zlog)
	supplierService := service.NewSupplierService(repos.Suppliers, repos.Purchases, reports, zlog)
	purchaseService := service.NewPurchaseService(repos, reports, zlog)
	saleService := service.NewSaleService(repos, drafts, publisher, reports, cfg.Pharmacy.DefaultVATPercent, zlog)
	reportService := service.NewReportService(repos, reports, cfg.Redis.CacheTTL, cfg.Pharmacy.ExpiryWarningDays, zlog)
	receiptService := service.NewReceiptService(
		thermalPrinter,
		repos.Sales,
		entity.ReceiptHeader{
			StoreName: cfg.Pharmacy.StoreName,
			Address:   cfg.Pharmacy.Address,
			Phone:     cfg.Pharmacy.Phone,
		},
		cfg.Printer.Width,
		cfg.Printer.Type,
		zlog,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Medicine: handler.NewMedicineHandler(medicineService, rackService),
		Category: handler.NewCategoryHandler(categoryService),
		Rack:     handler.NewRackHandler(rackService),
		Supplier: handler.NewSupplierHandler(supplierService),
		Purchase: handler.NewPurchaseHandler(purchaseService),
		Sale:     handler.NewSaleHandler(saleService),
		Report:   handler.NewReportHandler(reportService),
		Receipt:  handler.NewReceiptHandler(receiptService),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
	go rateLimiter.Run(ctx, 5*time.Minute)
	go drafts.Run(ctx, time.Minute, zlog)
	go middleware.PurgeReplays(ctx, repos.Replays, time.Hour, zlog)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:         cfg,
		Replays:     repos.Replays,
		RateLimiter: rateLimiter,
		Log:         zlog,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		zlog.Warn("failed to close event publisher", zap.Error(err))
	}
	if closer, ok := reports.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			zlog.Warn("failed to close report cache", zap.Error(err))
		}
	}
}

func openStorage(cfg *config.Config, zlog *zap.Logger) *domainRepo.Repositories {
	if cfg.Storage.Driver != config.StoragePostgres {
		zlog.Info("using in-memory storage")
		return memory.New().Repositories()
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}
	return repository.Repositories(db)
}

func openReportCache(ctx context.Context, cfg *config.Config, zlog *zap.Logger) cache.ReportCache {
	if cfg.Redis.Addr == "" {
		return cache.NoopReportCache{}
	}
	rc := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		zlog.Warn("redis unreachable, report caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = rc.Close()
		return cache.NoopReportCache{}
	}
	return rc
}

func openPublisher(cfg *config.Config, zlog *zap.Logger) events.Publisher {
	if cfg.Events.URL == "" {
		return events.NoopPublisher{}
	}
	p, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange, cfg.Events.Queue, zlog)
	if err != nil {
		zlog.Warn("event broker unreachable, events disabled", zap.Error(err))
		return events.NoopPublisher{}
	}
	return p
}
