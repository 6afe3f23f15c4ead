package main

import (
	"context"
	"os/signal"
	"syscall"

	"go-inventory-api/internal/cache"
	"go-inventory-api/internal/config"
	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/notify"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/database"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.New(logger.Config{
		Development:       cfg.IsDevelopment(),
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Warn(".env file not found, using system environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// 3. Seed default privileges, roles, and admin user
	if err := repository.SeedAccessControl(ctx, db); err != nil {
		log.Fatal("seeding access control failed", zap.Error(err))
	}
	created, err := repository.EnsureAdmin(ctx, db, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
	} else if created {
		log.Info("admin user created", zap.String("email", cfg.Admin.Email))
	}

	// 4. Setup WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := ws.NewHub(log)
	go wsHub.Run(hubCtx)

	// 5. Low-stock notifiers and report cache
	notifiers := notify.Multi{notify.NewLogNotifier(log), notify.NewHubNotifier(wsHub)}
	var kafkaNotifier *notify.KafkaNotifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier = notify.NewKafkaNotifier(notify.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.LowStockTopic))
		notifiers = append(notifiers, kafkaNotifier)
		log.Info("kafka low-stock notifier enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	reportCache := cache.NewNopReportCache()
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, report cache disabled", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			reportCache = cache.NewRedisReportCache(rdb, cfg.Redis.ReportCacheTTL)
			log.Info("report cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	productRepo := repository.NewProductRepo(db)
	changeRepo := repository.NewChangeRepo(db)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	services := handler.Services{
		Auth:    service.NewAuthService(userRepo, roleRepo, tokens),
		Users:   service.NewUserService(userRepo),
		Catalog: service.NewCatalogService(categoryRepo, supplierRepo),
		Stores:  service.NewStoreService(storeRepo),
		Inventory: service.NewInventoryService(
			db, productRepo, changeRepo, categoryRepo, supplierRepo, storeRepo,
			notifiers, reportCache, cfg.Inventory, log,
		),
		Reports:    service.NewReportService(productRepo, changeRepo, reportCache, cfg.Inventory.ReportWindowDays, log),
		Roles:      roleRepo,
		Privileges: privilegeRepo,
		Hub:        wsHub,
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handler.ErrorHandler(log),
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	handler.SetupRoutes(app, services)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	stopHub()
	if err := app.Shutdown(); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			log.Warn("closing kafka writer", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("server exited")
}
