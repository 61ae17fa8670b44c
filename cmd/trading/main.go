package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	accountapp "github.com/loganrenz/trade-io-sub000/internal/account/application"
	accountdomain "github.com/loganrenz/trade-io-sub000/internal/account/domain"
	accountpersistence "github.com/loganrenz/trade-io-sub000/internal/account/infrastructure/persistence"
	accounthttp "github.com/loganrenz/trade-io-sub000/internal/account/interfaces/http"
	"github.com/loganrenz/trade-io-sub000/internal/audit"
	execdomain "github.com/loganrenz/trade-io-sub000/internal/execution/domain"
	ledgerapp "github.com/loganrenz/trade-io-sub000/internal/ledger/application"
	ledgerdomain "github.com/loganrenz/trade-io-sub000/internal/ledger/domain"
	ledgerpersistence "github.com/loganrenz/trade-io-sub000/internal/ledger/infrastructure/persistence"
	ledgerhttp "github.com/loganrenz/trade-io-sub000/internal/ledger/interfaces/http"
	marketinfra "github.com/loganrenz/trade-io-sub000/internal/marketdata/infrastructure"
	markethttp "github.com/loganrenz/trade-io-sub000/internal/marketdata/interfaces/http"
	orderapp "github.com/loganrenz/trade-io-sub000/internal/order/application"
	orderdomain "github.com/loganrenz/trade-io-sub000/internal/order/domain"
	orderpersistence "github.com/loganrenz/trade-io-sub000/internal/order/infrastructure/persistence"
	orderhttp "github.com/loganrenz/trade-io-sub000/internal/order/interfaces/http"
	positionapp "github.com/loganrenz/trade-io-sub000/internal/position/application"
	positiondomain "github.com/loganrenz/trade-io-sub000/internal/position/domain"
	positionpersistence "github.com/loganrenz/trade-io-sub000/internal/position/infrastructure/persistence"
	positionhttp "github.com/loganrenz/trade-io-sub000/internal/position/interfaces/http"
	"github.com/loganrenz/trade-io-sub000/pkg/cache"
	"github.com/loganrenz/trade-io-sub000/pkg/config"
	"github.com/loganrenz/trade-io-sub000/pkg/db"
	"github.com/loganrenz/trade-io-sub000/pkg/idgen"
	"github.com/loganrenz/trade-io-sub000/pkg/logger"
	"github.com/loganrenz/trade-io-sub000/pkg/metrics"
	"github.com/loganrenz/trade-io-sub000/pkg/middleware"
)

var configPath = flag.String("config", "configs/trading/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	// 3. ID 生成器
	if err := idgen.Init(0); err != nil {
		logger.Fatal(ctx, "failed to init id generator", "error", err)
	}

	// 4. 指标
	m := metrics.New(cfg.ServiceName)
	if err := m.Register(); err != nil {
		logger.Fatal(ctx, "failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "failed to start metrics server", "error", err)
		}
	}

	// 5. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()

	// 开发环境自动建表
	if cfg.Environment == "dev" {
		err := database.AutoMigrate(
			&accountdomain.Account{},
			&orderdomain.Order{},
			&orderdomain.OrderEvent{},
			&positiondomain.Execution{},
			&positiondomain.Position{},
			&ledgerdomain.LedgerAccount{},
			&ledgerdomain.LedgerEntry{},
		)
		if err != nil {
			logger.Fatal(ctx, "failed to migrate database", "error", err)
		}
	}

	// 6. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", "error", err)
	}
	defer redisCache.Close()

	// 7. 审计
	auditor := audit.NewNop()
	if cfg.Kafka.Enabled {
		auditor = audit.NewKafkaRecorder(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
	}
	defer auditor.Close()

	// 8. 行情协作方
	quoteStore := marketinfra.NewRedisQuoteStore(redisCache)
	calendar, err := marketinfra.NewClockCalendar(cfg.Trading.MarketOpen, cfg.Trading.MarketClose, cfg.Trading.AlwaysOpen)
	if err != nil {
		logger.Fatal(ctx, "failed to init venue calendar", "error", err)
	}
	symbols := marketinfra.NewStaticSymbolDirectory(cfg.Trading.TradeableSymbols)

	// 9. 仓储与应用服务
	ledgerRepo := ledgerpersistence.NewLedgerRepository(database.DB)
	ledgerService := ledgerapp.NewLedgerService(ledgerRepo, database)

	executionRepo := positionpersistence.NewExecutionRepository(database.DB)
	positionRepo := positionpersistence.NewPositionRepository(database.DB)
	positionService := positionapp.NewPositionService(executionRepo, positionRepo)

	accountRepo := accountpersistence.NewAccountRepository(database.DB)
	accountService := accountapp.NewAccountService(accountRepo, ledgerService, database)

	simulator := execdomain.NewSimulator(execdomain.Config{
		SlippageRate:       decimal.NewFromFloat(cfg.Trading.SlippageRate),
		CommissionPerTrade: decimal.NewFromFloat(cfg.Trading.CommissionPerTrade),
		CommissionPerShare: decimal.NewFromFloat(cfg.Trading.CommissionPerShare),
	})

	orderRepo := orderpersistence.NewOrderRepository(database.DB)
	orderEventRepo := orderpersistence.NewOrderEventRepository(database.DB)
	orderService := orderapp.NewOrderService(orderapp.Deps{
		Orders:            orderRepo,
		Events:            orderEventRepo,
		Accounts:          accountService,
		Positions:         positionService,
		Ledger:            ledgerService,
		Pricing:           quoteStore,
		Calendar:          calendar,
		Symbols:           symbols,
		Simulator:         simulator,
		Tx:                database,
		Auditor:           auditor,
		Metrics:           m,
		BuyingPowerBuffer: decimal.NewFromFloat(cfg.Trading.BuyingPowerBuffer),
	})

	// 10. HTTP 服务
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
	)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	api := engine.Group("/api/v1")
	accounthttp.NewHandler(accountService).RegisterRoutes(api)
	orderhttp.NewHandler(orderService).RegisterRoutes(api)
	positionhttp.NewHandler(positionService).RegisterRoutes(api)
	ledgerhttp.NewHandler(ledgerService).RegisterRoutes(api)
	markethttp.NewHandler(quoteStore, orderService).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server failed", "error", err)
		}
	}()

	// 11. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown failed", "error", err)
	}
	logger.Info(ctx, "server stopped")
}
