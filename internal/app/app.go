package app

import (
	"context"
	"errors"
	"fmt"
	"gw-transaction-ledger/internal/api/middlew"
	"gw-transaction-ledger/internal/kafka"
	"gw-transaction-ledger/internal/storage/postgres"
	"gw-transaction-ledger/pkg/logger"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gw-transaction-ledger/internal/api/handlers"
	"gw-transaction-ledger/internal/config"
	"gw-transaction-ledger/internal/db"
	"gw-transaction-ledger/internal/server"
	"gw-transaction-ledger/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	log           *slog.Logger
	server        *server.Server
	pool          *pgxpool.Pool
	logFile       *os.File
	cfg           *config.Config
	kafkaProducer kafka.Producer
}

func NewApp() (*App, error) {
	loggerWithFile := logger.NewLoggerWithFile("ledger.log")
	log := loggerWithFile.Logger
	log.Info("инициализация приложения")

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}
	log.Info("конфигурация загружена", slog.String("port", cfg.HTTPPort))

	log.Info("выполнение миграций базы данных")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), "migrations"); err != nil {
		return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	log.Info("миграции успешно применены")

	poolCfg := db.PoolConfig{
		MaxConns:          50,
		MinConns:          5,
		HealthCheckPeriod: 30 * time.Second,
		PoolTimeout:       5 * time.Second,
		RetryAttempts:     5,
		RetryDelay:        1 * time.Second,
		ApplicationName:   "transaction-ledger",
	}

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN(), poolCfg, log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	log.Info("подключение к базе данных установлено")

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("инициализация kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации kafka: %w", err)
		}
	} else {
		log.Info("kafka отключен в конфигурации")
		kafkaProducer = kafka.NewNoOpProducer(log)
	}

	srv := server.NewServer(cfg.HTTPPort)
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middleware.Recoverer)
	srv.RegisterSwagger()

	return &App{
		log:           log,
		server:        srv,
		pool:          pool,
		logFile:       loggerWithFile.LogFile,
		cfg:           cfg,
		kafkaProducer: kafkaProducer,
	}, nil
}

func (a *App) BuildDirectoryLayer() {
	txManager := service.NewPgxTxManager(a.pool)
	customerRepo := postgres.NewCustomerRepository(a.pool)
	productRepo := postgres.NewProductRepository(a.pool)

	directoryService := service.NewDirectoryService(customerRepo, productRepo, txManager)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)

	a.server.Router.Group(func(r chi.Router) {
		r.Use(middlew.RequireToken(a.cfg.Auth.APIToken))

		r.Post("/api/v1/customers", directoryHandler.CreateCustomer)
		r.Get("/api/v1/customers/{customerID}", directoryHandler.GetCustomer)
		r.Delete("/api/v1/customers/{customerID}", directoryHandler.DeleteCustomer)
		r.Post("/api/v1/products", directoryHandler.CreateProduct)
		r.Get("/api/v1/products/{productID}", directoryHandler.GetProduct)
		r.Delete("/api/v1/products/{productID}", directoryHandler.DeleteProduct)
	})

	a.log.Info("слой 'directory' собран и маршруты зарегистрированы")
}

func (a *App) BuildTransactionLayer() {
	txManager := service.NewPgxTxManager(a.pool)
	transactionRepo := postgres.NewTransactionRepository(a.pool)
	customerRepo := postgres.NewCustomerRepository(a.pool)
	productRepo := postgres.NewProductRepository(a.pool)

	ingestService := service.NewIngestService(transactionRepo, customerRepo, productRepo, txManager, a.kafkaProducer, a.log)
	transactionService := service.NewTransactionService(transactionRepo)

	uploadHandler := handlers.NewUploadHandler(ingestService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	a.server.Router.Group(func(r chi.Router) {
		r.Use(middlew.RequireToken(a.cfg.Auth.APIToken))

		r.Post("/api/v1/transactions/upload", uploadHandler.UploadTransactions)
		r.Get("/api/v1/transactions", transactionHandler.ListTransactions)
		r.Get("/api/v1/transactions/{transactionID}", transactionHandler.GetTransaction)
	})

	a.log.Info("слой 'transactions' собран и маршруты зарегистрированы")
}

func (a *App) BuildReportLayer() {
	transactionRepo := postgres.NewTransactionRepository(a.pool)
	customerRepo := postgres.NewCustomerRepository(a.pool)
	productRepo := postgres.NewProductRepository(a.pool)

	reportService := service.NewReportService(transactionRepo, customerRepo, productRepo)
	reportHandler := handlers.NewReportHandler(reportService)

	a.server.Router.Group(func(r chi.Router) {
		r.Use(middlew.RequireToken(a.cfg.Auth.APIToken))

		r.Get("/api/v1/reports/customer-summary/{customerID}", reportHandler.CustomerSummary)
		r.Get("/api/v1/reports/product-summary/{productID}", reportHandler.ProductSummary)
	})

	a.log.Info("слой 'reports' собран и маршруты зарегистрированы")
}

func (a *App) Run() error {
	a.log.Info("сервер запускается")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	if a.kafkaProducer != nil {
		a.log.Info("закрытие kafka producer")
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("закрытие файла логов")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}

	a.log.Info("приложение остановлено")
	return nil
}
