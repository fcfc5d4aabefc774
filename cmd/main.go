package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	bookingSessionHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/booking_session"
	cancelOrderHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/cancel_order"
	createVehicleHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/create_vehicle"
	getAvailableSlotsHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/get_available_slots"
	getCustomerOrdersHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/get_customer_orders"
	getOrderHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/get_order"
	platesHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/plates"
	updateOrderStateHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/update_order_state"
	vehiclePhotosHandler "github.com/m04kA/SMC-OrderFlow/internal/api/handlers/vehicle_photos"
	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/config"
	orderRepo "github.com/m04kA/SMC-OrderFlow/internal/infra/storage/order"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/backend"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/payment"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/travelfee"
	"github.com/m04kA/SMC-OrderFlow/internal/service/booking"
	ordersService "github.com/m04kA/SMC-OrderFlow/internal/service/orders"
	"github.com/m04kA/SMC-OrderFlow/internal/service/sessions"
	getAvailableSlotsUC "github.com/m04kA/SMC-OrderFlow/internal/usecase/get_available_slots"
	submitOrderUC "github.com/m04kA/SMC-OrderFlow/internal/usecase/submit_order"
	"github.com/m04kA/SMC-OrderFlow/pkg/dbmetrics"
	"github.com/m04kA/SMC-OrderFlow/pkg/inflight"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
	"github.com/m04kA/SMC-OrderFlow/pkg/metrics"
	"github.com/m04kA/SMC-OrderFlow/pkg/psqlbuilder"
	"github.com/m04kA/SMC-OrderFlow/pkg/txmanager"
)

const poolStatsInterval = 15 * time.Second

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-OrderFlow...")
	log.Info("Configuration loaded from config.toml")

	schedule, err := cfg.Booking.Schedule()
	if err != nil {
		log.Fatal("Invalid booking schedule: %v", err)
	}
	travelFee, err := cfg.Booking.TravelFeeAmount()
	if err != nil {
		log.Fatal("Invalid travel fee: %v", err)
	}

	// Инициализируем метрики (если включены)
	// При выключенных метриках collector == nil, все Record* методы это допускают
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	dialect := psqlbuilder.DialectPostgres
	if cfg.Database.Driver == config.DriverSQLite {
		dialect = psqlbuilder.DialectSQLite
	}

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	wrappedDB := dbmetrics.Wrap(db, metricsCollector)
	wrappedDB.CollectPoolStats(poolStatsInterval, stopMetricsCh)

	if err := orderRepo.Migrate(context.Background(), wrappedDB, dialect); err != nil {
		log.Fatal("Failed to migrate database: %v", err)
	}

	// Инициализируем репозитории
	orderRepository := orderRepo.NewRepository(wrappedDB, dialect)
	txMgr := txmanager.NewTransactionManager(wrappedDB, cfg.Database.Driver == config.DriverPostgres)

	// Инициализируем интеграционных клиентов
	backendClient := backend.NewClient(
		cfg.Backend.URL,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		log,
	)
	var catalog booking.ServiceCatalog = backendClient
	if cfg.Backend.CatalogCacheTTL > 0 {
		catalog = backend.NewCachedCatalog(backendClient, time.Duration(cfg.Backend.CatalogCacheTTL)*time.Second)
	}
	paymentGateway := payment.NewMockGateway(log)
	travelFees := travelfee.NewFixed(travelFee)
	log.Info("Integration clients initialized (Backend=%s timeout=%ds, payment=%s)",
		cfg.Backend.URL, cfg.Backend.Timeout, cfg.Payment.Provider)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(orderRepository, schedule, log)
	submitOrderUseCase := submitOrderUC.NewUseCase(orderRepository, txMgr, schedule, log)

	// Инициализируем сервисы
	orderSvc := ordersService.NewService(orderRepository, txMgr, cfg.Server.OperatorIDs, log)

	registry := sessions.NewRegistry(
		booking.Dependencies{
			Vehicles:   backendClient,
			Addresses:  backendClient,
			Catalog:    catalog,
			Slots:      getAvailableSlotsUseCase,
			TravelFees: travelFees,
			Payments:   paymentGateway,
			Submitter:  submitOrderUseCase,
			Metrics:    metricsCollector,
			Logger:     log,
			Currency:   cfg.Booking.Currency,
		},
		sessions.PhotoDependencies{
			Vehicles: backendClient,
			Store:    backendClient,
			Metrics:  metricsCollector,
			Logger:   log,
		},
		metricsCollector,
		log,
	)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go registry.Run(sweepCtx, cfg.Booking.SweepInterval(), cfg.Booking.SessionTTL())

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	plates := platesHandler.NewHandler(log)
	bookingSession := bookingSessionHandler.NewHandler(registry, log)
	createVehicle := createVehicleHandler.NewHandler(backendClient, inflight.NewSet(), log)
	vehiclePhotos := vehiclePhotosHandler.NewHandler(registry, log)
	getOrder := getOrderHandler.NewHandler(orderSvc, log)
	getCustomerOrders := getCustomerOrdersHandler.NewHandler(orderSvc, log)
	cancelOrder := cancelOrderHandler.NewHandler(orderSvc, log)
	updateOrderState := updateOrderStateHandler.NewHandler(orderSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/plates/validate", plates.Validate).Methods(http.MethodPost)
	api.HandleFunc("/plates/format", plates.Format).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
		if err != nil {
			log.Fatal("Failed to create rate limiter: %v", err)
		}
		protected.Use(middleware.RateLimit(limiter))
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// --- Сценарий бронирования ---
	protected.HandleFunc("/booking", bookingSession.Start).Methods(http.MethodPost)
	protected.HandleFunc("/booking", bookingSession.Get).Methods(http.MethodGet)
	protected.HandleFunc("/booking", bookingSession.Cancel).Methods(http.MethodDelete)
	protected.HandleFunc("/booking/vehicle", bookingSession.SelectVehicle).Methods(http.MethodPut)
	protected.HandleFunc("/booking/address", bookingSession.SelectAddress).Methods(http.MethodPut)
	protected.HandleFunc("/booking/services/{serviceId}", bookingSession.AddService).Methods(http.MethodPost)
	protected.HandleFunc("/booking/services/{serviceId}", bookingSession.RemoveService).Methods(http.MethodDelete)
	protected.HandleFunc("/booking/datetime-step", bookingSession.ProceedToDateTime).Methods(http.MethodPost)
	protected.HandleFunc("/booking/slots", bookingSession.Slots).Methods(http.MethodGet)
	protected.HandleFunc("/booking/datetime", bookingSession.ConfirmDateTime).Methods(http.MethodPost)
	protected.HandleFunc("/booking/payment-step", bookingSession.ProceedToPayment).Methods(http.MethodPost)
	protected.HandleFunc("/booking/back", bookingSession.Back).Methods(http.MethodPost)
	protected.HandleFunc("/booking/payment", bookingSession.Pay).Methods(http.MethodPost)

	// --- Автомобили и фотографии ---
	protected.HandleFunc("/vehicles", createVehicle.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit", vehiclePhotos.Open).Methods(http.MethodPost)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit", vehiclePhotos.Get).Methods(http.MethodGet)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit", vehiclePhotos.Close).Methods(http.MethodDelete)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit/confirm", vehiclePhotos.Confirm).Methods(http.MethodPost)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit/deletions/{imageId}", vehiclePhotos.MarkDeletion).Methods(http.MethodPost)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit/deletions/{imageId}", vehiclePhotos.UnmarkDeletion).Methods(http.MethodDelete)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit/pending/{localId}", vehiclePhotos.RemovePending).Methods(http.MethodDelete)
	protected.HandleFunc("/vehicles/{vehicleId}/photos/edit/{category}", vehiclePhotos.AddPhoto).Methods(http.MethodPost)

	// --- Заказы ---
	protected.HandleFunc("/orders", getCustomerOrders.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/orders/{orderId}", getOrder.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/orders/{orderId}/cancel", cancelOrder.Handle).Methods(http.MethodPatch)

	// Смена состояния заказа оператором мойки
	protected.HandleFunc("/orders/{orderId}/state", updateOrderState.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopSweep()
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
