package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	advanceStepHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/advance_step"
	getAvailableSlotsHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_available_slots"
	getSessionHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_session"
	goBackHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/go_back"
	listServicesHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/list_services"
	selectDateHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/select_date"
	selectServiceHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/select_service"
	setBookingModeHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/set_booking_mode"
	startSessionHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/start_session"
	submitBookingHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/submit_booking"
	toggleSlotHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/toggle_slot"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StudioBooking/internal/config"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/session"
	availabilityClient "github.com/m04kA/SMC-StudioBooking/internal/integrations/availability"
	"github.com/m04kA/SMC-StudioBooking/internal/integrations/bookinggateway"
	catalogService "github.com/m04kA/SMC-StudioBooking/internal/service/catalog"
	selectionService "github.com/m04kA/SMC-StudioBooking/internal/service/selection"
	listSlotsUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/list_slots"
	submitBookingUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-StudioBooking/internal/worker/sessioncleanup"
	"github.com/m04kA/SMC-StudioBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
)

// sessionStore хранилище сессий со всеми операциями, нужными сервису
type sessionStore interface {
	selectionService.SessionRepository
	sessioncleanup.Repository
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-StudioBooking...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище сессий
	var sessions sessionStore

	switch cfg.Sessions.Backend {
	case config.SessionBackendPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
			log.Info("Database metrics collection started")
			sessions = sessionRepo.NewRepository(wrappedDB)
		} else {
			sessions = sessionRepo.NewRepository(db)
		}

	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

		sessions = sessionRepo.NewRedisRepository(client, cfg.Redis.KeyPrefix)

	default:
		log.Warn("Sessions are kept in memory and will be lost on restart")
		sessions = sessionRepo.NewMemoryRepository()
	}

	// Инициализируем интеграционных клиентов
	var availability listSlotsUC.AvailabilitySource
	if cfg.AvailabilityService.URL != "" {
		availability = availabilityClient.NewClient(cfg.AvailabilityService.URL, cfg.AvailabilityService.Timeout, log)
		log.Info("Availability source: %s (timeout=%s)", cfg.AvailabilityService.URL, cfg.AvailabilityService.Timeout)
	} else {
		log.Warn("Availability source is not configured, every slot is reported as unavailable")
	}

	var gateway submitBookingUC.BookingGateway
	if cfg.BookingGateway.URL != "" {
		gateway = bookinggateway.NewClient(cfg.BookingGateway.URL, cfg.BookingGateway.Timeout, log)
		log.Info("Booking gateway: %s (timeout=%s)", cfg.BookingGateway.URL, cfg.BookingGateway.Timeout)
	} else {
		gateway = bookinggateway.NewFakeGateway(log)
		log.Warn("Booking gateway is not configured, using the fake gateway")
	}

	// Инициализируем сервисы
	catalog, err := catalogService.NewService(cfg.Studio.DomainServices(), log)
	if err != nil {
		log.Fatal("Failed to build service catalog: %v", err)
	}

	rules := cfg.Studio.Rules()
	flow := domain.NewBookingFlow(rules)

	// Инициализируем use cases
	listSlotsUseCase := listSlotsUC.NewUseCase(
		catalog,
		availability,
		listSlotsUC.Config{
			Window:                  rules.Window,
			AdvanceBookingDays:      cfg.Studio.AdvanceBookingDays,
			MinBookingNoticeMinutes: cfg.Studio.MinBookingNoticeMinutes,
		},
		metricsCollector,
		log,
	)

	selection := selectionService.NewService(
		sessions,
		catalog,
		listSlotsUseCase,
		flow,
		selectionService.Config{SessionTTL: cfg.Sessions.TTL},
		metricsCollector,
		log,
	)

	submitBookingUseCase := submitBookingUC.NewUseCase(
		sessions,
		gateway,
		flow,
		submitBookingUC.Config{
			GatewayTimeout: cfg.BookingGateway.Timeout,
			SessionTTL:     cfg.Sessions.TTL,
		},
		metricsCollector,
		log,
	)

	// Фоновая очистка истекших сессий
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go sessioncleanup.NewWorker(sessions, cfg.Sessions.CleanupInterval, log).Run(workerCtx)

	// Инициализируем handlers
	listServices := listServicesHandler.NewHandler(catalog, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(listSlotsUseCase, log)
	startSession := startSessionHandler.NewHandler(selection, log)
	getSession := getSessionHandler.NewHandler(selection, log)
	selectService := selectServiceHandler.NewHandler(selection, log)
	selectDate := selectDateHandler.NewHandler(selection, log)
	setBookingMode := setBookingModeHandler.NewHandler(selection, log)
	toggleSlot := toggleSlotHandler.NewHandler(selection, log)
	advanceStep := advanceStepHandler.NewHandler(selection, log)
	goBack := goBackHandler.NewHandler(selection, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.HTTPMetrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Каталог ---
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Мастер бронирования ---
	api.HandleFunc("/sessions", startSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/service", selectService.Handle).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/date", selectDate.Handle).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/mode", setBookingMode.Handle).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/slots/{time}/toggle", toggleSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/advance", advanceStep.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/back", goBack.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/submit", submitBooking.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
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

	stopWorker()
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
