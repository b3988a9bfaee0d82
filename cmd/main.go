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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/cancel_booking"
	createActivityBookingHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/create_activity_booking"
	createPackageBookingHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/create_package_booking"
	createSlotHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/create_slot"
	createStayBookingHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/create_stay_booking"
	deactivateSlotHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/deactivate_slot"
	getAvailabilityHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/get_bookings"
	getScheduleHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/get_schedule"
	setActivityCapacityHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/set_activity_capacity"
	updatePaymentStatusHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/update_payment_status"
	updateSlotHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/update_slot"
	utilizationReportHandler "github.com/wavehouse/MSC-BookingService/internal/api/handlers/utilization_report"
	"github.com/wavehouse/MSC-BookingService/internal/api/middleware"
	"github.com/wavehouse/MSC-BookingService/internal/config"
	bookingsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/bookings"
	customersRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/customers"
	slotsRepo "github.com/wavehouse/MSC-BookingService/internal/infra/storage/slots"
	"github.com/wavehouse/MSC-BookingService/internal/lock"
	"github.com/wavehouse/MSC-BookingService/internal/planner"
	"github.com/wavehouse/MSC-BookingService/internal/pricing"
	bookingsService "github.com/wavehouse/MSC-BookingService/internal/service/bookings"
	scheduleService "github.com/wavehouse/MSC-BookingService/internal/service/schedule"
	createActivityBookingUC "github.com/wavehouse/MSC-BookingService/internal/usecase/create_activity_booking"
	createPackageBookingUC "github.com/wavehouse/MSC-BookingService/internal/usecase/create_package_booking"
	createStayBookingUC "github.com/wavehouse/MSC-BookingService/internal/usecase/create_stay_booking"
	"github.com/wavehouse/MSC-BookingService/pkg/dbmetrics"
	"github.com/wavehouse/MSC-BookingService/pkg/logger"
	"github.com/wavehouse/MSC-BookingService/pkg/metrics"
	"github.com/wavehouse/MSC-BookingService/pkg/simpletxmanager"
	"github.com/wavehouse/MSC-BookingService/pkg/txmanager"
)

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

	log.Info("Starting MSC-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики. Коллектор создается всегда, его счетчики
	// используют handlers; endpoint и сбор БД метрик включаются флагом.
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
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
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем распределенную блокировку кортежей вместимости
	var capacityLocker lock.Locker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()
		capacityLocker = lock.NewRedisLocker(redisClient, cfg.Metrics.ServiceName)
		log.Info("Redis capacity locks enabled (addr=%s)", cfg.Redis.Addr)
	} else {
		capacityLocker = lock.NewNop()
		log.Info("Redis disabled, using noop capacity locks")
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		slotRepository     *slotsRepo.Repository
		bookingRepository  *bookingsRepo.Repository
		customerRepository *customersRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotsRepo.NewRepository(wrappedDB)
		bookingRepository = bookingsRepo.NewRepository(wrappedDB)
		customerRepository = customersRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotsRepo.NewRepository(db)
		bookingRepository = bookingsRepo.NewRepository(db)
		customerRepository = customersRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Ценовой движок и планировщик сессий пакета
	pricingEngine := pricing.NewEngine()
	sessionPlanner := planner.New(slotRepository)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		customerRepository,
		slotRepository,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		slotRepository,
		&scheduleService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createActivityBookingUseCase := createActivityBookingUC.NewUseCase(
		customerRepository,
		slotRepository,
		bookingRepository,
		pricingEngine,
		txMgr,
		capacityLocker,
		log,
	)
	createPackageBookingUseCase := createPackageBookingUC.NewUseCase(
		customerRepository,
		slotRepository,
		bookingRepository,
		sessionPlanner,
		pricingEngine,
		txMgr,
		capacityLocker,
		log,
	)
	createStayBookingUseCase := createStayBookingUC.NewUseCase(
		customerRepository,
		bookingRepository,
		pricingEngine,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createActivityBooking := createActivityBookingHandler.NewHandler(createActivityBookingUseCase, metricsCollector, log)
	createPackageBooking := createPackageBookingHandler.NewHandler(createPackageBookingUseCase, metricsCollector, log)
	createStayBooking := createStayBookingHandler.NewHandler(createStayBookingUseCase, metricsCollector, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, metricsCollector, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(scheduleSvc, log)
	createSlot := createSlotHandler.NewHandler(scheduleSvc, log)
	updateSlot := updateSlotHandler.NewHandler(scheduleSvc, log)
	deactivateSlot := deactivateSlotHandler.NewHandler(scheduleSvc, log)
	setActivityCapacity := setActivityCapacityHandler.NewHandler(scheduleSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	utilizationReport := utilizationReportHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Доступность слотов на дату
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирований
	api.HandleFunc("/bookings/activity", createActivityBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/package", createPackageBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/stay", createStayBooking.Handle).Methods(http.MethodPost)

	// Карточка и отмена бронирования
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (требуют X-Staff-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.StaffAuth(cfg.Auth.StaffToken, log))

	// --- Бронирования ---
	admin.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/payment", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	// --- Расписание ---
	admin.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/{slotId}", deactivateSlot.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/slots/{slotId}/activities", setActivityCapacity.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/utilization", utilizationReport.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
