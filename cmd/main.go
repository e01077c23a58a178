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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clearBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/clear_bookings"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	healthHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_bookings"
	manageScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/manage_schedule"
	updateBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache/slots"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/redisbooking"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// Хранилища собираются из разных бэкендов, поэтому в main нужны объединенные интерфейсы
type (
	bookingStore interface {
		createBookingUC.BookingRepository
		bookingsService.BookingRepository
	}

	scheduleStore interface {
		getAvailableSlotsUC.ScheduleRepository
		scheduleService.ScheduleRepository
	}

	slotsCache interface {
		getAvailableSlotsUC.SlotsCache
		scheduleService.SlotsCache
	}

	bookingNotifier interface {
		createBookingUC.Notifier
		bookingsService.Notifier
		Close() error
	}
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", *configPath)

	rules, err := cfg.BookingRules()
	if err != nil {
		log.Fatal("Invalid booking rules: %v", err)
	}
	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone %q: %v", cfg.Booking.Timezone, err)
	}
	log.Info("Booking rules: window=%s-%s step=%dm blackout=%d slots lead=%d days tz=%s",
		rules.WindowStart, rules.WindowEnd, rules.StepMinutes, rules.BlackoutSlots, rules.LeadDays, location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	healthChecks := make(map[string]healthHandler.Check)

	// Подключаемся к базе данных, если она нужна хотя бы одному хранилищу
	var wrappedDB *dbmetrics.DB
	if cfg.Storage.Bookings == config.BackendPostgres || cfg.Storage.Schedule == config.BackendPostgres {
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

		// Без метрик обёртка только пробрасывает вызовы
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		healthChecks["postgres"] = wrappedDB.PingContext
	}

	// Инициализируем хранилище бронирований
	var (
		bookings  bookingStore
		txManager createBookingUC.TransactionManager
	)

	switch cfg.Storage.Bookings {
	case config.BackendPostgres:
		bookings = bookingRepo.NewRepository(wrappedDB, time.Duration(cfg.Database.LockTimeoutMs)*time.Millisecond)
		txManager = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Bookings stored in postgres")

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		redisRepository := redisbooking.NewRepository(client, redisbooking.Options{
			LockTTL:       cfg.Redis.LockTTL(),
			LockTimeout:   cfg.Redis.LockTimeout(),
			RetryInterval: cfg.Redis.RetryInterval(),
		}, log)
		if err := redisRepository.Ping(context.Background()); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		bookings = redisRepository
		txManager = txmanager.NewNoopManager()
		healthChecks["redis"] = redisRepository.Ping
		log.Info("Bookings stored in redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	case config.BackendMemory:
		bookings = memory.NewBookingStore()
		txManager = txmanager.NewNoopManager()
		log.Warn("DEGRADED MODE: bookings are kept in process memory and will be lost on restart")
	}

	// Инициализируем хранилище расписаний
	var schedules scheduleStore

	switch cfg.Storage.Schedule {
	case config.BackendPostgres:
		schedules = scheduleRepo.NewRepository(wrappedDB)
		log.Info("Worker schedules stored in postgres")

	case config.BackendMemory:
		memorySchedules := memory.NewScheduleStore()
		if err := memorySchedules.LoadSeedFile(cfg.Storage.SeedFile); err != nil {
			log.Fatal("Failed to load schedule seed %s: %v", cfg.Storage.SeedFile, err)
		}
		schedules = memorySchedules
		log.Warn("DEGRADED MODE: worker schedules loaded from %s into process memory", cfg.Storage.SeedFile)
	}

	// Кэш слотов по расписанию
	var cache slotsCache = slots.Noop{}
	if cfg.Cache.Enabled {
		cache = slots.New(cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second, metricsCollector)
		log.Info("Slots cache enabled (size=%d, ttl=%ds)", cfg.Cache.Size, cfg.Cache.TTLSeconds)
	}

	// Публикация событий о бронированиях
	var events bookingNotifier = notifier.Noop{}
	if cfg.Notifications.Enabled {
		publisher, err := notifier.Dial(
			cfg.Notifications.AmqpURL,
			cfg.Notifications.Exchange,
			time.Duration(cfg.Notifications.PublishTimeoutMs)*time.Millisecond,
			log,
		)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		events = publisher
		log.Info("Booking events published to exchange %s", cfg.Notifications.Exchange)
	}
	defer events.Close()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookings, txManager, events, rules, location, log)
	scheduleSvc := scheduleService.NewService(schedules, cache, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookings,
		txManager,
		events,
		metricsCollector,
		rules,
		location,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookings,
		schedules,
		cache,
		rules,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	clearBookings := clearBookingsHandler.NewHandler(bookingSvc, log)
	manageSchedule := manageScheduleHandler.NewHandler(scheduleSvc, log)
	health := healthHandler.NewHandler(healthChecks, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования (с ограничением частоты по IP)
	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		public.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
			MaxClients:        cfg.RateLimit.MaxClients,
			IdleTTL:           time.Duration(cfg.RateLimit.IdleTTLSeconds) * time.Second,
			TrustForwarded:    cfg.RateLimit.TrustForwarded,
		}, log))
		log.Info("Rate limit enabled for POST /bookings (%d req/min, burst %d)",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	public.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют Authorization: Bearer <token>)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	// --- Бронирования ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/clear", clearBookings.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Расписание работников ---
	admin.HandleFunc("/workers", manageSchedule.ListWorkers).Methods(http.MethodGet)
	admin.HandleFunc("/workers", manageSchedule.CreateWorker).Methods(http.MethodPost)
	admin.HandleFunc("/workers/{workerId}", manageSchedule.UpdateWorker).Methods(http.MethodPatch)
	admin.HandleFunc("/workers/{workerId}/availability", manageSchedule.SetAvailability).Methods(http.MethodPut)
	admin.HandleFunc("/workers/{workerId}/time-off", manageSchedule.AddTimeOff).Methods(http.MethodPost)
	admin.HandleFunc("/availability/{availabilityId}", manageSchedule.DeleteAvailability).Methods(http.MethodDelete)
	admin.HandleFunc("/time-off/{timeOffId}", manageSchedule.DeleteTimeOff).Methods(http.MethodDelete)

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
