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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	bookingFlowHandler "github.com/m04kA/SMC-MentorBooking/internal/api/handlers/booking_flow"
	getBookableDatesHandler "github.com/m04kA/SMC-MentorBooking/internal/api/handlers/get_bookable_dates"
	getPaymentOptionsHandler "github.com/m04kA/SMC-MentorBooking/internal/api/handlers/get_payment_options"
	getTimeSlotsHandler "github.com/m04kA/SMC-MentorBooking/internal/api/handlers/get_time_slots"
	"github.com/m04kA/SMC-MentorBooking/internal/api/middleware"
	"github.com/m04kA/SMC-MentorBooking/internal/config"
	"github.com/m04kA/SMC-MentorBooking/internal/infra/migrations"
	availabilityRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/availability"
	cohortRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/cohort"
	draftStore "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/draft"
	mentorRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/mentor"
	paymentRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/payment"
	sessionRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/session"
	walletRepo "github.com/m04kA/SMC-MentorBooking/internal/infra/storage/wallet"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-MentorBooking/internal/integrations/paymentgateway"
	availabilityService "github.com/m04kA/SMC-MentorBooking/internal/service/availability"
	"github.com/m04kA/SMC-MentorBooking/internal/service/bookingflow"
	paymentsService "github.com/m04kA/SMC-MentorBooking/internal/service/payments"
	finalizeBookingUC "github.com/m04kA/SMC-MentorBooking/internal/usecase/finalize_booking"
	"github.com/m04kA/SMC-MentorBooking/pkg/logger"
	"github.com/m04kA/SMC-MentorBooking/pkg/metrics"
	"github.com/m04kA/SMC-MentorBooking/pkg/retry"
	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
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

	log.Info("Starting SMC-MentorBooking...")
	log.Info("Configuration loaded from config.toml (conflict_mode=%s, timezone=%s)",
		cfg.Booking.ConflictMode, cfg.Booking.Timezone)

	// Метрики пишутся всегда, endpoint публикуется только если включен
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metricsCollector := metrics.New(cfg.Metrics.ServiceName, registry)

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

	registry.MustRegister(collectors.NewDBStatsCollector(db, cfg.Database.DBName))

	if err := migrations.Up(db, cfg.Database.MigrationsPath, log); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	// Redis для черновиков бронирования
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis: %v", err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем репозитории
	txMgr := txmanager.NewTransactionManager(db)
	mentorRepository := mentorRepo.NewRepository(db)
	availabilityRepository := availabilityRepo.NewRepository(db)
	sessionRepository := sessionRepo.NewRepository(db)
	walletRepository := walletRepo.NewRepository(db)
	cohortRepository := cohortRepo.NewRepository(db)
	paymentRepository := paymentRepo.NewRepository(db)
	drafts := draftStore.NewStore(redisClient, cfg.Booking.DraftTTL())

	// Инициализируем интеграционных клиентов
	gateway := paymentgateway.NewClient(cfg.Payments.StripeSecretKey, cfg.Payments.CaptureTimeout(), log)
	log.Info("Payment gateway initialized (currency=%s, timeout=%s)",
		cfg.Payments.Currency, cfg.Payments.CaptureTimeout())

	var sessionNotifier finalizeBookingUC.Notifier
	if cfg.Notifications.Enabled {
		notifierClient := notifier.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Notifications.Queue, log)
		defer notifierClient.Close()
		sessionNotifier = notifierClient
		log.Info("Notifications enabled (queue=%s)", cfg.Notifications.Queue)
	}

	// Инициализируем сервисы
	readRetry := retry.DefaultPolicy()
	readRetry.MaxRetries = uint64(cfg.Booking.ReadRetries)

	availabilitySvc := availabilityService.NewService(
		mentorRepository,
		availabilityRepository,
		sessionRepository,
		nil,
		availabilityService.Options{
			Location:           cfg.Booking.Location(),
			ConflictMode:       cfg.Booking.ConflictMode,
			DefaultHorizonDays: cfg.Booking.DefaultHorizonDays,
			MaxHorizonDays:     cfg.Booking.MaxHorizonDays,
			MinNoticeMinutes:   cfg.Booking.MinNoticeMinutes,
			Retry:              readRetry,
			Retries:            metricsCollector,
		},
		log,
	)
	paymentsSvc := paymentsService.NewService(walletRepository, cohortRepository, mentorRepository, log)

	// Инициализируем use cases
	finalizeBookingUseCase := finalizeBookingUC.NewUseCase(
		mentorRepository,
		sessionRepository,
		walletRepository,
		paymentRepository,
		availabilitySvc,
		paymentsSvc,
		gateway,
		sessionNotifier,
		txMgr,
		metricsCollector,
		cfg.Payments.Currency,
		log,
	)

	flowSvc := bookingflow.NewService(
		bookingflow.NewMachine(availabilitySvc, nil),
		drafts,
		mentorRepository,
		finalizeBookingUseCase,
		metricsCollector,
		nil,
		log,
	)

	// Инициализируем handlers
	getBookableDates := getBookableDatesHandler.NewHandler(availabilitySvc, log)
	getTimeSlots := getTimeSlotsHandler.NewHandler(availabilitySvc, log)
	getPaymentOptions := getPaymentOptionsHandler.NewHandler(paymentsSvc, log)
	bookingFlow := bookingFlowHandler.NewHandler(flowSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Даты, доступные для записи к ментору
	api.HandleFunc("/mentors/{mentorId}/bookable-dates", getBookableDates.Handle).Methods(http.MethodGet)

	// Слоты ментора на дату
	api.HandleFunc("/mentors/{mentorId}/time-slots", getTimeSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	stopLimiter := make(chan struct{})
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
		go limiter.Run(stopLimiter)
		protected.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Оплата ---
	protected.HandleFunc("/mentors/{mentorId}/payment-options", getPaymentOptions.Handle).Methods(http.MethodGet)

	// --- Черновик бронирования ---
	protected.HandleFunc("/booking-flows", bookingFlow.Start).Methods(http.MethodPost)
	protected.HandleFunc("/booking-flows/{flowId}", bookingFlow.Get).Methods(http.MethodGet)
	protected.HandleFunc("/booking-flows/{flowId}", bookingFlow.Cancel).Methods(http.MethodDelete)
	protected.HandleFunc("/booking-flows/{flowId}/advance", bookingFlow.Advance).Methods(http.MethodPost)
	protected.HandleFunc("/booking-flows/{flowId}/back", bookingFlow.Back).Methods(http.MethodPost)
	protected.HandleFunc("/booking-flows/{flowId}/finalize", bookingFlow.Finalize).Methods(http.MethodPost)

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

	close(stopLimiter)

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
