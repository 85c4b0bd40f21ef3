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

	cancelReservationHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/cancel_reservation"
	confirmReservationHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/confirm_reservation"
	createReservationHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/create_reservation"
	deleteReservationHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/delete_reservation"
	getActivityPolicyHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/get_activity_policy"
	getActivityReservationsHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/get_activity_reservations"
	getAvailabilityHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/get_availability"
	getReservationHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/get_user_reservations"
	updateActivityPolicyHandler "github.com/m04kA/SportHub-ReservationService/internal/api/handlers/update_activity_policy"
	"github.com/m04kA/SportHub-ReservationService/internal/api/middleware"
	"github.com/m04kA/SportHub-ReservationService/internal/config"
	"github.com/m04kA/SportHub-ReservationService/internal/infra/queue"
	policyRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/policy"
	reservationRepo "github.com/m04kA/SportHub-ReservationService/internal/infra/storage/reservation"
	activityServiceClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/activityservice"
	userServiceClient "github.com/m04kA/SportHub-ReservationService/internal/integrations/userservice"
	policyService "github.com/m04kA/SportHub-ReservationService/internal/service/policy"
	reservationsService "github.com/m04kA/SportHub-ReservationService/internal/service/reservations"
	createReservationUC "github.com/m04kA/SportHub-ReservationService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SportHub-ReservationService/internal/usecase/get_availability"
	"github.com/m04kA/SportHub-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SportHub-ReservationService/pkg/logger"
	"github.com/m04kA/SportHub-ReservationService/pkg/metrics"
	"github.com/m04kA/SportHub-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SportHub-ReservationService/pkg/txmanager"
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

	log.Info("Starting SportHub-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Инициализируем интеграционных клиентов
	activityClient := activityServiceClient.NewClient(
		cfg.ActivityService.URL,
		time.Duration(cfg.ActivityService.Timeout)*time.Second,
		log,
	)
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ActivityService=%s timeout=%ds, UserService=%s timeout=%ds)",
		cfg.ActivityService.URL, cfg.ActivityService.Timeout, cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем publisher событий (если включен)
	var publisher *queue.Publisher
	if cfg.RabbitMQ.Enabled {
		publisher = queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		defer publisher.Close()
		log.Info("Event publisher initialized (queue=%s)", cfg.RabbitMQ.Queue)
	}

	// Обёртки интерфейсов publisher для конструкторов: nil *queue.Publisher
	// нельзя передавать как непустой интерфейс
	var ucPublisher createReservationUC.EventPublisher
	var svcPublisher reservationsService.EventPublisher
	if publisher != nil {
		ucPublisher = publisher
		svcPublisher = publisher
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		policyRepository      *policyRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		reservationRepository = reservationRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		userClient,
		svcPublisher,
		log,
	)
	policySvc := policyService.NewService(
		policyRepository,
		userClient,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		policyRepository,
		activityClient,
		userClient,
		txMgr,
		ucPublisher,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		reservationRepository,
		policyRepository,
		activityClient,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	confirmReservation := confirmReservationHandler.NewHandler(reservationSvc, log)
	deleteReservation := deleteReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getActivityReservations := getActivityReservationsHandler.NewHandler(reservationSvc, log)
	getActivityPolicy := getActivityPolicyHandler.NewHandler(policySvc, log)
	updateActivityPolicy := updateActivityPolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступная ёмкость корзины (активность + слот + дата)
	api.HandleFunc("/activities/{activityId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Действующая политика бронирования активности
	api.HandleFunc("/activities/{activityId}/policy",
		getActivityPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Подтверждение бронирования (только администратор)
	protected.HandleFunc("/reservations/{reservationId}/confirm", confirmReservation.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Физическое удаление бронирования (только администратор)
	protected.HandleFunc("/reservations/{reservationId}", deleteReservation.Handle).Methods(http.MethodDelete)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Администрирование ---
	// Список бронирований активности
	protected.HandleFunc("/activities/{activityId}/reservations", getActivityReservations.Handle).Methods(http.MethodGet)

	// Политика бронирования активности
	protected.HandleFunc("/activities/{activityId}/policy", updateActivityPolicy.Handle).Methods(http.MethodPut)

	// Глобальная политика бронирования
	protected.HandleFunc("/policy", updateActivityPolicy.Handle).Methods(http.MethodPut)

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
