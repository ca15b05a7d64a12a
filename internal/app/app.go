package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aidar/sponsortrack/internal/config"
	"github.com/aidar/sponsortrack/internal/connectivity"
	"github.com/aidar/sponsortrack/internal/handler"
	"github.com/aidar/sponsortrack/internal/middleware"
	"github.com/aidar/sponsortrack/internal/repository/file"
	"github.com/aidar/sponsortrack/internal/repository/mongodb"
	"github.com/aidar/sponsortrack/internal/repository/postgres"
	"github.com/aidar/sponsortrack/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config      *config.Config
	conn        *connectivity.Manager
	registry    *prometheus.Registry
	server      *http.Server
	logger      *slog.Logger
	stopMonitor context.CancelFunc
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Файловое хранилище нужно всегда: это резерв на случай недоступности БД
	fallback, err := file.Open(a.config.Storage.DataDir, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}

	dial, err := NewDialer(a.config.Database)
	if err != nil {
		return err
	}

	var metrics *connectivity.Metrics
	if a.config.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = connectivity.NewMetrics(a.registry)
	}

	a.conn = connectivity.NewManager(dial, fallback, connectivity.Options{
		ConnectTimeout: a.config.Database.ConnectTimeout,
		RetryInterval:  a.config.Database.RetryInterval,
		CheckInterval:  a.config.Database.CheckInterval,
	}, metrics, a.logger)

	if dial == nil {
		a.logger.Info("DATABASE_URL is not set, using local file storage only", "dir", a.config.Storage.DataDir)
	} else {
		// Недоступная БД не мешает старту: запросы пойдут в файлы
		if err := a.conn.Connect(ctx); err != nil {
			a.logger.Warn("Starting without primary database", "error", err)
		}

		monitorCtx, cancel := context.WithCancel(context.Background())
		a.stopMonitor = cancel
		go a.conn.Run(monitorCtx)
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// NewDialer выбирает драйвер основной БД по схеме DATABASE_URL.
// Для пустого URL возвращает nil: основная БД отключена.
func NewDialer(cfg config.DatabaseConfig) (connectivity.Dialer, error) {
	driver, err := cfg.Driver()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverMongo:
		return func(ctx context.Context) (connectivity.Primary, error) {
			store, err := mongodb.Connect(ctx, cfg.URL, cfg.Name, cfg.ConnectTimeout)
			if err != nil {
				return nil, err
			}
			return store, nil
		}, nil
	case config.DriverPostgres:
		return func(ctx context.Context) (connectivity.Primary, error) {
			store, err := postgres.Connect(ctx, cfg.URL, postgres.PoolOptions{
				MaxConns:       cfg.MaxConns,
				MinConns:       cfg.MinConns,
				ConnectTimeout: cfg.ConnectTimeout,
			})
			if err != nil {
				return nil, err
			}
			return store, nil
		}, nil
	default:
		return nil, nil
	}
}

// RouterDeps зависимости HTTP роутера
type RouterDeps struct {
	Conn     *connectivity.Manager
	Logger   *slog.Logger
	Registry *prometheus.Registry // nil отключает /metrics
}

// NewRouter собирает слои сервисов и обработчиков и настраивает маршруты
func NewRouter(deps RouterDeps) http.Handler {
	// Инициализируем слой сервисов (бизнес-логика)
	sponsorService := service.NewSponsorService(deps.Conn, deps.Logger)
	teamService := service.NewTeamService(deps.Conn)

	// Инициализируем HTTP обработчики
	healthHandler := handler.NewHealthHandler(deps.Conn)
	sponsorHandler := handler.NewSponsorHandler(sponsorService)
	teamHandler := handler.NewTeamHandler(teamService)
	statsHandler := handler.NewStatsHandler(sponsorService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		// Каждый ответ API сообщает, откуда взяты данные
		r.Use(middleware.DataSource(deps.Conn))

		r.Get("/health", healthHandler.Health)

		// Эндпоинты спонсоров
		r.Route("/sponsors", func(r chi.Router) {
			r.Get("/", sponsorHandler.List)
			r.Post("/", sponsorHandler.Create)
			r.Post("/bulk", sponsorHandler.BulkCreate)
			r.Get("/stats", statsHandler.GetStats)
			r.Put("/{id}", sponsorHandler.Update)
			r.Delete("/{id}", sponsorHandler.Delete)
		})

		// Эндпоинты команд
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.List)
			r.Post("/", teamHandler.Create)
			r.Put("/{id}", teamHandler.Update)
			r.Delete("/{id}", teamHandler.Delete)
		})
	})

	// Метрики Prometheus
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
		}))
	}

	return r
}

// setupServer инициализирует HTTP сервер
func (a *App) setupServer() {
	r := NewRouter(RouterDeps{
		Conn:     a.conn,
		Logger:   a.logger,
		Registry: a.registry,
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr, "source", a.conn.Status().Source)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Останавливаем фоновую проверку БД и закрываем подключение
	if a.stopMonitor != nil {
		a.stopMonitor()
	}
	if a.conn != nil {
		if err := a.conn.Close(ctx); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
