package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aidar/sponsortrack/internal/app"
	"github.com/aidar/sponsortrack/internal/config"
)

// Основные БД, против которых гоняются тесты
const (
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
	BackendFile     = "local-file"
)

// TestEnvironment содержит все ресурсы необходимые для интеграционных тестов
type TestEnvironment struct {
	Container testcontainers.Container
	App       *app.App
	BaseURL   string
	ctx       context.Context
}

// SetupTestEnvironment поднимает контейнер с основной БД (для BackendFile без
// контейнера) и запускает приложение на port
func SetupTestEnvironment(t *testing.T, backend, port string) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	env := &TestEnvironment{ctx: ctx}

	var databaseURL string
	switch backend {
	case BackendMongo:
		container, err := mongodb.Run(ctx, "mongo:7")
		require.NoError(t, err, "Failed to start MongoDB container")
		env.Container = container

		databaseURL, err = container.ConnectionString(ctx)
		require.NoError(t, err, "Failed to get connection string")

	case BackendPostgres:
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("sponsortrack_test"),
			postgres.WithUsername("test_user"),
			postgres.WithPassword("test_password"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")
		env.Container = container

		databaseURL, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "Failed to get connection string")
	}

	env.start(t, testConfig(t, databaseURL, port))
	return env
}

// SetupUnreachableEnvironment запускает приложение с DATABASE_URL, по которому
// никто не слушает. Все запросы должны уйти в файлы.
func SetupUnreachableEnvironment(t *testing.T, port string) *TestEnvironment {
	t.Helper()

	cfg := testConfig(t, "mongodb://127.0.0.1:1/?directConnection=true", port)
	cfg.Database.ConnectTimeout = 300 * time.Millisecond
	cfg.Database.RetryInterval = time.Hour

	env := &TestEnvironment{ctx: context.Background()}
	env.start(t, cfg)
	return env
}

func testConfig(t *testing.T, databaseURL, port string) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{
			Port: port,
			Host: "127.0.0.1",
		},
		Database: config.DatabaseConfig{
			URL:            databaseURL,
			Name:           "sponsortrack_test",
			ConnectTimeout: 10 * time.Second,
			RetryInterval:  time.Second,
			CheckInterval:  time.Minute,
			MaxConns:       5,
		},
		Storage: config.StorageConfig{
			DataDir: t.TempDir(),
		},
		Log: config.LogConfig{
			Level: "warn",
		},
	}
}

func (te *TestEnvironment) start(t *testing.T, cfg *config.Config) {
	t.Helper()

	// Создаем и инициализируем приложение
	application, err := app.New(cfg)
	require.NoError(t, err, "Failed to create application")

	err = application.Initialize(te.ctx)
	require.NoError(t, err, "Failed to initialize application")

	// Запускаем сервер в фоне
	go func() {
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			t.Logf("Server error: %v", err)
		}
	}()

	te.App = application
	te.BaseURL = fmt.Sprintf("http://%s:%s", cfg.Server.Host, cfg.Server.Port)
	te.WaitForHealthCheck(t)
}

// Cleanup очищает все тестовые ресурсы
func (te *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	// Останавливаем приложение
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if te.App != nil {
		_ = te.App.Shutdown(shutdownCtx)
	}

	// Останавливаем контейнер
	if te.Container != nil {
		_ = te.Container.Terminate(te.ctx)
	}
}

// MakeRequest вспомогательная функция для HTTP запросов в тестах
func (te *TestEnvironment) MakeRequest(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, te.BaseURL+path, body)
	require.NoError(t, err, "Failed to create request")

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")

	return resp
}

// WaitForHealthCheck ждет пока приложение станет доступным
func (te *TestEnvironment) WaitForHealthCheck(t *testing.T) {
	t.Helper()

	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(te.BaseURL + "/api/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("Application did not become healthy in time")
}
