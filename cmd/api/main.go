package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aidar/sponsortrack/internal/app"
	"github.com/aidar/sponsortrack/internal/config"
)

func main() {
	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию: %v", err)
	}

	// Создаем экземпляр приложения
	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Не удалось создать приложение: %v", err)
	}

	// Инициализируем приложение: файловое хранилище, подключение к БД, роутинг.
	// Недоступная БД не ошибка, сервис стартует на файлах.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Initialize(ctx); err != nil {
		log.Fatalf("Не удалось инициализировать приложение: %v", err)
	}

	// Запускаем HTTP сервер в отдельной горутине
	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал прерывания (Ctrl+C или SIGTERM) или падение сервера
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Printf("Ошибка сервера: %v", err)
	}

	// Создаем контекст с таймаутом для graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	// Корректно останавливаем приложение
	err = application.Shutdown(shutdownCtx)
	cancel()
	if err != nil {
		log.Printf("Не удалось корректно остановить сервер: %v", err)
		os.Exit(1)
	}
}
