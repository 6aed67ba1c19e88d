// Package main — точка входа сервиса хранилища пользователей.
// Хранит счета игроков в PostgreSQL и отдаёт их по HTTP.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/app"
	"moneyrain.ru/clicker/internal/config"
)

func main() {
	// Настраиваем логирование
	setupLogging()

	log.Info("=== Хранилище пользователей запускается ===")

	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.LoadStore()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	// Устанавливаем уровень логирования из конфига
	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем приложение (БД, миграции, репозитории, обработчики)
	application, err := app.NewStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.DB.Close()

	// Запускаем HTTP-сервер в отдельной горутине
	go func() {
		if err := application.Server.Start(); err != nil {
			log.WithError(err).Fatal("Ошибка HTTP-сервера")
		}
	}()

	log.Infof("=== Хранилище готово к работе на %s ===", cfg.ListenAddr)

	// Ждём сигнала остановки (Ctrl+C, docker stop)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Infof("Получен сигнал %s, останавливаемся...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := application.Server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Ошибка остановки HTTP-сервера")
	}

	log.Info("=== Хранилище остановлено ===")
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
