// Package main — точка входа игрового сервиса.
// Загружает конфигурацию, инициализирует приложение и запускает HTTP-сервер.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/app"
	"moneyrain.ru/clicker/internal/common"
	"moneyrain.ru/clicker/internal/config"
)

func main() {
	// Настраиваем логирование
	setupLogging()

	log.Info("=== Игровой сервис запускается ===")

	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	// Устанавливаем уровень логирования из конфига
	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err == nil {
		log.SetLevel(level)
	}

	// Контекст с отменой для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем приложение (клиент хранилища, сессия, обработчики)
	application := app.New(cfg)

	// Запускаем планировщик задач (cron)
	application.Scheduler.Start(ctx)
	defer application.Scheduler.Stop()

	// Запускаем HTTP-сервер в отдельной горутине
	go func() {
		if err := application.Server.Start(); err != nil {
			log.WithError(err).Fatal("Ошибка HTTP-сервера")
		}
	}()

	log.Infof("=== Сервис готов к работе на %s ===", cfg.ListenAddr)

	// Ждём сигнала остановки (Ctrl+C, docker stop)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Infof("Получен сигнал %s, останавливаемся...", sig)

	// Сбрасываем активную сессию в хранилище перед выходом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := application.Manager.Logout(shutdownCtx); err != nil && !errors.Is(err, common.ErrNoActiveSession) {
		log.WithError(err).Warn("Не удалось завершить сессию при остановке")
	}

	if err := application.Server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Ошибка остановки HTTP-сервера")
	}

	cancel()

	log.Info("=== Сервис остановлен ===")
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
