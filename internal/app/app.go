// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт клиентов, сервисы, обработчики
// и собирает всё в готовый к запуску объект.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"moneyrain.ru/clicker/internal/config"
	"moneyrain.ru/clicker/internal/db/postgres"
	"moneyrain.ru/clicker/internal/features/accounts"
	"moneyrain.ru/clicker/internal/features/session"
	"moneyrain.ru/clicker/internal/jobs"
	"moneyrain.ru/clicker/internal/server"
	"moneyrain.ru/clicker/internal/userstore"
)

// App содержит все компоненты игрового сервиса.
type App struct {
	Server    *server.Server
	Scheduler *jobs.Scheduler
	Manager   *session.Manager
}

// New создаёт и инициализирует игровой сервис.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(cfg *config.Config) *App {
	// === 1. Клиент удалённого хранилища ===
	store := userstore.NewClient(cfg.StoreBaseURL, cfg.StoreRequestTimeout)

	// === 2. Менеджер сессии ===
	manager := session.NewManager(store, cfg)

	// === 3. HTTP-обработчики ===
	mux := http.NewServeMux()
	session.NewHandler(manager).Register(mux)

	srv := server.New(cfg.ListenAddr, mux, cfg.RateLimitRequests, cfg.RateLimitWindow)

	// === 4. Планировщик задач ===
	scheduler := jobs.NewScheduler(manager, cfg.AutosaveInterval)

	return &App{
		Server:    srv,
		Scheduler: scheduler,
		Manager:   manager,
	}
}

// StoreApp содержит все компоненты сервиса хранилища.
type StoreApp struct {
	Server *server.Server
	DB     *pgxpool.Pool
}

// NewStore создаёт и инициализирует сервис хранилища пользователей.
func NewStore(ctx context.Context, cfg *config.StoreConfig) (*StoreApp, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Запускаем миграции
	migrations := []postgres.Migration{
		{Version: 1, SQL: accounts.Migration001Accounts},
	}
	if err := postgres.Migrate(ctx, pool, migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Репозитории и сервисы ===
	repo := accounts.NewRepository(pool)
	service := accounts.NewService(repo, cfg)

	// === 3. HTTP-обработчики ===
	mux := http.NewServeMux()
	accounts.NewHandler(service).Register(mux)

	srv := server.New(cfg.ListenAddr, mux, cfg.RateLimitRequests, cfg.RateLimitWindow)

	return &StoreApp{
		Server: srv,
		DB:     pool,
	}, nil
}
