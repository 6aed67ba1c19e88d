// Package postgres — migrations.go применяет встроенные SQL-миграции
// хранилища счетов. Схема у сервиса маленькая (одна таблица accounts),
// поэтому вместо golang-migrate — простой раннер: таблица
// schema_migrations плюс транзакция на каждую версию.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migration — одна версия схемы: номер и SQL-код.
// Список версий живёт рядом с доменным кодом (accounts) и
// передаётся сюда при старте сервиса.
type Migration struct {
	Version int
	SQL     string
}

// Migrate готовит таблицу учёта версий и применяет миграции по порядку.
// Уже применённые версии пропускаются, каждая новая выполняется
// в собственной транзакции.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations []Migration) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	for _, m := range migrations {
		applied, err := applyOne(ctx, pool, m)
		if err != nil {
			return fmt.Errorf("миграция %d: %w", m.Version, err)
		}
		if applied {
			log.Infof("Миграция %d применена", m.Version)
		}
	}
	return nil
}

// applyOne выполняет одну миграцию в транзакции.
// Возвращает false, если версия уже была применена раньше.
func applyOne(ctx context.Context, pool *pgxpool.Pool, m Migration) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	// При любой ошибке ниже транзакция откатится
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки версии: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return false, fmt.Errorf("ошибка выполнения SQL: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", m.Version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии: %w", err)
	}

	return true, tx.Commit(ctx)
}
