// Package accounts — repository.go выполняет все операции с таблицей accounts.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"moneyrain.ru/clicker/internal/common"
)

// Repository предоставляет методы для работы с учётными записями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий учётных записей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List возвращает все учётные записи в порядке создания (по id).
// Порядок стабилен: резолвер логина делает линейный проход по списку.
func (r *Repository) List(ctx context.Context) ([]*Account, error) {
	query := `
		SELECT id, username, balance, income_rate, secondary_income_rate, buff_unlocked, created_at, updated_at
		FROM accounts
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения учётных записей: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var a Account
		err := rows.Scan(
			&a.ID, &a.Username, &a.Balance, &a.IncomeRate,
			&a.SecondaryIncomeRate, &a.BuffUnlocked, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования учётной записи: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, nil
}

// Create создаёт учётную запись с нулевым снапшотом.
// Дубликат имени превращается в common.ErrUsernameTaken.
func (r *Repository) Create(ctx context.Context, username string) error {
	query := `
		INSERT INTO accounts (username, balance, income_rate, secondary_income_rate, buff_unlocked)
		VALUES ($1, 0, 1, 0, FALSE)
	`
	_, err := r.db.Exec(ctx, query, username)
	if err != nil {
		// 23505 — unique_violation
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("ошибка создания учётной записи: %w", err)
	}
	return nil
}

// UpdateByUsername полностью заменяет снапшот по имени пользователя.
// Семантика write-through: приходит вся четвёрка целиком.
func (r *Repository) UpdateByUsername(ctx context.Context, username string, snap UpdateSnapshot) error {
	query := `
		UPDATE accounts
		SET balance = $2, income_rate = $3, secondary_income_rate = $4, buff_unlocked = $5, updated_at = NOW()
		WHERE username = $1
	`
	tag, err := r.db.Exec(ctx, query, username,
		snap.Balance, snap.IncomeRate, snap.SecondaryIncomeRate, snap.BuffUnlocked)
	if err != nil {
		return fmt.Errorf("ошибка обновления учётной записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// Delete удаляет учётную запись по id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления учётной записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}

// GetByUsername возвращает учётную запись по имени.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	query := `
		SELECT id, username, balance, income_rate, secondary_income_rate, buff_unlocked, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`
	var a Account
	err := r.db.QueryRow(ctx, query, username).Scan(
		&a.ID, &a.Username, &a.Balance, &a.IncomeRate,
		&a.SecondaryIncomeRate, &a.BuffUnlocked, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения учётной записи: %w", err)
	}
	return &a, nil
}
