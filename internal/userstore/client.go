// Package userstore — client.go выполняет HTTP-запросы к хранилищу.
// Клиент не содержит бизнес-логики: только сериализация, запрос,
// проверка статуса и десериализация ответа.
package userstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client — HTTP-клиент хранилища пользователей.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт клиент хранилища.
//
// Параметры:
//   - baseURL: адрес хранилища, например http://userstore:3000
//   - timeout: таймаут одного запроса
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListUsers возвращает всех пользователей хранилища.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("хранилище недоступно: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("хранилище вернуло статус %d", resp.StatusCode)
	}

	var out listUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа: %w", err)
	}
	return out.Users, nil
}

// CreateUser создаёт нового пользователя с нулевым снапшотом.
// Уникальность имени проверяет хранилище.
func (c *Client) CreateUser(ctx context.Context, username string) error {
	return c.send(ctx, http.MethodPost, createUserRequest{Username: username})
}

// UpdateUser полностью заменяет снапшот пользователя по имени.
// Семантика write-through: отправляется вся четвёрка значений целиком.
func (c *Client) UpdateUser(ctx context.Context, username string, balance, incomeRate, secondaryIncomeRate int64, buffUnlocked bool) error {
	return c.send(ctx, http.MethodPut, updateUserRequest{
		Username:            username,
		Balance:             balance,
		IncomeRate:          incomeRate,
		SecondaryIncomeRate: secondaryIncomeRate,
		BuffUnlocked:        buffUnlocked,
	})
}

// DeleteUser удаляет пользователя по ID.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, deleteUserRequest{ID: id})
}

// send сериализует тело, выполняет запрос к /users и проверяет статус.
func (c *Client) send(ctx context.Context, method string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/users", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("хранилище недоступно: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Читаем тело для диагностики, но не более 1 КБ
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("хранилище вернуло статус %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
