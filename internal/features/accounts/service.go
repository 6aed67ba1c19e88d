// Package accounts — service.go содержит бизнес-логику хранилища:
// валидацию имён и координацию операций с репозиторием.
package accounts

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/common"
	"moneyrain.ru/clicker/internal/config"
)

// Repo — контракт репозитория, нужный сервису.
// Его реализует *Repository; в тестах подменяется фейком в памяти.
type Repo interface {
	List(ctx context.Context) ([]*Account, error)
	Create(ctx context.Context, username string) error
	UpdateByUsername(ctx context.Context, username string, snap UpdateSnapshot) error
	Delete(ctx context.Context, id int64) error
}

// Service управляет коллекцией учётных записей.
type Service struct {
	repo Repo
	cfg  *config.StoreConfig
}

// NewService создаёт новый сервис учётных записей.
func NewService(repo Repo, cfg *config.StoreConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// List возвращает все учётные записи.
func (s *Service) List(ctx context.Context) ([]*Account, error) {
	return s.repo.List(ctx)
}

// Create создаёт учётную запись после валидации имени.
//
// Проверки:
//   - Имя не пустое (пробелы по краям обрезаются)
//   - Имя не длиннее лимита из конфигурации
//   - Уникальность проверяет база (unique-индекс)
func (s *Service) Create(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return common.ErrEmptyUsername
	}
	if len(username) > s.cfg.UsernameMaxLength {
		return common.ErrUsernameTooLong
	}

	if err := s.repo.Create(ctx, username); err != nil {
		return err
	}

	log.WithField("username", username).Info("Учётная запись создана")
	return nil
}

// Update полностью заменяет снапшот по имени пользователя.
func (s *Service) Update(ctx context.Context, username string, snap UpdateSnapshot) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return common.ErrEmptyUsername
	}
	return s.repo.UpdateByUsername(ctx, username, snap)
}

// Delete удаляет учётную запись по id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.WithField("id", id).Info("Учётная запись удалена")
	return nil
}
