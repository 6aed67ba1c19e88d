// Package session — syncer.go содержит синхронизатор персистентности.
//
// Каждое зафиксированное изменение четвёрки (баланс, доход,
// дополнительный доход, флаг дождя) порождает один асинхронный
// write-through в хранилище. Ответы могут приходить не по порядку,
// поэтому каждая запись несёт монотонно растущую версию: сверить
// канонический снапшот разрешается только ответу с наибольшей
// версией из увиденных. Так устаревший ответ не затрёт более
// свежие локальные значения.
package session

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/features/economy"
)

// StoreWriter — часть клиента хранилища, нужная синхронизатору.
type StoreWriter interface {
	UpdateUser(ctx context.Context, username string, balance, incomeRate, secondaryIncomeRate int64, buffUnlocked bool) error
}

// Syncer выполняет write-through снапшотов одной сессии.
type Syncer struct {
	store    StoreWriter
	username string

	// onReconcile вызывается с подтверждённым снапшотом —
	// контейнер сессий делает его каноническим.
	onReconcile func(economy.Snapshot)

	mu          sync.Mutex
	nextVersion uint64 // версия последней выданной записи
	reconciled  uint64 // наибольшая версия, прошедшая сверку

	wg sync.WaitGroup
}

// NewSyncer создаёт синхронизатор для пользователя username.
func NewSyncer(store StoreWriter, username string, onReconcile func(economy.Snapshot)) *Syncer {
	return &Syncer{
		store:       store,
		username:    username,
		onReconcile: onReconcile,
	}
}

// Push асинхронно записывает снапшот в хранилище.
// Не блокирует вызывающего: клики и покупки остаются отзывчивыми,
// пока запись в полёте. При ошибке записи локальное состояние НЕ
// откатывается — следующее изменение само станет повторной попыткой.
func (s *Syncer) Push(snap economy.Snapshot) {
	s.mu.Lock()
	s.nextVersion++
	version := s.nextVersion
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.write(context.Background(), version, snap)
	}()
}

// Flush синхронно записывает снапшот (финальная запись при логауте).
// Ошибка логируется и возвращается, но логаут она не блокирует.
func (s *Syncer) Flush(ctx context.Context, snap economy.Snapshot) error {
	s.mu.Lock()
	s.nextVersion++
	version := s.nextVersion
	s.mu.Unlock()

	return s.write(ctx, version, snap)
}

// Wait дожидается завершения всех записей в полёте.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

// write выполняет одну запись и, при успехе, сверяет снапшот.
func (s *Syncer) write(ctx context.Context, version uint64, snap economy.Snapshot) error {
	err := s.store.UpdateUser(ctx, s.username,
		snap.Balance, snap.IncomeRate, snap.SecondaryIncomeRate, snap.BuffUnlocked)
	if err != nil {
		// Не фатально: локальная экономика продолжает работать
		// на несохранённых значениях, ретрая по расписанию нет.
		log.WithError(err).WithFields(log.Fields{
			"username": s.username,
			"version":  version,
		}).Error("Ошибка записи снапшота в хранилище")
		return err
	}

	// Сверка выполняется под мьютексом: проверка версии и вызов
	// колбэка должны быть атомарны, иначе два успешных ответа могут
	// сверить снапшоты не по порядку.
	s.mu.Lock()
	defer s.mu.Unlock()

	if version <= s.reconciled {
		// Ответ более старой записи пришёл после более новой —
		// сверку пропускаем, канонический снапшот не трогаем.
		log.WithFields(log.Fields{
			"username": s.username,
			"version":  version,
		}).Debug("Устаревший ответ хранилища — сверка пропущена")
		return nil
	}
	s.reconciled = version

	if s.onReconcile != nil {
		s.onReconcile(snap)
	}
	return nil
}
