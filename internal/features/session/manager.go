// Package session — manager.go содержит контейнер сессий.
//
// Контейнер — верхнеуровневый владелец канонического снапшота.
// При логине он сеет рабочую копию в новую сессию, получает назад
// сверенные значения от синхронизатора, а при логауте делает
// финальную запись и сбрасывает снапшот к дефолтам. Одновременно
// активна не более одной сессии.
package session

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/common"
	"moneyrain.ru/clicker/internal/config"
	"moneyrain.ru/clicker/internal/features/economy"
	"moneyrain.ru/clicker/internal/userstore"
)

// Store — контракт клиента хранилища, нужный контейнеру.
type Store interface {
	ListUsers(ctx context.Context) ([]userstore.User, error)
	UpdateUser(ctx context.Context, username string, balance, incomeRate, secondaryIncomeRate int64, buffUnlocked bool) error
}

// Manager — контейнер сессий (основной объект игрового сервиса).
type Manager struct {
	store Store
	cfg   *config.Config

	// loginMu сериализует смену сессии целиком (логин/логаут):
	// два параллельных логина не должны оба пройти проверку активной
	// сессии и затереть друг друга без корректного Close.
	loginMu sync.Mutex

	mu        sync.Mutex
	canonical economy.Snapshot // последний подтверждённый снапшот
	sess      *Session         // активная сессия (nil — разлогинен)
}

// NewManager создаёт контейнер в разлогиненном состоянии.
func NewManager(store Store, cfg *config.Config) *Manager {
	return &Manager{
		store:     store,
		cfg:       cfg,
		canonical: economy.DefaultSnapshot(cfg),
	}
}

// Login выполняет вход пользователя username.
//
// Алгоритм:
//  1. Один запрос списка пользователей к хранилищу
//  2. Линейный поиск точного совпадения имени (Resolve)
//  3. Не найден → ErrUserNotFound, состояние не меняется
//  4. Найден → его снапшот сеет новую сессию; засев тоже считается
//     изменением и сразу уходит write-through в хранилище
//
// Если сессия уже активна, она корректно останавливается перед
// созданием новой: одновременно живёт не более одной рабочей копии.
func (m *Manager) Login(ctx context.Context, username string) (*Session, error) {
	users, err := m.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	found, ok := Resolve(users, username)
	if !ok {
		log.WithField("username", username).Info("Логин отклонён: пользователь не найден")
		return nil, common.ErrUserNotFound
	}

	snap := economy.Snapshot{
		Balance:             found.Balance,
		IncomeRate:          found.IncomeRate,
		SecondaryIncomeRate: found.SecondaryIncomeRate,
		BuffUnlocked:        found.BuffUnlocked,
	}
	// Защита от кривых записей в хранилище: нулевой доход делает
	// игру неиграбельной, сеем стартовый
	if snap.IncomeRate <= 0 {
		snap.IncomeRate = m.cfg.EconomyStartingIncome
	}

	m.loginMu.Lock()
	defer m.loginMu.Unlock()

	if prev := m.Current(); prev != nil {
		log.WithField("username", prev.Username()).Warn("Логин при активной сессии — останавливаем предыдущую")
		if err := m.closeActive(ctx); err != nil {
			log.WithError(err).Error("Ошибка остановки предыдущей сессии")
		}
	}

	syncer := NewSyncer(m.store, found.Username, m.setCanonical)
	sess := newSession(found.Username, snap, m.cfg, syncer)

	m.mu.Lock()
	m.sess = sess
	m.canonical = snap
	// Засев — тоже изменение: сразу пишем его в хранилище.
	// Push под мьютексом: версия засева выдаётся раньше, чем новую
	// сессию вообще можно обнаружить через Current.
	syncer.Push(snap)
	m.mu.Unlock()

	log.WithFields(log.Fields{
		"username": found.Username,
		"balance":  common.FormatBalance(snap.Balance),
		"income":   snap.IncomeRate,
	}).Info("✅ Вход выполнен, сессия запущена")

	return sess, nil
}

// Logout останавливает активную сессию: гасит дождь, делает финальную
// запись и сбрасывает канонический снапшот к дефолтам.
// Ошибка финальной записи логируется, но логаут не блокирует.
func (m *Manager) Logout(ctx context.Context) error {
	m.loginMu.Lock()
	defer m.loginMu.Unlock()
	return m.closeActive(ctx)
}

// closeActive выполняет собственно остановку сессии.
// Вызывается с удержанным loginMu.
func (m *Manager) closeActive(ctx context.Context) error {
	m.mu.Lock()
	sess := m.sess
	m.sess = nil
	m.mu.Unlock()

	if sess == nil {
		return common.ErrNoActiveSession
	}

	if err := sess.Close(ctx); err != nil {
		log.WithError(err).Warn("Финальная запись при логауте не удалась")
	}

	m.mu.Lock()
	m.canonical = economy.DefaultSnapshot(m.cfg)
	m.mu.Unlock()

	log.WithField("username", sess.Username()).Info("Выход выполнен, снапшот сброшен")
	return nil
}

// Current возвращает активную сессию или nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// CanonicalSnapshot возвращает последний подтверждённый снапшот.
func (m *Manager) CanonicalSnapshot() economy.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canonical
}

// FlushActive выполняет страховочную запись снапшота активной сессии.
// Вызывается периодической задачей. Без активной сессии — no-op.
func (m *Manager) FlushActive(ctx context.Context) error {
	sess := m.Current()
	if sess == nil {
		return nil
	}
	return sess.syncer.Flush(ctx, sess.Snapshot())
}

// setCanonical — колбэк сверки синхронизатора: подтверждённый
// хранилищем снапшот становится каноническим.
func (m *Manager) setCanonical(snap economy.Snapshot) {
	m.mu.Lock()
	m.canonical = snap
	m.mu.Unlock()
}
