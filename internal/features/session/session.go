// Package session — session.go содержит объект активной сессии.
//
// Сессия владеет рабочей копией экономики, планировщиком дождя
// и синхронизатором. Один мьютекс сериализует все мутации состояния
// (клики, покупки) — модель одного логического потока управления.
// Сами записи в хранилище асинхронны (выполняются горутинами
// синхронизатора), но их версии выдаются под мьютексом сессии:
// порядок версий совпадает с порядком фиксации изменений.
package session

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/common"
	"moneyrain.ru/clicker/internal/config"
	"moneyrain.ru/clicker/internal/features/buff"
	"moneyrain.ru/clicker/internal/features/economy"
)

// Session — активная игровая сессия одного пользователя.
// Создаётся контейнером при логине из персистентного снапшота,
// уничтожается при логауте. Одновременно существует не более одной.
type Session struct {
	mu sync.Mutex

	username string
	econ     *economy.State
	rain     *buff.Scheduler
	syncer   *Syncer
}

// newSession создаёт сессию, засеянную снапшотом snap.
func newSession(username string, snap economy.Snapshot, cfg *config.Config, syncer *Syncer) *Session {
	return &Session{
		username: username,
		econ:     economy.NewState(snap, cfg),
		rain: buff.NewScheduler(
			cfg.BuffDurationTicks,
			cfg.BuffIncomeMultiplier,
			cfg.BuffTickInterval,
		),
		syncer: syncer,
	}
}

// Username возвращает имя владельца сессии.
func (s *Session) Username() string {
	return s.username
}

// Click обрабатывает один клик: начисляет эффективный доход.
// Во время дождя это доход баффа (база × множитель),
// иначе — обычный доход за клик.
func (s *Session) Click() ClickResult {
	s.mu.Lock()
	effective := s.effectiveIncomeLocked()
	balance := s.econ.ApplyClick(effective)
	snap := s.econ.Snapshot()
	// Push не блокирует: он только выдаёт версию записи и запускает
	// горутину. Версия обязана выдаваться под мьютексом — иначе два
	// параллельных клика могут зафиксироваться в одном порядке,
	// а версии получить в обратном, и сверка выберет устаревший снапшот.
	s.syncer.Push(snap)
	s.mu.Unlock()

	return ClickResult{Balance: balance, EffectiveIncome: effective}
}

// Purchase обрабатывает попытку покупки товара itemID.
// Во время дождя магазин заморожен: покупка отклоняется независимо
// от баланса. Каждая третья успешная покупка «Апгрейда» запускает дождь.
func (s *Session) Purchase(itemID int64) PurchaseView {
	s.mu.Lock()
	res := s.econ.Purchase(itemID, s.rain.Active())
	if res.BuffTriggered {
		s.rain.Activate(res.BaseIncome)
	}
	if res.Applied {
		// Только применённая покупка меняет четвёрку.
		// Версия записи выдаётся под мьютексом — в порядке фиксации.
		s.syncer.Push(s.econ.Snapshot())
	}
	view := s.viewLocked()
	s.mu.Unlock()

	return PurchaseView{Applied: res.Applied, State: view}
}

// View возвращает полное состояние сессии для отображения.
func (s *Session) View() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Snapshot возвращает текущую рабочую четвёрку.
func (s *Session) Snapshot() economy.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.econ.Snapshot()
}

// Close останавливает сессию: принудительно гасит дождь и выполняет
// финальную синхронную запись. Ошибка записи логируется, но остановку
// не блокирует.
func (s *Session) Close(ctx context.Context) error {
	// Дождь гасится ДО финальной записи — тикер не должен пережить сессию
	s.rain.Deactivate()

	s.mu.Lock()
	snap := s.econ.Snapshot()
	s.mu.Unlock()

	// Дожидаемся записей в полёте: асинхронный write-through не должен
	// приземлиться в хранилище ПОСЛЕ финальной записи и затереть её
	// устаревшей четвёркой для следующего логина.
	s.syncer.Wait()

	err := s.syncer.Flush(ctx, snap)

	log.WithFields(log.Fields{
		"username": s.username,
		"balance":  common.FormatBalance(snap.Balance),
	}).Info("Сессия остановлена")

	return err
}

// effectiveIncomeLocked возвращает текущий эффективный доход за клик.
// Вызывается с удержанным s.mu. Чтение у планировщика атомарное:
// тикер дождя живёт в своей горутине, и раздельные Active/OverrideIncome
// позволили бы дождю истечь между вызовами и начислить ноль.
func (s *Session) effectiveIncomeLocked() int64 {
	return s.rain.EffectiveIncome(s.econ.Snapshot().IncomeRate)
}

// viewLocked собирает StateView. Вызывается с удержанным s.mu.
func (s *Session) viewLocked() StateView {
	return StateView{
		Username:        s.username,
		Snapshot:        s.econ.Snapshot(),
		EffectiveIncome: s.effectiveIncomeLocked(),
		Shop:            s.econ.Catalog(),
		Buff:            s.rain.Snapshot(),
		Counter:         s.econ.CounterValue(),
	}
}
