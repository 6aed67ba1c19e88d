// Package buff — scheduler.go содержит конечный автомат дождя.
//
// Состояния: Idle и Active(remaining). Переходы:
//   - Idle → Active(N) по триггеру из экономики (каждая третья покупка)
//   - Active(n) → Active(n-1) раз в тик (секунда)
//   - Active(0) → Idle — естественное окончание
//   - Active(n) → Idle принудительно при логауте или остановке сессии
//
// Тикер — явный отменяемый ресурс: он принадлежит состоянию планировщика
// и гасится при ЛЮБОМ выходе из Active, чтобы не утёк в следующую сессию.
package buff

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/common"
)

// Scheduler — планировщик денежного дождя.
// Все публичные методы потокобезопасны.
type Scheduler struct {
	mu sync.Mutex

	durationTicks int
	multiplier    int64
	interval      time.Duration

	active         bool
	baseIncome     int64
	overrideIncome int64
	remaining      int
	stopCh         chan struct{}

	// onTick вызывается после каждого тика (для тестов и отображения).
	// Может быть nil.
	onTick func(remaining int)
}

// NewScheduler создаёт планировщик в состоянии Idle.
//
// Параметры:
//   - durationTicks: длительность дождя в тиках (обычно 60)
//   - multiplier: множитель дохода (обычно 2)
//   - interval: период одного тика (обычно 1 секунда)
func NewScheduler(durationTicks int, multiplier int64, interval time.Duration) *Scheduler {
	return &Scheduler{
		durationTicks: durationTicks,
		multiplier:    multiplier,
		interval:      interval,
	}
}

// SetOnTick задаёт колбэк, вызываемый после каждого тика.
// Нужно вызывать до Activate.
func (s *Scheduler) SetOnTick(fn func(remaining int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = fn
}

// Activate запускает дождь от текущего дохода baseIncome.
// Повторный триггер во время активного дождя — no-op (таймер НЕ
// перезапускается), возвращает false.
func (s *Scheduler) Activate(baseIncome int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		// При корректной работе счётчика покупок сюда не попасть:
		// магазин заморожен и счётчик не может дойти до порога.
		log.Warn("Повторный запуск дождя во время активного — игнорируем")
		return false
	}

	s.active = true
	s.baseIncome = baseIncome
	s.overrideIncome = baseIncome * s.multiplier
	s.remaining = s.durationTicks
	s.stopCh = make(chan struct{})

	go s.run(s.stopCh)

	log.WithFields(log.Fields{
		"base_income":     baseIncome,
		"override_income": s.overrideIncome,
	}).Infof("☔ Денежный дождь запущен на %d %s", s.remaining, common.PluralizeSeconds(s.remaining))

	return true
}

// Deactivate принудительно останавливает дождь (логаут, остановка сессии).
// Логика идентична естественному окончанию, просто вызывается раньше.
// Повторный вызов безопасен.
func (s *Scheduler) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.deactivateLocked("принудительно")
}

// Active сообщает, идёт ли дождь (магазин заморожен).
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// OverrideIncome возвращает доход во время дождя (база × множитель).
// Вне дождя возвращает 0.
func (s *Scheduler) OverrideIncome() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return 0
	}
	return s.overrideIncome
}

// EffectiveIncome возвращает доход за клик с учётом дождя:
// во время дождя — доход баффа, иначе fallback.
// Проверка активности и чтение дохода выполняются под одним захватом
// мьютекса: дождь не может истечь между ними, клик никогда не
// начислит ноль.
func (s *Scheduler) EffectiveIncome(fallback int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return fallback
	}
	return s.overrideIncome
}

// BaseIncome возвращает доход, зафиксированный в момент запуска.
func (s *Scheduler) BaseIncome() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseIncome
}

// Snapshot возвращает снимок состояния для отображения.
func (s *Scheduler) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Active:         s.active,
		BaseIncome:     s.baseIncome,
		OverrideIncome: s.overrideIncome,
		RemainingTicks: s.remaining,
	}
}

// run — горутина тикера. Живёт ровно пока дождь активен:
// канал stopCh закрывается при любом выходе из Active.
func (s *Scheduler) run(stopCh chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick обрабатывает один тик обратного отсчёта.
func (s *Scheduler) tick() {
	s.mu.Lock()

	if !s.active {
		s.mu.Unlock()
		return
	}

	s.remaining--
	remaining := s.remaining
	onTick := s.onTick

	if s.remaining <= 0 {
		s.deactivateLocked("истёк")
	}
	s.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
}

// deactivateLocked переводит автомат в Idle и гасит тикер.
// Вызывается с удержанным s.mu.
// Эффективный доход возвращается ровно к baseIncome — доходу,
// записанному в момент запуска (покупки были заморожены, так что
// он совпадает с текущим IncomeRate, но восстановление явное).
func (s *Scheduler) deactivateLocked(reason string) {
	s.active = false
	s.remaining = 0
	s.overrideIncome = 0
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}

	log.WithFields(log.Fields{
		"reason":      reason,
		"base_income": s.baseIncome,
	}).Info("Денежный дождь окончен, магазин разморожен")
}
