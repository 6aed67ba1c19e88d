// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: периодическое автосохранение
// активной сессии в удалённое хранилище.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Flusher — то, что умеет сбросить состояние активной сессии в хранилище.
type Flusher interface {
	FlushActive(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	flusher  Flusher
	interval time.Duration
}

// NewScheduler создаёт планировщик автосохранения.
func NewScheduler(flusher Flusher, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		flusher:  flusher,
		interval: interval,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Автосохранение — страховка на случай падения процесса:
	// основная запись идёт сразу после каждого клика/покупки.
	spec := fmt.Sprintf("@every %s", s.interval)
	s.cron.AddFunc(spec, func() {
		log.Debug("[CRON] Автосохранение сессии")
		if err := s.flusher.FlushActive(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка автосохранения")
		}
	})

	s.cron.Start()
	log.WithField("interval", s.interval).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
