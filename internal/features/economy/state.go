// Package economy — state.go содержит рабочую копию экономики сессии.
// Все операции над состоянием вызываются сериализованно (сессия держит
// один мьютекс на все мутации), поэтому здесь синхронизации нет.
package economy

import (
	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/common"
	"moneyrain.ru/clicker/internal/config"
)

// State — рабочая копия экономики активной сессии.
// Создаётся при логине из персистентного снапшота, живёт до логаута.
// Каталог и счётчик покупок транзиентны: при каждом логине
// цены сбрасываются к дефолтам, счётчик — в 0.
type State struct {
	snap    Snapshot
	catalog []ShopItem
	counter *PurchaseCounter
	cfg     *config.Config
}

// NewState создаёт рабочую копию экономики из снапшота.
func NewState(snap Snapshot, cfg *config.Config) *State {
	return &State{
		snap:    snap,
		catalog: NewCatalog(cfg),
		counter: NewPurchaseCounter(cfg.BuffTriggerPurchases),
		cfg:     cfg,
	}
}

// PurchaseResult — результат попытки покупки.
type PurchaseResult struct {
	Applied       bool  // Покупка применена?
	BuffTriggered bool  // Запустился ли денежный дождь этой покупкой
	BaseIncome    int64 // Доход на момент срабатывания (база для баффа)
}

// ApplyClick начисляет доход за один клик.
// effectiveIncome передаёт вызывающий: во время дождя это доход баффа,
// иначе — обычный IncomeRate. Операция всегда успешна.
func (s *State) ApplyClick(effectiveIncome int64) int64 {
	s.snap.Balance += effectiveIncome
	return s.snap.Balance
}

// Purchase пытается купить товар itemID.
//
// Алгоритм:
//  1. Если магазин заморожен (идёт дождь) — отказ без изменений
//  2. Ищем товар; неизвестный ID — отказ без изменений
//  3. Если баланс меньше цены — отказ без изменений
//  4. Списываем цену, применяем эффект товара
//  5. Товар 1 двигает счётчик покупок; каждая третья — запуск дождя
//  6. Цена купленного товара масштабируется ровно один раз
//
// Отказ — не ошибка: операция просто не применяется (applied=false),
// баланс и каталог остаются нетронутыми.
func (s *State) Purchase(itemID int64, frozen bool) PurchaseResult {
	if frozen {
		log.WithField("item_id", itemID).Debug("Покупка отклонена: магазин заморожен дождём")
		return PurchaseResult{}
	}

	item := s.findItem(itemID)
	if item == nil {
		log.WithField("item_id", itemID).Warn("Покупка отклонена: неизвестный товар")
		return PurchaseResult{}
	}

	if s.snap.Balance < item.Cost {
		log.WithFields(log.Fields{
			"item_id": itemID,
			"cost":    item.Cost,
			"balance": s.snap.Balance,
		}).Debug("Покупка отклонена: недостаточно монет")
		return PurchaseResult{}
	}

	// Списываем цену и применяем эффект
	s.snap.Balance -= item.Cost
	s.snap.IncomeRate = ApplyEffect(item.Effect, s.snap.IncomeRate, s.cfg.ShopItem2Multiplier)

	res := PurchaseResult{Applied: true}

	// Только «Апгрейд» двигает счётчик дождя
	if item.Effect == EffectIncrement && s.counter.Bump() {
		res.BuffTriggered = true
		res.BaseIncome = s.snap.IncomeRate
	}

	// Цена купленного товара растёт ровно один раз за покупку
	item.Cost *= item.costScale

	log.WithFields(log.Fields{
		"item":    item.Name,
		"balance": common.FormatBalance(s.snap.Balance),
		"income":  s.snap.IncomeRate,
	}).Info("Покупка применена")

	return res
}

// Snapshot возвращает текущую четвёрку значений.
func (s *State) Snapshot() Snapshot {
	return s.snap
}

// Catalog возвращает копию каталога магазина (для отображения).
func (s *State) Catalog() []ShopItem {
	out := make([]ShopItem, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// CounterValue возвращает текущее значение счётчика покупок (0..порог-1).
func (s *State) CounterValue() int {
	return s.counter.Count()
}

// findItem ищет товар по ID. Возвращает указатель на элемент каталога,
// чтобы покупка могла изменить его цену.
func (s *State) findItem(itemID int64) *ShopItem {
	for i := range s.catalog {
		if s.catalog[i].ID == itemID {
			return &s.catalog[i]
		}
	}
	return nil
}
