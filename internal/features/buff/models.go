// Package buff управляет жизненным циклом денежного дождя —
// временного удвоения дохода с заморозкой магазина.
// models.go описывает внешнее представление состояния баффа.
package buff

// State — снимок состояния баффа для отображения и логов.
// Сам бафф никогда не персистится: его эффект (доход после дождя)
// сохраняется через обычный экономический снапшот.
type State struct {
	Active         bool  `json:"active"`         // Идёт ли дождь
	BaseIncome     int64 `json:"baseIncome"`     // Доход в момент запуска
	OverrideIncome int64 `json:"overrideIncome"` // Доход во время дождя (база × множитель)
	RemainingTicks int   `json:"remainingTicks"` // Сколько тиков осталось
}
