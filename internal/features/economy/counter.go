// Package economy — counter.go отвечает за счётчик покупок «Апгрейда».
// Каждая третья покупка товара 1 запускает денежный дождь.
package economy

// PurchaseCounter считает подряд идущие покупки товара «Апгрейд».
// Это счётчик по модулю threshold: достигнув порога, он немедленно
// сбрасывается в 0 — это и есть момент запуска баффа.
// Покупки «Супер-апгрейда» счётчик не трогают.
type PurchaseCounter struct {
	count     int
	threshold int
}

// NewPurchaseCounter создаёт счётчик с порогом threshold (обычно 3).
func NewPurchaseCounter(threshold int) *PurchaseCounter {
	return &PurchaseCounter{threshold: threshold}
}

// Bump увеличивает счётчик и сообщает, достигнут ли порог.
// При достижении порога счётчик сбрасывается в 0 в том же вызове.
//
// Примеры (порог 3):
//
//	Bump() → false (счётчик 1)
//	Bump() → false (счётчик 2)
//	Bump() → true  (счётчик снова 0 — пора запускать дождь)
func (c *PurchaseCounter) Bump() bool {
	c.count++
	if c.count >= c.threshold {
		c.count = 0
		return true
	}
	return false
}

// Count возвращает текущее значение счётчика (0..threshold-1).
func (c *PurchaseCounter) Count() int {
	return c.count
}

// Reset сбрасывает счётчик в 0. Вызывается при старте новой сессии.
func (c *PurchaseCounter) Reset() {
	c.count = 0
}
