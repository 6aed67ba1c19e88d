// Package session — models.go описывает представления состояния сессии,
// которые отдаются внешнему слою (UI) через HTTP-границу.
package session

import (
	"moneyrain.ru/clicker/internal/features/buff"
	"moneyrain.ru/clicker/internal/features/economy"
)

// StateView — полный вид состояния сессии для отображения.
type StateView struct {
	Username        string             `json:"username"`
	Snapshot        economy.Snapshot   `json:"snapshot"`
	EffectiveIncome int64              `json:"effectiveIncome"` // Доход за клик прямо сейчас
	Shop            []economy.ShopItem `json:"shop"`
	Buff            buff.State         `json:"buff"`
	Counter         int                `json:"counter"` // Счётчик покупок «Апгрейда» (0..2)
}

// ClickResult — результат одного клика.
type ClickResult struct {
	Balance         int64 `json:"balance"`
	EffectiveIncome int64 `json:"effectiveIncome"`
}

// PurchaseView — результат попытки покупки для клиента.
type PurchaseView struct {
	Applied bool      `json:"applied"`
	State   StateView `json:"state"`
}
