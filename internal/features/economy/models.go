// Package economy управляет внутриигровой экономикой кликера.
// models.go описывает снапшот экономики и каталог магазина.
package economy

import "moneyrain.ru/clicker/internal/config"

// Snapshot — персистентная четвёрка значений экономики.
// Канонический экземпляр принадлежит контейнеру сессий,
// рабочая копия — активной сессии. Одновременно существует
// не более одной рабочей копии.
type Snapshot struct {
	Balance             int64 `json:"balance"`             // Баланс монет (всегда >= 0)
	IncomeRate          int64 `json:"incomeRate"`          // Доход за клик
	SecondaryIncomeRate int64 `json:"secondaryIncomeRate"` // Дополнительный доход (резерв, не изменяется игрой)
	BuffUnlocked        bool  `json:"buffUnlocked"`        // Флаг открытого дождя (не изменяется игрой)
}

// DefaultSnapshot возвращает стартовый снапшот нового игрока.
func DefaultSnapshot(cfg *config.Config) Snapshot {
	return Snapshot{
		Balance:             cfg.EconomyStartingBalance,
		IncomeRate:          cfg.EconomyStartingIncome,
		SecondaryIncomeRate: 0,
		BuffUnlocked:        false,
	}
}

// EffectKind — вид эффекта товара магазина.
type EffectKind string

const (
	// EffectIncrement — +1 к доходу за клик
	EffectIncrement EffectKind = "increment"
	// EffectMultiply — доход за клик умножается
	EffectMultiply EffectKind = "multiply"
)

// ID товаров каталога
const (
	ItemUpgrade      int64 = 1 // «Апгрейд»
	ItemSuperUpgrade int64 = 2 // «Супер-апгрейд»
)

// ShopItem — товар магазина: чистые данные без колбэков.
// Логика эффекта живёт отдельно в effects.go и выбирается по Effect.
type ShopItem struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Cost   int64      `json:"cost"`
	Effect EffectKind `json:"effect"`

	// costScale — во сколько раз дорожает товар после каждой покупки
	costScale int64
}

// NewCatalog создаёт каталог магазина с дефолтными ценами.
// Каталог не персистится: цены сбрасываются к дефолтам при каждом логине.
func NewCatalog(cfg *config.Config) []ShopItem {
	return []ShopItem{
		{
			ID:        ItemUpgrade,
			Name:      "Апгрейд",
			Cost:      cfg.ShopItem1Cost,
			Effect:    EffectIncrement,
			costScale: cfg.ShopItem1CostScale,
		},
		{
			ID:        ItemSuperUpgrade,
			Name:      "Супер-апгрейд",
			Cost:      cfg.ShopItem2Cost,
			Effect:    EffectMultiply,
			costScale: cfg.ShopItem2CostScale,
		},
	}
}
