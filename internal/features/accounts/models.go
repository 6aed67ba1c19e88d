// Package accounts управляет коллекцией пользователей в хранилище.
// models.go описывает структуры для работы с таблицей accounts.
package accounts

import "time"

// Account представляет учётную запись игрока в базе данных.
// Имя уникально: это ключ, по которому игровой сервис пишет апдейты.
type Account struct {
	ID                  int64     `db:"id"`                    // Автоинкрементный ID записи
	Username            string    `db:"username"`              // Уникальное имя
	Balance             int64     `db:"balance"`               // Баланс монет
	IncomeRate          int64     `db:"income_rate"`           // Доход за клик
	SecondaryIncomeRate int64     `db:"secondary_income_rate"` // Дополнительный доход
	BuffUnlocked        bool      `db:"buff_unlocked"`         // Открыт ли денежный дождь
	CreatedAt           time.Time `db:"created_at"`            // Когда запись создана
	UpdatedAt           time.Time `db:"updated_at"`            // Последнее обновление
}

// UpdateSnapshot содержит четвёрку значений для полной замены.
// Используется PUT-апдейтом: хранилище не мёржит, а заменяет всё.
type UpdateSnapshot struct {
	Balance             int64
	IncomeRate          int64
	SecondaryIncomeRate int64
	BuffUnlocked        bool
}
