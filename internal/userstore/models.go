// Package userstore — клиент удалённого хранилища пользователей.
// models.go описывает формат данных, которыми обмениваются
// игровой сервис и хранилище.
package userstore

// User представляет запись пользователя в хранилище.
// Это канонический персистентный вид: имя + экономический снапшот.
type User struct {
	ID                  int64  `json:"id"`                  // Уникальный ID записи
	Username            string `json:"username"`            // Уникальное имя (ключ для апдейтов)
	Balance             int64  `json:"balance"`             // Баланс монет
	IncomeRate          int64  `json:"incomeRate"`          // Доход за клик
	SecondaryIncomeRate int64  `json:"secondaryIncomeRate"` // Дополнительный доход (резерв)
	BuffUnlocked        bool   `json:"buffUnlocked"`        // Открыт ли денежный дождь
}

// listUsersResponse — ответ GET /users.
type listUsersResponse struct {
	Users []User `json:"users"`
}

// createUserRequest — тело POST /users.
type createUserRequest struct {
	Username string `json:"username"`
}

// updateUserRequest — тело PUT /users.
// Полная замена снапшота по имени пользователя.
type updateUserRequest struct {
	Username            string `json:"username"`
	Balance             int64  `json:"balance"`
	IncomeRate          int64  `json:"incomeRate"`
	SecondaryIncomeRate int64  `json:"secondaryIncomeRate"`
	BuffUnlocked        bool   `json:"buffUnlocked"`
}

// deleteUserRequest — тело DELETE /users.
// ID передаётся в теле запроса, а не в пути.
type deleteUserRequest struct {
	ID int64 `json:"id"`
}
