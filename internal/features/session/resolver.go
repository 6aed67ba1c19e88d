// Package session — resolver.go содержит алгоритм разрешения логина.
// Это единственная нетривиальная логика экрана выбора аккаунта:
// поиск записи пользователя по точному имени.
package session

import "moneyrain.ru/clicker/internal/userstore"

// Resolve ищет пользователя с именем requested в списке users.
//
// Алгоритм: линейный проход в порядке списка, сравнение имён
// побайтово (с учётом регистра). Побеждает первое совпадение;
// дубликатов не бывает — имена уникальны по построению.
//
// Возвращает найденную запись и признак успеха. Один запрос к
// хранилищу и один проход: результат сразу сеет сессию, второй
// контрольный запрос не выполняется.
func Resolve(users []userstore.User, requested string) (*userstore.User, bool) {
	for i := range users {
		if users[i].Username == requested {
			return &users[i], true
		}
	}
	return nil, false
}
