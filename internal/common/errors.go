// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях игры.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять клиенту понятные сообщения.
package common

import "errors"

// Ошибки логина и сессии
var (
	// ErrUserNotFound — пользователь с таким именем не найден в хранилище
	ErrUserNotFound = errors.New("пользователь с таким именем не найден")
	// ErrNoActiveSession — операция требует активной сессии
	ErrNoActiveSession = errors.New("нет активной сессии")
)

// Ошибки хранилища пользователей
var (
	// ErrEmptyUsername — пустое имя пользователя
	ErrEmptyUsername = errors.New("имя пользователя не может быть пустым")
	// ErrUsernameTooLong — имя длиннее допустимого
	ErrUsernameTooLong = errors.New("имя пользователя слишком длинное")
	// ErrUsernameTaken — имя уже занято
	ErrUsernameTaken = errors.New("имя пользователя уже занято")
	// ErrAccountNotFound — запись с таким id не найдена
	ErrAccountNotFound = errors.New("учётная запись не найдена")
)
