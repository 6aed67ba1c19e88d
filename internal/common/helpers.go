// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация и форматирование сумм.
package common

import (
	"fmt"
	"math"
)

// PluralizeCoins возвращает правильную форму слова «монета» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "монета" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "монеты" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "монет" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeCoins(1)  → "монета"
//	PluralizeCoins(3)  → "монеты"
//	PluralizeCoins(5)  → "монет"
//	PluralizeCoins(11) → "монет"
//	PluralizeCoins(21) → "монета"
func PluralizeCoins(n int64) string {
	// Берём абсолютное значение для отрицательных чисел
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	// Единственное число: 1, 21, 31, 101 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return "монета"
	}

	// Малое множественное: 2-4, 22-24, 32-34 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "монеты"
	}

	// Большое множественное: 0, 5-20, 25-30, 100, ...
	return "монет"
}

// FormatBalance форматирует баланс в читабельную строку.
// Пример: FormatBalance(150) → "150 монет"
func FormatBalance(balance int64) string {
	return fmt.Sprintf("%d %s", balance, PluralizeCoins(balance))
}

// PluralizeSeconds возвращает правильную форму слова «секунда».
//
// Правила:
//   - 1, 21, 31 → "секунда"
//   - 2-4, 22-24 → "секунды"
//   - 5-20, 25-30 → "секунд"
func PluralizeSeconds(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "секунда"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "секунды"
	}
	return "секунд"
}
