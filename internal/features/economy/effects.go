// Package economy — effects.go содержит чистые функции переходов дохода.
// Эффект выбирается по виду товара, поэтому каталог остаётся
// сериализуемыми данными, а логика тестируется отдельно.
package economy

// ApplyEffect возвращает новый доход за клик после применения эффекта.
//
// Примеры:
//
//	ApplyEffect(EffectIncrement, 4, 10) → 5
//	ApplyEffect(EffectMultiply, 4, 10)  → 40
func ApplyEffect(kind EffectKind, income int64, multiplier int64) int64 {
	switch kind {
	case EffectIncrement:
		return income + 1
	case EffectMultiply:
		return income * multiplier
	default:
		// Неизвестный эффект — доход не меняется
		return income
	}
}
