package services

import "leadhub/internal/models"

// Правила выбора этапа. Чистая функция, без UI и без БД:
//   - терминальный лид (lost/won) заморожен;
//   - назад и на текущий этап не ходим (индекс строго больше текущего);
//   - неактивный этап виден, но не выбирается.
//
// NB: разрешён выбор ЛЮБОГО этапа впереди, не только соседнего —
// перескок через этапы является рабочим поведением продукта.
func CanSelect(stage models.Stage, p models.ProgressionState) bool {
	if p.IsLost || p.IsWon {
		return false
	}
	if stage.Index <= p.CurrentStageIndex {
		return false
	}
	if !stage.Active {
		return false
	}
	return true
}
