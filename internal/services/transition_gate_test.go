package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leadhub/internal/models"
)

func TestCanSelect(t *testing.T) {
	active := func(index int) models.Stage {
		return models.Stage{ID: index + 1, Name: "stage", Order: (index + 1) * 10, Active: true, Index: index}
	}

	tests := []struct {
		name  string
		stage models.Stage
		state models.ProgressionState
		want  bool
	}{
		{
			name:  "следующий этап выбирается",
			stage: active(2),
			state: models.ProgressionState{CurrentStageIndex: 1},
			want:  true,
		},
		{
			name:  "перескок через несколько этапов разрешён",
			stage: active(4),
			state: models.ProgressionState{CurrentStageIndex: 0},
			want:  true,
		},
		{
			name:  "лид без этапа может выбрать первый",
			stage: active(0),
			state: models.ProgressionState{CurrentStageIndex: -1},
			want:  true,
		},
		{
			name:  "текущий этап не выбирается",
			stage: active(1),
			state: models.ProgressionState{CurrentStageIndex: 1},
			want:  false,
		},
		{
			name:  "назад не ходим",
			stage: active(0),
			state: models.ProgressionState{CurrentStageIndex: 2},
			want:  false,
		},
		{
			name:  "неактивный этап не выбирается даже впереди",
			stage: models.Stage{ID: 4, Name: "paused", Order: 40, Active: false, Index: 3},
			state: models.ProgressionState{CurrentStageIndex: 1},
			want:  false,
		},
		{
			name:  "потерянный лид заморожен",
			stage: active(2),
			state: models.ProgressionState{CurrentStageIndex: 1, IsLost: true},
			want:  false,
		},
		{
			name:  "выигранный лид заморожен",
			stage: active(2),
			state: models.ProgressionState{CurrentStageIndex: 1, IsWon: true},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSelect(tt.stage, tt.state))
		})
	}
}
