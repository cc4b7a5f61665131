package models

import (
	"time"
)

type Leads struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	OwnerID     int       `json:"owner_id"`
	StageID     int       `json:"stage_id"` // 0 — лид ещё не вошёл в воронку
	IsLost      bool      `json:"is_lost"`
	IsWon       bool      `json:"is_won"`
}

// ProgressionState — положение лида в воронке на момент клика.
// IsLost/IsWon — терминальные флаги: после любого из них переходы заморожены.
type ProgressionState struct {
	LeadID            int  `json:"lead_id"`
	CurrentStageID    int  `json:"current_stage_id"`
	CurrentStageIndex int  `json:"current_stage_index"` // -1, если этап ещё не назначен
	IsLost            bool `json:"is_lost"`
	IsWon             bool `json:"is_won"`
}
