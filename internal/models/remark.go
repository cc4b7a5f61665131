package models

import "time"

// Remark — запись аудита перехода: помечается ЦЕЛЕВЫМ этапом, не текущим.
type Remark struct {
	ID           int        `json:"id"`
	LeadID       int        `json:"lead_id"`
	StageID      int        `json:"stage_id"`
	Text         string     `json:"text"`
	ProjectValue *float64   `json:"project_value,omitempty"`
	CreatedBy    int        `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// RemarkDraft — универсальный финальный шаг любого перехода.
// AssignedToUserID/NotifiedToUserID: 0 — не выбран.
type RemarkDraft struct {
	Text             string     `json:"text"`
	ProjectValue     *float64   `json:"project_value,omitempty"`
	AssignedToUserID int        `json:"assigned_to_user_id,omitempty"`
	NotifiedToUserID int        `json:"notified_to_user_id,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
}
