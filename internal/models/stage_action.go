package models

import "time"

// StageAction — запись о введённой сумме для этапов с обязательным значением
// (например, сумма сделки перед переходом на «Закрытие»).
type StageAction struct {
	ID          int       `json:"id"`
	LeadID      int       `json:"lead_id"`
	StageName   string    `json:"stage_name"`
	Amount      float64   `json:"amount"`
	PerformedBy int       `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}
