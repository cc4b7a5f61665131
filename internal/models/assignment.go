package models

import "time"

type Assignment struct {
	ID         int       `json:"id"`
	LeadID     int       `json:"lead_id"`
	AssignedBy int       `json:"assigned_by"`
	AssignedTo int       `json:"assigned_to"`
	NotifyTo   int       `json:"notify_to,omitempty"` // 0 — без уведомляемого
	CreatedAt  time.Time `json:"created_at"`
}
