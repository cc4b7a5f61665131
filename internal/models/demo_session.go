package models

import "time"

const (
	SessionOnline  = "online"
	SessionOffline = "offline"
)

type DemoSession struct {
	ID          int       `json:"id"`
	LeadID      int       `json:"lead_id"`
	SessionType string    `json:"session_type"` // online | offline
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Notes       string    `json:"notes"`
	Place       string    `json:"place"`
	Attendees   []int64   `json:"attendees"`
	Presenters  []int64   `json:"presenters"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type DemoSessionDraft struct {
	SessionType string    `json:"session_type"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Notes       string    `json:"notes"`
	Place       string    `json:"place"`
	Attendees   []int64   `json:"attendees"`
	Presenters  []int64   `json:"presenters"`
}
