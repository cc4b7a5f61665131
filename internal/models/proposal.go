package models

import "time"

type Proposal struct {
	ID         int       `json:"id"`
	LeadID     int       `json:"lead_id"`
	SendModeID int       `json:"send_mode_id"`
	PreparedBy int       `json:"prepared_by"`
	VerifiedBy int       `json:"verified_by"`
	SendBy     int       `json:"send_by"`
	Notes      string    `json:"notes"`
	CreatedBy  int       `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProposalDraft — все четыре ссылки обязательны, notes — нет.
type ProposalDraft struct {
	SendModeID int    `json:"send_mode_id"`
	PreparedBy int    `json:"prepared_by"`
	VerifiedBy int    `json:"verified_by"`
	SendBy     int    `json:"send_by"`
	Notes      string `json:"notes"`
}
