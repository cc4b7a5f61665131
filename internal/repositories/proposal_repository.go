package repositories

import (
	"database/sql"
	"log"

	"leadhub/internal/models"
)

type ProposalRepository struct {
	db *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(p *models.Proposal) error {
	const query = `
		INSERT INTO proposals (lead_id, send_mode_id, prepared_by, verified_by, send_by, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRow(query,
		p.LeadID, p.SendModeID, p.PreparedBy, p.VerifiedBy, p.SendBy,
		p.Notes, p.CreatedBy, p.CreatedAt,
	).Scan(&p.ID)
}

func (r *ProposalRepository) ListByLead(leadID int) ([]models.Proposal, error) {
	const query = `
		SELECT id, lead_id, send_mode_id, prepared_by, verified_by, send_by, notes, created_by, created_at
		FROM proposals
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := rows.Scan(&p.ID, &p.LeadID, &p.SendModeID, &p.PreparedBy,
			&p.VerifiedBy, &p.SendBy, &p.Notes, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
