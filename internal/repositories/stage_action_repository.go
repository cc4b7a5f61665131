package repositories

import (
	"database/sql"
	"log"

	"leadhub/internal/models"
)

type StageActionRepository struct {
	db *sql.DB
}

func NewStageActionRepository(db *sql.DB) *StageActionRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &StageActionRepository{db: db}
}

func (r *StageActionRepository) Create(a *models.StageAction) error {
	const query = `
		INSERT INTO stage_actions (lead_id, stage_name, amount, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRow(query,
		a.LeadID, a.StageName, a.Amount, a.PerformedBy, a.CreatedAt,
	).Scan(&a.ID)
}

func (r *StageActionRepository) ListByLead(leadID int) ([]models.StageAction, error) {
	const query = `
		SELECT id, lead_id, stage_name, amount, performed_by, created_at
		FROM stage_actions
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StageAction
	for rows.Next() {
		var a models.StageAction
		if err := rows.Scan(&a.ID, &a.LeadID, &a.StageName, &a.Amount, &a.PerformedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
