package repositories

import (
	"database/sql"
	"log"

	"leadhub/internal/models"
)

type RemarkRepository struct {
	db *sql.DB
}

func NewRemarkRepository(db *sql.DB) *RemarkRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &RemarkRepository{db: db}
}

func (r *RemarkRepository) Create(remark *models.Remark) error {
	const query = `
		INSERT INTO remarks (lead_id, stage_id, text, project_value, created_by, created_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.QueryRow(query,
		remark.LeadID, remark.StageID, remark.Text, remark.ProjectValue,
		remark.CreatedBy, remark.CreatedAt, remark.DueDate,
	).Scan(&remark.ID)
}

// ListByLead — в порядке поступления; дедупликацию делает сервис.
func (r *RemarkRepository) ListByLead(leadID int) ([]models.Remark, error) {
	const query = `
		SELECT id, lead_id, stage_id, text, project_value, created_by, created_at, due_date
		FROM remarks
		WHERE lead_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Remark
	for rows.Next() {
		var m models.Remark
		if err := rows.Scan(&m.ID, &m.LeadID, &m.StageID, &m.Text,
			&m.ProjectValue, &m.CreatedBy, &m.CreatedAt, &m.DueDate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *RemarkRepository) GetByID(id int) (*models.Remark, error) {
	const query = `
		SELECT id, lead_id, stage_id, text, project_value, created_by, created_at, due_date
		FROM remarks
		WHERE id = $1
	`
	var m models.Remark
	err := r.db.QueryRow(query, id).Scan(&m.ID, &m.LeadID, &m.StageID, &m.Text,
		&m.ProjectValue, &m.CreatedBy, &m.CreatedAt, &m.DueDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
