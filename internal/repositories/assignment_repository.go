package repositories

import (
	"database/sql"
	"log"

	"leadhub/internal/models"
)

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(a *models.Assignment) error {
	const query = `
		INSERT INTO assignments (lead_id, assigned_by, assigned_to, notify_to, created_at)
		VALUES ($1, $2, $3, NULLIF($4, 0), $5)
		RETURNING id
	`
	return r.db.QueryRow(query,
		a.LeadID, a.AssignedBy, a.AssignedTo, a.NotifyTo, a.CreatedAt,
	).Scan(&a.ID)
}

func (r *AssignmentRepository) ListByLead(leadID int) ([]models.Assignment, error) {
	const query = `
		SELECT id, lead_id, assigned_by, assigned_to, COALESCE(notify_to, 0), created_at
		FROM assignments
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.LeadID, &a.AssignedBy, &a.AssignedTo, &a.NotifyTo, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
