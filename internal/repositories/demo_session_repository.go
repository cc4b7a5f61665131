package repositories

import (
	"database/sql"
	"log"

	"github.com/lib/pq"

	"leadhub/internal/models"
)

type DemoSessionRepository struct {
	db *sql.DB
}

func NewDemoSessionRepository(db *sql.DB) *DemoSessionRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &DemoSessionRepository{db: db}
}

func (r *DemoSessionRepository) Create(s *models.DemoSession) error {
	const query = `
		INSERT INTO demo_sessions
			(lead_id, session_type, start_time, end_time, notes, place, attendees, presenters, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.db.QueryRow(query,
		s.LeadID, s.SessionType, s.StartTime, s.EndTime, s.Notes, s.Place,
		pq.Array(s.Attendees), pq.Array(s.Presenters), s.CreatedBy, s.CreatedAt,
	).Scan(&s.ID)
}

func (r *DemoSessionRepository) ListByLead(leadID int) ([]models.DemoSession, error) {
	const query = `
		SELECT id, lead_id, session_type, start_time, end_time, notes, place, attendees, presenters, created_by, created_at
		FROM demo_sessions
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DemoSession
	for rows.Next() {
		var s models.DemoSession
		if err := rows.Scan(&s.ID, &s.LeadID, &s.SessionType, &s.StartTime, &s.EndTime,
			&s.Notes, &s.Place, pq.Array(&s.Attendees), pq.Array(&s.Presenters),
			&s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
