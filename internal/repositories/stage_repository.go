package repositories

import (
	"database/sql"
	"log"

	"leadhub/internal/models"
)

type StageRepository struct {
	db *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &StageRepository{db: db}
}

// List возвращает этапы в порядке sort_order. active может быть NULL в БД —
// тогда этап считается активным.
func (r *StageRepository) List() ([]models.Stage, error) {
	const query = `
		SELECT id, name, sort_order, active
		FROM stages
		ORDER BY sort_order ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Stage
	for rows.Next() {
		var s models.Stage
		var active sql.NullBool
		if err := rows.Scan(&s.ID, &s.Name, &s.Order, &active); err != nil {
			return nil, err
		}
		s.Active = !active.Valid || active.Bool
		out = append(out, s)
	}
	return out, rows.Err()
}
