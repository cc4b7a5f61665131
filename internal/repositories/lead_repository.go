package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"leadhub/internal/models"
)

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(lead *models.Leads) error {
	const query = `
		INSERT INTO leads (title, description, created_at, owner_id, stage_id, is_lost, is_won)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0), $6, $7)
		RETURNING id
	`
	return r.db.QueryRow(query,
		lead.Title, lead.Description, lead.CreatedAt, lead.OwnerID,
		lead.StageID, lead.IsLost, lead.IsWon,
	).Scan(&lead.ID)
}

func (r *LeadRepository) Update(lead *models.Leads) error {
	const query = `
		UPDATE leads
		SET title=$1, description=$2, owner_id=$3
		WHERE id=$4
	`
	_, err := r.db.Exec(query, lead.Title, lead.Description, lead.OwnerID, lead.ID)
	return err
}

func (r *LeadRepository) GetByID(id int) (*models.Leads, error) {
	const query = `
		SELECT id, title, description, created_at, owner_id, COALESCE(stage_id, 0), is_lost, is_won
		FROM leads
		WHERE id=$1
	`
	row := r.db.QueryRow(query, id)
	lead := &models.Leads{}
	if err := row.Scan(&lead.ID, &lead.Title, &lead.Description, &lead.CreatedAt,
		&lead.OwnerID, &lead.StageID, &lead.IsLost, &lead.IsWon); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) Delete(id int) error {
	const query = `DELETE FROM leads WHERE id=$1`
	_, err := r.db.Exec(query, id)
	return err
}

// UpdateStage — коммит перехода. Ничего кроме stage_id не трогаем.
func (r *LeadRepository) UpdateStage(id, stageID int) error {
	const query = `UPDATE leads SET stage_id=$1 WHERE id=$2`
	res, err := r.db.Exec(query, stageID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lead %d not found", id)
	}
	return nil
}

// SetTerminal выставляет терминальный флаг (lost или won); флаги взаимоисключающие.
func (r *LeadRepository) SetTerminal(id int, lost, won bool) error {
	const query = `UPDATE leads SET is_lost=$1, is_won=$2 WHERE id=$3`
	_, err := r.db.Exec(query, lost, won, id)
	return err
}

func (r *LeadRepository) UpdateOwner(id, ownerID int) error {
	const query = `UPDATE leads SET owner_id=$1 WHERE id=$2`
	_, err := r.db.Exec(query, ownerID, id)
	return err
}

func (r *LeadRepository) ListPaginated(limit, offset int) ([]*models.Leads, error) {
	const query = `
		SELECT id, title, description, created_at, owner_id, COALESCE(stage_id, 0), is_lost, is_won
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(query, limit, offset)
}

func (r *LeadRepository) ListByOwner(ownerID, limit, offset int) ([]*models.Leads, error) {
	const query = `
		SELECT id, title, description, created_at, owner_id, COALESCE(stage_id, 0), is_lost, is_won
		FROM leads
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(query, ownerID, limit, offset)
}

func (r *LeadRepository) list(query string, args ...interface{}) ([]*models.Leads, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Leads
	for rows.Next() {
		var l models.Leads
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.CreatedAt,
			&l.OwnerID, &l.StageID, &l.IsLost, &l.IsWon); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// CountByStage — лиды по этапам для отчёта по воронке.
func (r *LeadRepository) CountByStage() (map[int]int, error) {
	const query = `
		SELECT COALESCE(stage_id, 0), COUNT(*)
		FROM leads
		WHERE NOT is_lost
		GROUP BY stage_id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]int{}
	for rows.Next() {
		var stageID, n int
		if err := rows.Scan(&stageID, &n); err != nil {
			return nil, err
		}
		out[stageID] = n
	}
	return out, rows.Err()
}

func (r *LeadRepository) CountTerminal() (lost, won int, err error) {
	const query = `
		SELECT COUNT(*) FILTER (WHERE is_lost), COUNT(*) FILTER (WHERE is_won)
		FROM leads
	`
	err = r.db.QueryRow(query).Scan(&lost, &won)
	return
}
