package repositories

import (
	"database/sql"
	"time"

	"leadhub/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	Update(user *models.User) error
	Delete(id int) error
	List(limit, offset int) ([]*models.User, error)
	GetByEmail(email string) (*models.User, error)

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (name, email, password_hash, role_id, refresh_token, refresh_expires_at, refresh_revoked, telegram_chat_id, notify_telegram)
		VALUES ($1, $2, $3, $4, NULL, NULL, FALSE, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRow(q,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		user.TelegramChatID,
		user.NotifyTelegram,
	).Scan(&user.ID)
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		roleID   sql.NullInt64
		rt       sql.NullString
		rte      sql.NullTime
		rr       sql.NullBool
		tgChatID sql.NullInt64
		tgNotify sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roleID,
		&rt, &rte, &rr,
		&tgChatID, &tgNotify,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if roleID.Valid {
		u.RoleID = int(roleID.Int64)
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	if rr.Valid {
		u.RefreshRevoked = rr.Bool
	}
	if tgChatID.Valid {
		id := tgChatID.Int64
		u.TelegramChatID = &id
	}
	if tgNotify.Valid {
		u.NotifyTelegram = tgNotify.Bool
	}
	return u, nil
}

const userColumns = `
	id, name, email, password_hash, role_id,
	refresh_token, refresh_expires_at, refresh_revoked,
	telegram_chat_id, notify_telegram
`

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token))
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET name=$1, email=$2, password_hash=$3, role_id=$4, telegram_chat_id=$5, notify_telegram=$6
		WHERE id=$7
	`
	_, err := r.DB.Exec(q,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		user.TelegramChatID,
		user.NotifyTelegram,
		user.ID,
	)
	return err
}

func (r *userRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT id, name, email, role_id, COALESCE(telegram_chat_id, 0), COALESCE(notify_telegram, FALSE)
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u := &models.User{}
		var tgChatID int64
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &tgChatID, &u.NotifyTelegram); err != nil {
			return nil, err
		}
		if tgChatID != 0 {
			u.TelegramChatID = &tgChatID
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, userID)
	return err
}

func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE refresh_token=$3 AND NOT refresh_revoked
		RETURNING ` + userColumns
	return r.scanUser(r.DB.QueryRow(q, newToken, newExpiresAt, oldToken))
}

func (r *userRepository) ClearRefresh(userID int) error {
	const q = `
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1
	`
	_, err := r.DB.Exec(q, userID)
	return err
}
