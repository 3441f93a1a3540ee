package store

import (
	"context"
	"time"

	"microfin/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type UserInput struct {
	ID           string
	Firstname    string
	Surname      string
	Username     string
	Email        string
	PasswordHash string
	Contact      string
	Role         string
}

func (s *UserStore) Create(ctx context.Context, tx Execer, input UserInput) error {
	query := `
		INSERT INTO users (id, firstname, surname, username, email, password_hash, contact, role, status, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', TRUE)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Firstname, input.Surname, input.Username, input.Email,
		input.PasswordHash, input.Contact, input.Role,
	)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, firstname, surname, username, email, password_hash, contact, role, status, verified, last_login, created_at
		FROM users
		WHERE email = $1
	`, email)
	return row, err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, firstname, surname, username, email, password_hash, contact, role, status, verified, last_login, created_at
		FROM users
		WHERE id = $1
	`, userID)
	return row, err
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, firstname, surname, username, email, password_hash, contact, role, status, verified, last_login, created_at
		FROM users
		WHERE status <> 'deleted'
		ORDER BY created_at DESC
	`)
	return rows, err
}

// UserUpdate is the allow-listed partial update; zero-value fields are
// skipped, so callers cannot clear a column through this path.
type UserUpdate struct {
	Firstname string
	Surname   string
	Username  string
	Contact   string
	Role      string
	Status    string
	Verified  *bool
}

func (s *UserStore) Update(ctx context.Context, userID string, update UserUpdate) (int64, error) {
	builder := newUpdateBuilder("users")
	builder.set("firstname", update.Firstname)
	builder.set("surname", update.Surname)
	builder.set("username", update.Username)
	builder.set("contact", update.Contact)
	builder.set("role", update.Role)
	builder.set("status", update.Status)
	if update.Verified != nil {
		builder.setAny("verified", *update.Verified)
	}
	return builder.exec(ctx, s.db, userID)
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, userID)
	return err
}

func (s *UserStore) SoftDelete(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET status = 'deleted' WHERE id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
