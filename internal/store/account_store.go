package store

import (
	"context"

	"microfin/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// AccountWithClient is an account row populated with its client and the
// client's user record.
type AccountWithClient struct {
	models.Account
	ClientCode    *string `db:"client_code"`
	UserFirstname *string `db:"user_firstname"`
	UserSurname   *string `db:"user_surname"`
	UserEmail     *string `db:"user_email"`
}

type AccountInput struct {
	ID          string
	AccountCode string
	ClientID    string
	AccountType string
	Balance     int64
	Status      string
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, input AccountInput) error {
	query := `
		INSERT INTO accounts (id, account_code, client_id, account_type, balance, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.AccountCode, input.ClientID, input.AccountType, input.Balance, input.Status,
	)
	return err
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, account_code, client_id, account_type, balance, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, accountID)
	return row, err
}

// GetByClient returns the client's balance-bearing account. One active
// account per client is the working assumption; the earliest one wins if
// data drifts.
func (s *AccountStore) GetByClient(ctx context.Context, clientID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, account_code, client_id, account_type, balance, status, created_at, updated_at
		FROM accounts
		WHERE client_id = $1 AND status <> 'deleted'
		ORDER BY created_at
		LIMIT 1
	`, clientID)
	return row, err
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, account_code, client_id, account_type, balance, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	return row, err
}

func (s *AccountStore) List(ctx context.Context) ([]AccountWithClient, error) {
	var rows []AccountWithClient
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id, a.account_code, a.client_id, a.account_type, a.balance, a.status, a.created_at, a.updated_at,
		       c.client_code, u.firstname AS user_firstname, u.surname AS user_surname, u.email AS user_email
		FROM accounts a
		LEFT JOIN clients c ON c.id = a.client_id
		LEFT JOIN users u ON u.id = c.user_id
		WHERE a.status <> 'deleted'
		ORDER BY a.created_at DESC
	`)
	return rows, err
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, accountID)
	return err
}

type AccountUpdate struct {
	AccountType string
	Status      string
}

func (s *AccountStore) Update(ctx context.Context, accountID string, update AccountUpdate) (int64, error) {
	builder := newUpdateBuilder("accounts")
	builder.set("account_type", update.AccountType)
	builder.set("status", update.Status)
	if !builder.empty() {
		builder.touch()
	}
	return builder.exec(ctx, s.db, accountID)
}

func (s *AccountStore) SoftDelete(ctx context.Context, accountID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET status = 'deleted', updated_at = NOW() WHERE id = $1
	`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
