package store

import (
	"context"

	"microfin/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// TransactionWithRefs is a transaction row populated with account, client
// user and officer user references.
type TransactionWithRefs struct {
	models.Transaction
	AccountCode      *string `db:"account_code"`
	ClientCode       *string `db:"client_code"`
	ClientFirstname  *string `db:"client_firstname"`
	ClientSurname    *string `db:"client_surname"`
	OfficerCode      *string `db:"officer_code"`
	OfficerFirstname *string `db:"officer_firstname"`
	OfficerSurname   *string `db:"officer_surname"`
	LoanCode         *string `db:"loan_code"`
}

type TransactionInput struct {
	ID            string
	TxnCode       string
	ClientID      string
	AccountID     string
	LoanID        *string
	OfficerID     *string
	Type          string
	Amount        int64
	PaymentFor    string
	PaymentMethod string
	Remarks       string
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, txn_code, client_id, account_id, loan_id, officer_id, type, amount,
		                          payment_for, payment_method, remarks, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.TxnCode, input.ClientID, input.AccountID, input.LoanID, input.OfficerID,
		input.Type, input.Amount, input.PaymentFor, input.PaymentMethod, input.Remarks,
	)
	return err
}

const transactionColumns = `
	id, txn_code, client_id, account_id, loan_id, officer_id, type, amount,
	payment_for, payment_method, remarks, status, created_at, updated_at
`

func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, transactionID)
	return row, err
}

// GetForUpdate locks the transaction row so that two concurrent approvals
// serialize; only one observes a non-approved status.
func (s *TransactionStore) GetForUpdate(ctx context.Context, tx Getter, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE
	`, transactionID)
	return row, err
}

const transactionRefsQuery = `
	SELECT t.id, t.txn_code, t.client_id, t.account_id, t.loan_id, t.officer_id, t.type, t.amount,
	       t.payment_for, t.payment_method, t.remarks, t.status, t.created_at, t.updated_at,
	       a.account_code, c.client_code,
	       cu.firstname AS client_firstname, cu.surname AS client_surname,
	       o.officer_code,
	       ou.firstname AS officer_firstname, ou.surname AS officer_surname,
	       l.loan_code
	FROM transactions t
	LEFT JOIN accounts a ON a.id = t.account_id
	LEFT JOIN clients c ON c.id = t.client_id
	LEFT JOIN users cu ON cu.id = c.user_id
	LEFT JOIN officers o ON o.id = t.officer_id
	LEFT JOIN users ou ON ou.id = o.user_id
	LEFT JOIN loans l ON l.id = t.loan_id
`

func (s *TransactionStore) ListWithRefs(ctx context.Context) ([]TransactionWithRefs, error) {
	var rows []TransactionWithRefs
	err := s.db.SelectContext(ctx, &rows, transactionRefsQuery+`
		WHERE t.status <> 'deleted'
		ORDER BY t.created_at DESC
	`)
	return rows, err
}

func (s *TransactionStore) GetWithRefs(ctx context.Context, transactionID string) (TransactionWithRefs, error) {
	var row TransactionWithRefs
	err := s.db.GetContext(ctx, &row, transactionRefsQuery+` WHERE t.id = $1`, transactionID)
	return row, err
}

// MarkApproved flips a transaction to approved only if it is not already
// approved, and reports whether this call won the transition. The condition
// is the last line of defense behind the row lock.
func (s *TransactionStore) MarkApproved(ctx context.Context, tx Execer, transactionID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = 'approved', updated_at = NOW()
		WHERE id = $1 AND status <> 'approved'
	`, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TransactionUpdate is the allow-listed field overwrite applied when an
// update carries no ledger effect.
type TransactionUpdate struct {
	Status        string
	PaymentMethod string
	Remarks       string
}

func (s *TransactionStore) UpdateFields(ctx context.Context, tx Execer, transactionID string, update TransactionUpdate) error {
	builder := newUpdateBuilder("transactions")
	builder.set("status", update.Status)
	builder.set("payment_method", update.PaymentMethod)
	builder.set("remarks", update.Remarks)
	if builder.empty() {
		return nil
	}
	builder.touch()
	return builder.execTx(ctx, tx, transactionID)
}

func (s *TransactionStore) Delete(ctx context.Context, transactionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
