package store

import (
	"context"
	"time"

	"microfin/internal/models"
)

type LoanStore struct {
	db DB
}

func NewLoanStore(db DB) *LoanStore {
	return &LoanStore{db: db}
}

// LoanWithRefs is a loan row populated with its client, the client's user,
// and the assigned officer's user.
type LoanWithRefs struct {
	models.Loan
	ClientCode       *string `db:"client_code"`
	ClientFirstname  *string `db:"client_firstname"`
	ClientSurname    *string `db:"client_surname"`
	ClientEmail      *string `db:"client_email"`
	OfficerCode      *string `db:"officer_code"`
	OfficerFirstname *string `db:"officer_firstname"`
	OfficerSurname   *string `db:"officer_surname"`
	OfficerEmail     *string `db:"officer_email"`
}

type LoanInput struct {
	ID              string
	LoanCode        string
	ClientID        string
	LoanPurpose     string
	TotalAmount     int64
	AmountRemaining int64
	InterestRate    string
	Schedule        string
	AssignedOfficer *string
	Collateral      *string
	IssuedDate      time.Time
	DueDate         *time.Time
	NextPaymentDate *time.Time
}

func (s *LoanStore) Create(ctx context.Context, tx Execer, input LoanInput) error {
	query := `
		INSERT INTO loans (id, loan_code, client_id, loan_purpose, total_amount, amount_paid, amount_remaining,
		                   interest_rate, payment_status, status, schedule, assigned_officer, collateral_document,
		                   issued_date, due_date, next_payment_date)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, 'not_paid', 'pending', $8, $9, $10, $11, $12, $13)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.LoanCode, input.ClientID, input.LoanPurpose, input.TotalAmount,
		input.AmountRemaining, input.InterestRate, input.Schedule, input.AssignedOfficer,
		input.Collateral, input.IssuedDate, input.DueDate, input.NextPaymentDate,
	)
	return err
}

const loanColumns = `
	id, loan_code, client_id, loan_purpose, total_amount, amount_paid, amount_remaining,
	interest_rate, payment_status, status, schedule, assigned_officer, collateral_document,
	issued_date, due_date, next_payment_date, created_at, updated_at
`

func (s *LoanStore) GetByID(ctx context.Context, loanID string) (models.Loan, error) {
	var row models.Loan
	err := s.db.GetContext(ctx, &row, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID)
	return row, err
}

// HasApprovedUnpaid reports whether the client has an approved loan that is
// not yet fully paid. A second loan may not be issued while one holds.
func (s *LoanStore) HasApprovedUnpaid(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM loans
			WHERE client_id = $1 AND status = 'approved' AND payment_status <> 'fully_paid'
		)
	`, clientID)
	return exists, err
}

// HasPending reports whether the client has a loan application awaiting a
// decision.
func (s *LoanStore) HasPending(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM loans WHERE client_id = $1 AND status = 'pending')
	`, clientID)
	return exists, err
}

const loanRefsQuery = `
	SELECT l.id, l.loan_code, l.client_id, l.loan_purpose, l.total_amount, l.amount_paid, l.amount_remaining,
	       l.interest_rate, l.payment_status, l.status, l.schedule, l.assigned_officer, l.collateral_document,
	       l.issued_date, l.due_date, l.next_payment_date, l.created_at, l.updated_at,
	       c.client_code,
	       cu.firstname AS client_firstname, cu.surname AS client_surname, cu.email AS client_email,
	       o.officer_code,
	       ou.firstname AS officer_firstname, ou.surname AS officer_surname, ou.email AS officer_email
	FROM loans l
	LEFT JOIN clients c ON c.id = l.client_id
	LEFT JOIN users cu ON cu.id = c.user_id
	LEFT JOIN officers o ON o.id = l.assigned_officer
	LEFT JOIN users ou ON ou.id = o.user_id
`

func (s *LoanStore) ListWithRefs(ctx context.Context) ([]LoanWithRefs, error) {
	var rows []LoanWithRefs
	err := s.db.SelectContext(ctx, &rows, loanRefsQuery+`
		WHERE l.status <> 'deleted'
		ORDER BY l.created_at DESC
	`)
	return rows, err
}

func (s *LoanStore) GetWithRefs(ctx context.Context, loanID string) (LoanWithRefs, error) {
	var row LoanWithRefs
	err := s.db.GetContext(ctx, &row, loanRefsQuery+` WHERE l.id = $1`, loanID)
	return row, err
}

func (s *LoanStore) ListByOfficer(ctx context.Context, officerID string) ([]LoanWithRefs, error) {
	var rows []LoanWithRefs
	err := s.db.SelectContext(ctx, &rows, loanRefsQuery+`
		WHERE l.assigned_officer = $1 AND l.status <> 'deleted'
		ORDER BY l.created_at DESC
	`, officerID)
	return rows, err
}

// GetForUpdate locks one loan row for the duration of the surrounding
// transaction.
func (s *LoanStore) GetForUpdate(ctx context.Context, tx Getter, loanID string) (models.Loan, error) {
	var row models.Loan
	err := tx.GetContext(ctx, &row, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, loanID)
	return row, err
}

// GetOpenForClientForUpdate locks the client's approved, not-fully-paid loan.
// Payment transactions without an explicit loan reference post against it.
func (s *LoanStore) GetOpenForClientForUpdate(ctx context.Context, tx Getter, clientID string) (models.Loan, error) {
	var row models.Loan
	err := tx.GetContext(ctx, &row, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE client_id = $1 AND status = 'approved' AND payment_status <> 'fully_paid'
		ORDER BY issued_date
		LIMIT 1
		FOR UPDATE
	`, clientID)
	return row, err
}

// ApplyPayment writes the recomputed repayment bookkeeping in one statement.
func (s *LoanStore) ApplyPayment(ctx context.Context, tx Execer, loanID string, amountPaid, amountRemaining int64, paymentStatus string, nextPaymentDate *time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE loans
		SET amount_paid = $1, amount_remaining = $2, payment_status = $3, next_payment_date = $4, updated_at = NOW()
		WHERE id = $5
	`, amountPaid, amountRemaining, paymentStatus, nextPaymentDate, loanID)
	return err
}

// LoanUpdate is the allow-listed partial update. Amounts and payment status
// are system-managed and deliberately absent; manual payments go through the
// service's payment path.
type LoanUpdate struct {
	LoanPurpose string
	Status      string
	Schedule    string
	DueDate     *time.Time
	Collateral  *string
	Officer     *string
}

func (s *LoanStore) Update(ctx context.Context, loanID string, update LoanUpdate) (int64, error) {
	builder := newUpdateBuilder("loans")
	builder.set("loan_purpose", update.LoanPurpose)
	builder.set("status", update.Status)
	builder.set("schedule", update.Schedule)
	if update.DueDate != nil {
		builder.setAny("due_date", *update.DueDate)
	}
	if update.Collateral != nil {
		builder.setAny("collateral_document", *update.Collateral)
	}
	if update.Officer != nil {
		builder.setAny("assigned_officer", *update.Officer)
	}
	if !builder.empty() {
		builder.touch()
	}
	return builder.exec(ctx, s.db, loanID)
}

func (s *LoanStore) Delete(ctx context.Context, loanID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, loanID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
