package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"microfin/internal/db"
	"microfin/internal/models"
	"microfin/internal/money"
	"microfin/internal/refid"
	"microfin/internal/schedule"
	"microfin/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrActiveLoanExists    = errors.New("client already has an existing loan that is not fully paid")
	ErrPendingLoanExists   = errors.New("client already has a pending loan application")
	ErrClientNotFound      = errors.New("client not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientBalance = errors.New("insufficient account balance")
	ErrInvalidTxnType      = errors.New("invalid transaction type")
)

type LoanStore interface {
	Create(ctx context.Context, tx store.Execer, input store.LoanInput) error
	GetByID(ctx context.Context, loanID string) (models.Loan, error)
	GetForUpdate(ctx context.Context, tx store.Getter, loanID string) (models.Loan, error)
	HasApprovedUnpaid(ctx context.Context, clientID string) (bool, error)
	HasPending(ctx context.Context, clientID string) (bool, error)
	ApplyPayment(ctx context.Context, tx store.Execer, loanID string, amountPaid, amountRemaining int64, paymentStatus string, nextPaymentDate *time.Time) error
	Update(ctx context.Context, loanID string, update store.LoanUpdate) (int64, error)
}

type ClientStore interface {
	GetByID(ctx context.Context, clientID string) (store.ClientWithUser, error)
}

// AuditRecorder persists back-office activity entries.
type AuditRecorder interface {
	Insert(ctx context.Context, id, logCode string, officerID *string, details, action string) error
}

// LoanNotifier delivers best-effort loan status notifications. Failures are
// logged and never surfaced.
type LoanNotifier interface {
	SendLoanStatusChanged(email, loanCode, status string) error
}

type LoanService struct {
	txRunner db.TxRunner
	loans    LoanStore
	clients  ClientStore
	audit    AuditRecorder
	notifier LoanNotifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewLoanService(txRunner db.TxRunner, loans LoanStore, clients ClientStore, audit AuditRecorder, notifier LoanNotifier, log *logrus.Logger) *LoanService {
	return &LoanService{
		txRunner: txRunner,
		loans:    loans,
		clients:  clients,
		audit:    audit,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type IssueRequest struct {
	ClientID       string
	LoanPurpose    string
	PrincipalMinor int64
	InterestRate   decimal.Decimal
	Schedule       string
	DueDate        *time.Time
	Collateral     *string
}

// Issue validates the application, fixes simple interest at issuance and
// persists a pending loan. The conflict checks run in order: an approved,
// not-fully-paid loan blocks first, then any pending application.
func (s *LoanService) Issue(ctx context.Context, req IssueRequest) (models.Loan, error) {
	if req.PrincipalMinor <= 0 {
		return models.Loan{}, ErrInvalidAmount
	}
	hasActive, err := s.loans.HasApprovedUnpaid(ctx, req.ClientID)
	if err != nil {
		return models.Loan{}, err
	}
	if hasActive {
		return models.Loan{}, ErrActiveLoanExists
	}
	hasPending, err := s.loans.HasPending(ctx, req.ClientID)
	if err != nil {
		return models.Loan{}, err
	}
	if hasPending {
		return models.Loan{}, ErrPendingLoanExists
	}
	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Loan{}, ErrClientNotFound
		}
		return models.Loan{}, err
	}

	interest := money.Interest(req.PrincipalMinor, req.InterestRate)
	totalPayable := req.PrincipalMinor + interest
	issued := s.now()
	next := schedule.Next(issued, req.Schedule)

	input := store.LoanInput{
		ID:              uuid.NewString(),
		LoanCode:        refid.Loan(),
		ClientID:        req.ClientID,
		LoanPurpose:     req.LoanPurpose,
		TotalAmount:     totalPayable,
		AmountRemaining: totalPayable,
		InterestRate:    req.InterestRate.String(),
		Schedule:        req.Schedule,
		AssignedOfficer: client.AssignedOfficer,
		Collateral:      req.Collateral,
		IssuedDate:      issued,
		DueDate:         req.DueDate,
		NextPaymentDate: &next,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.loans.Create(ctx, tx, input)
	})
	if err != nil {
		return models.Loan{}, err
	}

	s.recordAudit(ctx, client.AssignedOfficer, "Officer submitted a new loan request", "Submitted a new loan request")

	return models.Loan{
		ID:              input.ID,
		LoanCode:        input.LoanCode,
		ClientID:        input.ClientID,
		LoanPurpose:     input.LoanPurpose,
		TotalAmount:     input.TotalAmount,
		AmountPaid:      0,
		AmountRemaining: input.AmountRemaining,
		InterestRate:    input.InterestRate,
		PaymentStatus:   models.PaymentNotPaid,
		Status:          models.LoanPending,
		Schedule:        input.Schedule,
		AssignedOfficer: input.AssignedOfficer,
		Collateral:      input.Collateral,
		IssuedDate:      input.IssuedDate,
		DueDate:         input.DueDate,
		NextPaymentDate: input.NextPaymentDate,
	}, nil
}

type UpdateRequest struct {
	PaymentMinor *int64
	LoanPurpose  string
	Status       string
	Schedule     string
	DueDate      *time.Time
	Collateral   *string
	Officer      *string
}

// Update applies an allow-listed partial update and, when PaymentMinor is
// present, posts a manual repayment: amountPaid grows, amountRemaining is
// clamped at zero, paymentStatus is derived and the next payment date is
// recomputed from now on the loan's existing cadence. A status change
// notifies the client by email, best-effort.
func (s *LoanService) Update(ctx context.Context, loanID string, req UpdateRequest) (models.Loan, error) {
	if req.PaymentMinor != nil && *req.PaymentMinor <= 0 {
		return models.Loan{}, ErrInvalidAmount
	}

	var prevStatus string
	if req.Status != "" {
		if prev, err := s.loans.GetByID(ctx, loanID); err == nil {
			prevStatus = prev.Status
		}
	}

	fields := store.LoanUpdate{
		LoanPurpose: req.LoanPurpose,
		Status:      req.Status,
		Schedule:    req.Schedule,
		DueDate:     req.DueDate,
		Collateral:  req.Collateral,
		Officer:     req.Officer,
	}

	if req.PaymentMinor == nil {
		affected, err := s.loans.Update(ctx, loanID, fields)
		if err != nil {
			return models.Loan{}, err
		}
		if affected == 0 {
			return models.Loan{}, ErrLoanNotFound
		}
		return s.finishUpdate(ctx, loanID, req.Status, prevStatus)
	}

	payment := *req.PaymentMinor
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loans.GetForUpdate(ctx, tx, loanID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrLoanNotFound
			}
			return err
		}
		amountPaid := loan.AmountPaid + payment
		amountRemaining := loan.TotalAmount - amountPaid
		if amountRemaining < 0 {
			amountRemaining = 0
		}
		paymentStatus := loan.PaymentStatus
		if amountRemaining == 0 {
			paymentStatus = models.PaymentFullyPaid
		} else if amountPaid > 0 {
			paymentStatus = models.PaymentPartiallyPaid
		}
		next := schedule.Next(s.now(), loan.Schedule)
		return s.loans.ApplyPayment(ctx, tx, loanID, amountPaid, amountRemaining, paymentStatus, &next)
	})
	if err != nil {
		return models.Loan{}, err
	}
	if _, err := s.loans.Update(ctx, loanID, fields); err != nil {
		return models.Loan{}, err
	}
	return s.finishUpdate(ctx, loanID, req.Status, prevStatus)
}

// finishUpdate re-reads the loan and notifies the client when a requested
// status actually changed the row.
func (s *LoanService) finishUpdate(ctx context.Context, loanID, requestedStatus, prevStatus string) (models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.Loan{}, err
	}
	if requestedStatus != "" && loan.Status != prevStatus {
		s.notifyStatusChange(ctx, loan)
	}
	return loan, nil
}

func (s *LoanService) notifyStatusChange(ctx context.Context, loan models.Loan) {
	client, err := s.clients.GetByID(ctx, loan.ClientID)
	if err != nil || client.UserEmail == nil || *client.UserEmail == "" {
		return
	}
	if err := s.notifier.SendLoanStatusChanged(*client.UserEmail, loan.LoanCode, loan.Status); err != nil {
		s.log.WithError(err).Warn("loan status notification failed")
	}
}

func (s *LoanService) recordAudit(ctx context.Context, officerID *string, details, action string) {
	if err := s.audit.Insert(ctx, uuid.NewString(), refid.Log(), officerID, details, action); err != nil {
		s.log.WithError(err).Warn("audit log write failed")
	}
}
