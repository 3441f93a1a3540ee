package services

import (
	"context"
	"database/sql"
	"time"

	"microfin/internal/db"
	"microfin/internal/models"
	"microfin/internal/money"
	"microfin/internal/refid"
	"microfin/internal/schedule"
	"microfin/internal/store"
	"microfin/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	GetByID(ctx context.Context, transactionID string) (models.Transaction, error)
	GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	MarkApproved(ctx context.Context, tx store.Execer, transactionID string) (int64, error)
	UpdateFields(ctx context.Context, tx store.Execer, transactionID string, update store.TransactionUpdate) error
}

type AccountStore interface {
	GetByClient(ctx context.Context, clientID string) (models.Account, error)
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance int64) error
}

// PaymentLoanStore is the loan surface needed for ledger posting.
type PaymentLoanStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, loanID string) (models.Loan, error)
	GetOpenForClientForUpdate(ctx context.Context, tx store.Getter, clientID string) (models.Loan, error)
	ApplyPayment(ctx context.Context, tx store.Execer, loanID string, amountPaid, amountRemaining int64, paymentStatus string, nextPaymentDate *time.Time) error
}

// Notifier delivers best-effort client notifications. Failures are logged
// and never surfaced.
type Notifier interface {
	SendTransactionApproved(email string, txnCode string, txType string, amountMinor int64) error
}

// LedgerBroadcaster pushes post-approval balance changes to dashboards.
type LedgerBroadcaster interface {
	BroadcastLedger(update websocket.LedgerUpdate)
}

type TransactionService struct {
	txRunner db.TxRunner
	txns     TransactionStore
	accounts AccountStore
	loans    PaymentLoanStore
	clients  ClientStore
	audit    AuditRecorder
	notifier Notifier
	hub      LedgerBroadcaster
	log      *logrus.Logger
	now      func() time.Time
}

func NewTransactionService(txRunner db.TxRunner, txns TransactionStore, accounts AccountStore, loans PaymentLoanStore, clients ClientStore, audit AuditRecorder, notifier Notifier, hub LedgerBroadcaster, log *logrus.Logger) *TransactionService {
	return &TransactionService{
		txRunner: txRunner,
		txns:     txns,
		accounts: accounts,
		loans:    loans,
		clients:  clients,
		audit:    audit,
		notifier: notifier,
		hub:      hub,
		log:      log,
		now:      time.Now,
	}
}

type SubmitRequest struct {
	ClientID      string
	Type          string
	AmountMinor   int64
	LoanID        *string
	PaymentFor    string
	PaymentMethod string
	Remarks       string
}

// Submit records a pending transaction. Money does not move at submission;
// deposits, withdrawals and payments only post on approval, which models
// manual back-office verification of the underlying movement.
func (s *TransactionService) Submit(ctx context.Context, req SubmitRequest) (models.Transaction, error) {
	if req.AmountMinor <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	switch req.Type {
	case models.TxDeposit, models.TxWithdrawal, models.TxPayment:
	default:
		return models.Transaction{}, ErrInvalidTxnType
	}
	account, err := s.accounts.GetByClient(ctx, req.ClientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Transaction{}, ErrAccountNotFound
		}
		return models.Transaction{}, err
	}
	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Transaction{}, ErrClientNotFound
		}
		return models.Transaction{}, err
	}

	input := store.TransactionInput{
		ID:            uuid.NewString(),
		TxnCode:       refid.Txn(),
		ClientID:      req.ClientID,
		AccountID:     account.ID,
		LoanID:        req.LoanID,
		OfficerID:     client.AssignedOfficer,
		Type:          req.Type,
		Amount:        req.AmountMinor,
		PaymentFor:    req.PaymentFor,
		PaymentMethod: req.PaymentMethod,
		Remarks:       req.Remarks,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.txns.Create(ctx, tx, input)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:            input.ID,
		TxnCode:       input.TxnCode,
		ClientID:      input.ClientID,
		AccountID:     input.AccountID,
		LoanID:        input.LoanID,
		OfficerID:     input.OfficerID,
		Type:          input.Type,
		Amount:        input.Amount,
		PaymentFor:    input.PaymentFor,
		PaymentMethod: input.PaymentMethod,
		Remarks:       input.Remarks,
		Status:        models.TxPending,
	}, nil
}

type StatusUpdateRequest struct {
	Status        string
	PaymentMethod string
	Remarks       string
}

// UpdateStatus is the only path with ledger side effects. The transaction
// row is locked for the whole unit of work; if it is already approved, or
// the requested status is anything other than approved, the update is a
// plain field overwrite with no ledger effect. Otherwise the financial
// effect posts first and the status flips to approved last, inside the same
// database transaction, so a failed posting leaves the status untouched.
func (s *TransactionService) UpdateStatus(ctx context.Context, transactionID string, req StatusUpdateRequest) (models.Transaction, error) {
	var update websocket.LedgerUpdate
	var posted bool

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		posted = false
		txn, err := s.txns.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrTransactionNotFound
			}
			return err
		}

		if txn.Status == models.TxApproved || req.Status != models.TxApproved {
			return s.txns.UpdateFields(ctx, tx, transactionID, store.TransactionUpdate{
				Status:        req.Status,
				PaymentMethod: req.PaymentMethod,
				Remarks:       req.Remarks,
			})
		}

		switch txn.Type {
		case models.TxDeposit:
			account, err := s.accounts.GetForUpdate(ctx, tx, txn.AccountID)
			if err != nil {
				if err == sql.ErrNoRows {
					return ErrAccountNotFound
				}
				return err
			}
			newBalance := account.Balance + txn.Amount
			if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
				return err
			}
			update = websocket.LedgerUpdate{
				Entity:        "account",
				EntityID:      account.ID,
				Balance:       money.FormatMinor(newBalance),
				TransactionID: transactionID,
			}

		case models.TxWithdrawal:
			account, err := s.accounts.GetForUpdate(ctx, tx, txn.AccountID)
			if err != nil {
				if err == sql.ErrNoRows {
					return ErrAccountNotFound
				}
				return err
			}
			if account.Balance < txn.Amount {
				return ErrInsufficientBalance
			}
			newBalance := account.Balance - txn.Amount
			if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
				return err
			}
			update = websocket.LedgerUpdate{
				Entity:        "account",
				EntityID:      account.ID,
				Balance:       money.FormatMinor(newBalance),
				TransactionID: transactionID,
			}

		case models.TxPayment:
			loan, err := s.lockPaymentLoan(ctx, tx, txn)
			if err != nil {
				return err
			}
			amountPaid := loan.AmountPaid + txn.Amount
			amountRemaining := loan.AmountRemaining - txn.Amount
			var paymentStatus string
			var next *time.Time
			if amountRemaining <= 0 {
				amountRemaining = 0
				paymentStatus = models.PaymentFullyPaid
				// loan is cleared; no further payment dates
			} else {
				paymentStatus = models.PaymentPartiallyPaid
				base := loan.IssuedDate
				if loan.NextPaymentDate != nil {
					base = *loan.NextPaymentDate
				}
				advanced := schedule.Next(base, loan.Schedule)
				next = &advanced
			}
			if err := s.loans.ApplyPayment(ctx, tx, loan.ID, amountPaid, amountRemaining, paymentStatus, next); err != nil {
				return err
			}
			update = websocket.LedgerUpdate{
				Entity:          "loan",
				EntityID:        loan.ID,
				AmountRemaining: money.FormatMinor(amountRemaining),
				PaymentStatus:   paymentStatus,
				TransactionID:   transactionID,
			}
		}

		if _, err := s.txns.MarkApproved(ctx, tx, transactionID); err != nil {
			return err
		}
		posted = true
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	txn, err := s.txns.GetByID(ctx, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	if posted {
		s.hub.BroadcastLedger(update)
		s.recordAudit(ctx, txn.OfficerID, "Transaction approved and posted", "Approved a transaction")
		s.notifyClient(ctx, txn)
	}
	return txn, nil
}

// lockPaymentLoan resolves the loan a payment posts against: the explicit
// loan reference when the transaction carries one, otherwise the client's
// open approved loan. Either way the loan must still be approved and not
// fully paid.
func (s *TransactionService) lockPaymentLoan(ctx context.Context, tx *sqlx.Tx, txn models.Transaction) (models.Loan, error) {
	if txn.LoanID != nil && *txn.LoanID != "" {
		loan, err := s.loans.GetForUpdate(ctx, tx, *txn.LoanID)
		if err != nil {
			if err == sql.ErrNoRows {
				return models.Loan{}, ErrLoanNotFound
			}
			return models.Loan{}, err
		}
		if loan.Status != models.LoanApproved || loan.PaymentStatus == models.PaymentFullyPaid {
			return models.Loan{}, ErrLoanNotFound
		}
		return loan, nil
	}
	loan, err := s.loans.GetOpenForClientForUpdate(ctx, tx, txn.ClientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Loan{}, ErrLoanNotFound
		}
		return models.Loan{}, err
	}
	return loan, nil
}

func (s *TransactionService) notifyClient(ctx context.Context, txn models.Transaction) {
	client, err := s.clients.GetByID(ctx, txn.ClientID)
	if err != nil || client.UserEmail == nil || *client.UserEmail == "" {
		return
	}
	if err := s.notifier.SendTransactionApproved(*client.UserEmail, txn.TxnCode, txn.Type, txn.Amount); err != nil {
		s.log.WithError(err).Warn("transaction notification failed")
	}
}

func (s *TransactionService) recordAudit(ctx context.Context, officerID *string, details, action string) {
	if err := s.audit.Insert(ctx, uuid.NewString(), refid.Log(), officerID, details, action); err != nil {
		s.log.WithError(err).Warn("audit log write failed")
	}
}
