package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"microfin/internal/models"
	"microfin/internal/store"
	"microfin/internal/websocket"
)

type stubTransactionStore struct {
	createFn       func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	getByIDFn      func(ctx context.Context, transactionID string) (models.Transaction, error)
	getForUpdateFn func(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	markApprovedFn func(ctx context.Context, tx store.Execer, transactionID string) (int64, error)
	updateFieldsFn func(ctx context.Context, tx store.Execer, transactionID string, update store.TransactionUpdate) error
}

func (s stubTransactionStore) Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubTransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	if s.getByIDFn == nil {
		return models.Transaction{ID: transactionID, Status: models.TxApproved}, nil
	}
	return s.getByIDFn(ctx, transactionID)
}

func (s stubTransactionStore) GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error) {
	return s.getForUpdateFn(ctx, tx, transactionID)
}

func (s stubTransactionStore) MarkApproved(ctx context.Context, tx store.Execer, transactionID string) (int64, error) {
	if s.markApprovedFn == nil {
		return 1, nil
	}
	return s.markApprovedFn(ctx, tx, transactionID)
}

func (s stubTransactionStore) UpdateFields(ctx context.Context, tx store.Execer, transactionID string, update store.TransactionUpdate) error {
	if s.updateFieldsFn == nil {
		return nil
	}
	return s.updateFieldsFn(ctx, tx, transactionID, update)
}

type stubAccountStore struct {
	getByClientFn   func(ctx context.Context, clientID string) (models.Account, error)
	getForUpdateFn  func(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	updateBalanceFn func(ctx context.Context, tx store.Execer, accountID string, balance int64) error
}

func (s stubAccountStore) GetByClient(ctx context.Context, clientID string) (models.Account, error) {
	if s.getByClientFn == nil {
		return models.Account{ID: "acct-1", ClientID: clientID}, nil
	}
	return s.getByClientFn(ctx, clientID)
}

func (s stubAccountStore) GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error) {
	return s.getForUpdateFn(ctx, tx, accountID)
}

func (s stubAccountStore) UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance int64) error {
	if s.updateBalanceFn == nil {
		return nil
	}
	return s.updateBalanceFn(ctx, tx, accountID, balance)
}

type stubPaymentLoanStore struct {
	getForUpdateFn     func(ctx context.Context, tx store.Getter, loanID string) (models.Loan, error)
	getOpenForClientFn func(ctx context.Context, tx store.Getter, clientID string) (models.Loan, error)
	applyPaymentFn     func(ctx context.Context, tx store.Execer, loanID string, amountPaid, amountRemaining int64, paymentStatus string, nextPaymentDate *time.Time) error
}

func (s stubPaymentLoanStore) GetForUpdate(ctx context.Context, tx store.Getter, loanID string) (models.Loan, error) {
	return s.getForUpdateFn(ctx, tx, loanID)
}

func (s stubPaymentLoanStore) GetOpenForClientForUpdate(ctx context.Context, tx store.Getter, clientID string) (models.Loan, error) {
	return s.getOpenForClientFn(ctx, tx, clientID)
}

func (s stubPaymentLoanStore) ApplyPayment(ctx context.Context, tx store.Execer, loanID string, amountPaid, amountRemaining int64, paymentStatus string, nextPaymentDate *time.Time) error {
	if s.applyPaymentFn == nil {
		return nil
	}
	return s.applyPaymentFn(ctx, tx, loanID, amountPaid, amountRemaining, paymentStatus, nextPaymentDate)
}

type stubNotifier struct {
	sent []string
}

func (s *stubNotifier) SendTransactionApproved(email, txnCode, txType string, amountMinor int64) error {
	s.sent = append(s.sent, txnCode)
	return nil
}

type stubHub struct {
	updates []websocket.LedgerUpdate
}

func (s *stubHub) BroadcastLedger(update websocket.LedgerUpdate) {
	s.updates = append(s.updates, update)
}

func newTransactionService(txns TransactionStore, accounts AccountStore, loans PaymentLoanStore) (*TransactionService, *stubHub) {
	hub := &stubHub{}
	svc := NewTransactionService(fakeTxRunner{}, txns, accounts, loans, stubClientStore{}, stubAudit{}, &stubNotifier{}, hub, testLogger())
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, hub
}

func TestSubmitCreatesPendingTransaction(t *testing.T) {
	var created store.TransactionInput
	txns := stubTransactionStore{
		createFn: func(_ context.Context, _ store.Execer, input store.TransactionInput) error {
			created = input
			return nil
		},
	}
	svc, _ := newTransactionService(txns, stubAccountStore{}, stubPaymentLoanStore{})

	txn, err := svc.Submit(context.Background(), SubmitRequest{
		ClientID:      "client-1",
		Type:          models.TxDeposit,
		AmountMinor:   5000,
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if txn.Status != models.TxPending {
		t.Fatalf("status = %s, want pending", txn.Status)
	}
	if created.AccountID != "acct-1" {
		t.Fatalf("account = %s, want acct-1 (resolved from client)", created.AccountID)
	}
	if len(created.TxnCode) != 10 {
		t.Fatalf("txn code %q, want 10 characters", created.TxnCode)
	}
}

func TestSubmitRejectsMissingAccount(t *testing.T) {
	accounts := stubAccountStore{
		getByClientFn: func(context.Context, string) (models.Account, error) {
			return models.Account{}, sql.ErrNoRows
		},
	}
	svc, _ := newTransactionService(stubTransactionStore{}, accounts, stubPaymentLoanStore{})

	_, err := svc.Submit(context.Background(), SubmitRequest{ClientID: "client-1", Type: models.TxDeposit, AmountMinor: 5000})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	svc, _ := newTransactionService(stubTransactionStore{}, stubAccountStore{}, stubPaymentLoanStore{})
	_, err := svc.Submit(context.Background(), SubmitRequest{ClientID: "client-1", Type: "transfer", AmountMinor: 5000})
	if !errors.Is(err, ErrInvalidTxnType) {
		t.Fatalf("err = %v, want ErrInvalidTxnType", err)
	}
}

func TestApproveDepositCreditsAccount(t *testing.T) {
	var newBalance int64
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, AccountID: "acct-1", Type: models.TxDeposit, Amount: 5000, Status: models.TxPending}, nil
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Account, error) {
			return models.Account{ID: "acct-1", Balance: 20000}, nil
		},
		updateBalanceFn: func(_ context.Context, _ store.Execer, _ string, balance int64) error {
			newBalance = balance
			return nil
		},
	}
	svc, hub := newTransactionService(txns, accounts, stubPaymentLoanStore{})

	if _, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxApproved}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if newBalance != 25000 {
		t.Fatalf("balance = %d, want 25000", newBalance)
	}
	if len(hub.updates) != 1 || hub.updates[0].Entity != "account" {
		t.Fatalf("expected one account ledger broadcast, got %v", hub.updates)
	}
}

func TestApproveWithdrawalInsufficientBalance(t *testing.T) {
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, AccountID: "acct-1", Type: models.TxWithdrawal, Amount: 5000, Status: models.TxPending}, nil
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Account, error) {
			return models.Account{ID: "acct-1", Balance: 1000}, nil
		},
		updateBalanceFn: func(context.Context, store.Execer, string, int64) error {
			t.Fatal("balance must not change on insufficient funds")
			return nil
		},
	}
	svc, hub := newTransactionService(txns, accounts, stubPaymentLoanStore{})

	_, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxApproved})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if len(hub.updates) != 0 {
		t.Fatal("no broadcast expected when posting fails")
	}
}

func TestApproveAlreadyApprovedIsPlainUpdate(t *testing.T) {
	var overwrote bool
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, AccountID: "acct-1", Type: models.TxDeposit, Amount: 5000, Status: models.TxApproved}, nil
		},
		updateFieldsFn: func(_ context.Context, _ store.Execer, _ string, update store.TransactionUpdate) error {
			overwrote = true
			if update.Status != models.TxApproved {
				t.Fatalf("status = %s, want approved passthrough", update.Status)
			}
			return nil
		},
		markApprovedFn: func(context.Context, store.Execer, string) (int64, error) {
			t.Fatal("already-approved transaction must not post again")
			return 0, nil
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Account, error) {
			t.Fatal("account must not be touched on repeat approval")
			return models.Account{}, nil
		},
	}
	svc, hub := newTransactionService(txns, accounts, stubPaymentLoanStore{})

	if _, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxApproved}); err != nil {
		t.Fatalf("repeat approve: %v", err)
	}
	if !overwrote {
		t.Fatal("expected a plain field overwrite")
	}
	if len(hub.updates) != 0 {
		t.Fatal("no broadcast expected on repeat approval")
	}
}

func TestDenyHasNoLedgerEffect(t *testing.T) {
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, AccountID: "acct-1", Type: models.TxDeposit, Amount: 5000, Status: models.TxPending}, nil
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Account, error) {
			t.Fatal("denial must not touch the account")
			return models.Account{}, nil
		},
	}
	svc, _ := newTransactionService(txns, accounts, stubPaymentLoanStore{})

	if _, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxDenied}); err != nil {
		t.Fatalf("deny: %v", err)
	}
}

func TestApprovePaymentSettlesLoan(t *testing.T) {
	var gotRemaining int64
	var gotStatus string
	var gotNext *time.Time
	loanID := "loan-1"
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, ClientID: "client-1", AccountID: "acct-1", LoanID: &loanID, Type: models.TxPayment, Amount: 10000, Status: models.TxPending}, nil
		},
	}
	loans := stubPaymentLoanStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Loan, error) {
			return models.Loan{
				ID:              loanID,
				TotalAmount:     110000,
				AmountPaid:      100000,
				AmountRemaining: 10000,
				Status:          models.LoanApproved,
				PaymentStatus:   models.PaymentPartiallyPaid,
				Schedule:        models.ScheduleMonthly,
			}, nil
		},
		applyPaymentFn: func(_ context.Context, _ store.Execer, _ string, _, amountRemaining int64, paymentStatus string, next *time.Time) error {
			gotRemaining, gotStatus, gotNext = amountRemaining, paymentStatus, next
			return nil
		},
	}
	svc, hub := newTransactionService(txns, stubAccountStore{}, loans)

	if _, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxApproved}); err != nil {
		t.Fatalf("approve payment: %v", err)
	}
	if gotRemaining != 0 || gotStatus != models.PaymentFullyPaid {
		t.Fatalf("loan = %d/%s, want 0/fully_paid", gotRemaining, gotStatus)
	}
	if gotNext != nil {
		t.Fatalf("next payment date = %v, want nil once fully paid", gotNext)
	}
	if len(hub.updates) != 1 || hub.updates[0].Entity != "loan" {
		t.Fatalf("expected one loan ledger broadcast, got %v", hub.updates)
	}
}

func TestApprovePaymentAdvancesSchedule(t *testing.T) {
	var gotStatus string
	var gotNext *time.Time
	current := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, ClientID: "client-1", AccountID: "acct-1", Type: models.TxPayment, Amount: 10000, Status: models.TxPending}, nil
		},
	}
	loans := stubPaymentLoanStore{
		getOpenForClientFn: func(context.Context, store.Getter, string) (models.Loan, error) {
			return models.Loan{
				ID:              "loan-1",
				TotalAmount:     110000,
				AmountPaid:      0,
				AmountRemaining: 110000,
				Status:          models.LoanApproved,
				PaymentStatus:   models.PaymentNotPaid,
				Schedule:        models.ScheduleMonthly,
				NextPaymentDate: &current,
			}, nil
		},
		applyPaymentFn: func(_ context.Context, _ store.Execer, _ string, _, _ int64, paymentStatus string, next *time.Time) error {
			gotStatus, gotNext = paymentStatus, next
			return nil
		},
	}
	svc, _ := newTransactionService(txns, stubAccountStore{}, loans)

	if _, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxApproved}); err != nil {
		t.Fatalf("approve payment: %v", err)
	}
	if gotStatus != models.PaymentPartiallyPaid {
		t.Fatalf("payment status = %s, want partially_paid", gotStatus)
	}
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if gotNext == nil || !gotNext.Equal(want) {
		t.Fatalf("next payment date = %v, want %v", gotNext, want)
	}
}

func TestApprovePaymentFirstPaymentAdvancesFromIssuedDate(t *testing.T) {
	var gotNext *time.Time
	issued := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, ClientID: "client-1", AccountID: "acct-1", Type: models.TxPayment, Amount: 10000, Status: models.TxPending}, nil
		},
	}
	loans := stubPaymentLoanStore{
		getOpenForClientFn: func(context.Context, store.Getter, string) (models.Loan, error) {
			return models.Loan{
				ID:              "loan-1",
				TotalAmount:     110000,
				AmountPaid:      0,
				AmountRemaining: 110000,
				Status:          models.LoanApproved,
				PaymentStatus:   models.PaymentNotPaid,
				Schedule:        models.ScheduleMonthly,
				IssuedDate:      issued,
				NextPaymentDate: nil,
			}, nil
		},
		applyPaymentFn: func(_ context.Context, _ store.Execer, _ string, _, _ int64, _ string, next *time.Time) error {
			gotNext = next
			return nil
		},
	}
	svc, _ := newTransactionService(txns, stubAccountStore{}, loans)

	if _, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxApproved}); err != nil {
		t.Fatalf("approve payment: %v", err)
	}
	want := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	if gotNext == nil || !gotNext.Equal(want) {
		t.Fatalf("next payment date = %v, want %v (issued date advanced one period)", gotNext, want)
	}
}

func TestApprovePaymentNoOpenLoan(t *testing.T) {
	txns := stubTransactionStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
			return models.Transaction{ID: transactionID, ClientID: "client-1", AccountID: "acct-1", Type: models.TxPayment, Amount: 10000, Status: models.TxPending}, nil
		},
	}
	loans := stubPaymentLoanStore{
		getOpenForClientFn: func(context.Context, store.Getter, string) (models.Loan, error) {
			return models.Loan{}, sql.ErrNoRows
		},
	}
	svc, _ := newTransactionService(txns, stubAccountStore{}, loans)

	_, err := svc.UpdateStatus(context.Background(), "txn-1", StatusUpdateRequest{Status: models.TxApproved})
	if !errors.Is(err, ErrLoanNotFound) {
		t.Fatalf("err = %v, want ErrLoanNotFound", err)
	}
}

func TestUpdateStatusMissingTransaction(t *testing.T) {
	txns := stubTransactionStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Transaction, error) {
			return models.Transaction{}, sql.ErrNoRows
		},
	}
	svc, _ := newTransactionService(txns, stubAccountStore{}, stubPaymentLoanStore{})

	_, err := svc.UpdateStatus(context.Background(), "missing", StatusUpdateRequest{Status: models.TxApproved})
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("err = %v, want ErrTransactionNotFound", err)
	}
}
