package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"microfin/internal/models"
	"microfin/internal/services"
	"microfin/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubLoanService struct {
	issueFn  func(ctx context.Context, req services.IssueRequest) (models.Loan, error)
	updateFn func(ctx context.Context, loanID string, req services.UpdateRequest) (models.Loan, error)
}

func (s stubLoanService) Issue(ctx context.Context, req services.IssueRequest) (models.Loan, error) {
	return s.issueFn(ctx, req)
}

func (s stubLoanService) Update(ctx context.Context, loanID string, req services.UpdateRequest) (models.Loan, error) {
	return s.updateFn(ctx, loanID, req)
}

type stubTransactionService struct {
	submitFn       func(ctx context.Context, req services.SubmitRequest) (models.Transaction, error)
	updateStatusFn func(ctx context.Context, transactionID string, req services.StatusUpdateRequest) (models.Transaction, error)
}

func (s stubTransactionService) Submit(ctx context.Context, req services.SubmitRequest) (models.Transaction, error) {
	return s.submitFn(ctx, req)
}

func (s stubTransactionService) UpdateStatus(ctx context.Context, transactionID string, req services.StatusUpdateRequest) (models.Transaction, error) {
	return s.updateStatusFn(ctx, transactionID, req)
}

type stubLoanStore struct {
	listFn          func(ctx context.Context) ([]store.LoanWithRefs, error)
	getFn           func(ctx context.Context, loanID string) (store.LoanWithRefs, error)
	listByOfficerFn func(ctx context.Context, officerID string) ([]store.LoanWithRefs, error)
	deleteFn        func(ctx context.Context, loanID string) (int64, error)
}

func (s stubLoanStore) ListWithRefs(ctx context.Context) ([]store.LoanWithRefs, error) {
	return s.listFn(ctx)
}

func (s stubLoanStore) GetWithRefs(ctx context.Context, loanID string) (store.LoanWithRefs, error) {
	return s.getFn(ctx, loanID)
}

func (s stubLoanStore) ListByOfficer(ctx context.Context, officerID string) ([]store.LoanWithRefs, error) {
	return s.listByOfficerFn(ctx, officerID)
}

func (s stubLoanStore) Delete(ctx context.Context, loanID string) (int64, error) {
	return s.deleteFn(ctx, loanID)
}

// newJSONRequest builds a request with chi URL params attached.
func newJSONRequest(t *testing.T, method, target, body string, params map[string]string) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for key, value := range params {
			routeCtx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}
	return req
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}
