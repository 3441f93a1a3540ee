package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

type recordedExec struct {
	query string
	args  []any
}

type stubExecer struct {
	execs    []recordedExec
	affected int64
}

func (s *stubExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	s.execs = append(s.execs, recordedExec{query: query, args: args})
	return stubResult{affected: s.affected}, nil
}

type stubResult struct {
	affected int64
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.affected, nil }

func TestMarkApprovedIsConditional(t *testing.T) {
	ex := &stubExecer{affected: 1}
	store := NewTransactionStore(nil)

	affected, err := store.MarkApproved(context.Background(), ex, "txn-1")
	if err != nil {
		t.Fatalf("MarkApproved: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}
	if len(ex.execs) != 1 {
		t.Fatalf("execs = %d, want 1", len(ex.execs))
	}
	query := ex.execs[0].query
	if !strings.Contains(query, "status <> 'approved'") {
		t.Fatalf("approve must be guarded against re-approval, got: %s", query)
	}
	if !strings.Contains(query, "status = 'approved'") {
		t.Fatalf("approve must set approved status, got: %s", query)
	}
}

func TestMarkApprovedLoserReportsZeroRows(t *testing.T) {
	ex := &stubExecer{affected: 0}
	store := NewTransactionStore(nil)

	affected, err := store.MarkApproved(context.Background(), ex, "txn-1")
	if err != nil {
		t.Fatalf("MarkApproved: %v", err)
	}
	if affected != 0 {
		t.Fatalf("affected = %d, want 0 when the row was already approved", affected)
	}
}

func TestUpdateFieldsSkipsUnsetColumns(t *testing.T) {
	ex := &stubExecer{affected: 1}
	store := NewTransactionStore(nil)

	err := store.UpdateFields(context.Background(), ex, "txn-1", TransactionUpdate{
		Status:  "denied",
		Remarks: "duplicate request",
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if len(ex.execs) != 1 {
		t.Fatalf("execs = %d, want 1", len(ex.execs))
	}
	got := ex.execs[0]
	if strings.Contains(got.query, "payment_method") {
		t.Fatalf("unset column must not appear in SET list: %s", got.query)
	}
	if !strings.Contains(got.query, "updated_at = NOW()") {
		t.Fatalf("update must touch updated_at: %s", got.query)
	}
	if len(got.args) != 3 {
		t.Fatalf("args = %v, want status, remarks and id", got.args)
	}
	if got.args[len(got.args)-1] != "txn-1" {
		t.Fatalf("last arg must be the row id, got %v", got.args)
	}
}

func TestUpdateFieldsAllUnsetIsNoOp(t *testing.T) {
	ex := &stubExecer{}
	store := NewTransactionStore(nil)

	if err := store.UpdateFields(context.Background(), ex, "txn-1", TransactionUpdate{}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if len(ex.execs) != 0 {
		t.Fatalf("empty update must not touch the database: %v", ex.execs)
	}
}
