package store

import (
	"context"
	"fmt"
	"strings"
)

// updateBuilder accumulates allow-listed SET clauses for a partial update.
// Empty string values are treated as "not supplied" and skipped; columns
// that legitimately hold empty or non-string values go through setAny.
type updateBuilder struct {
	table   string
	clauses []string
	args    []any
}

func newUpdateBuilder(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (b *updateBuilder) set(column, value string) {
	if value == "" {
		return
	}
	b.setAny(column, value)
}

func (b *updateBuilder) setAny(column string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// touch stamps updated_at on tables that carry one.
func (b *updateBuilder) touch() {
	b.clauses = append(b.clauses, "updated_at = NOW()")
}

func (b *updateBuilder) empty() bool {
	return len(b.args) == 0
}

// execTx runs the accumulated update inside a caller-held transaction. A
// builder with no value clauses is a no-op.
func (b *updateBuilder) execTx(ctx context.Context, ex Execer, id string) error {
	if b.empty() {
		return nil
	}
	b.args = append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", b.table, strings.Join(b.clauses, ", "), len(b.args))
	_, err := ex.ExecContext(ctx, query, b.args...)
	return err
}

// exec runs the accumulated update against the row with the given id and
// reports rows affected. A builder with no value clauses is a no-op that
// still verifies the row exists.
func (b *updateBuilder) exec(ctx context.Context, db DB, id string) (int64, error) {
	if b.empty() {
		var exists bool
		if err := db.GetContext(ctx, &exists, fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, b.table), id); err != nil {
			return 0, err
		}
		if !exists {
			return 0, nil
		}
		return 1, nil
	}
	b.args = append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", b.table, strings.Join(b.clauses, ", "), len(b.args))
	res, err := db.ExecContext(ctx, query, b.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
