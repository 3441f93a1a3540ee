package store

import (
	"context"

	"microfin/internal/models"
)

type ReportStore struct {
	db DB
}

func NewReportStore(db DB) *ReportStore {
	return &ReportStore{db: db}
}

type ReportWithOfficer struct {
	models.Report
	OfficerCode      *string `db:"officer_code"`
	OfficerFirstname *string `db:"officer_firstname"`
	OfficerSurname   *string `db:"officer_surname"`
}

type ReportInput struct {
	ID          string
	ReportCode  string
	SubmittedBy *string
	ReportType  string
	Title       string
	Content     string
	Document    *string
}

func (s *ReportStore) Create(ctx context.Context, tx Execer, input ReportInput) error {
	query := `
		INSERT INTO reports (id, report_code, submitted_by, report_type, title, content, supporting_document, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.ReportCode, input.SubmittedBy, input.ReportType, input.Title, input.Content, input.Document,
	)
	return err
}

const reportRefsQuery = `
	SELECT r.id, r.report_code, r.submitted_by, r.report_type, r.title, r.content,
	       r.supporting_document, r.status, r.created_at, r.updated_at,
	       o.officer_code,
	       u.firstname AS officer_firstname, u.surname AS officer_surname
	FROM reports r
	LEFT JOIN officers o ON o.id = r.submitted_by
	LEFT JOIN users u ON u.id = o.user_id
`

func (s *ReportStore) GetByID(ctx context.Context, reportID string) (ReportWithOfficer, error) {
	var row ReportWithOfficer
	err := s.db.GetContext(ctx, &row, reportRefsQuery+` WHERE r.id = $1`, reportID)
	return row, err
}

func (s *ReportStore) List(ctx context.Context) ([]ReportWithOfficer, error) {
	var rows []ReportWithOfficer
	err := s.db.SelectContext(ctx, &rows, reportRefsQuery+`
		WHERE r.status <> 'deleted'
		ORDER BY r.created_at DESC
	`)
	return rows, err
}

func (s *ReportStore) ListByOfficer(ctx context.Context, officerID string) ([]ReportWithOfficer, error) {
	var rows []ReportWithOfficer
	err := s.db.SelectContext(ctx, &rows, reportRefsQuery+`
		WHERE r.status <> 'deleted' AND r.submitted_by = $1
		ORDER BY r.created_at DESC
	`, officerID)
	return rows, err
}

type ReportUpdate struct {
	Title      string
	Content    string
	ReportType string
	Status     string
}

func (s *ReportStore) Update(ctx context.Context, reportID string, update ReportUpdate) (int64, error) {
	builder := newUpdateBuilder("reports")
	builder.set("title", update.Title)
	builder.set("content", update.Content)
	builder.set("report_type", update.ReportType)
	builder.set("status", update.Status)
	if !builder.empty() {
		builder.touch()
	}
	return builder.exec(ctx, s.db, reportID)
}

func (s *ReportStore) SoftDelete(ctx context.Context, reportID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reports SET status = 'deleted', updated_at = NOW() WHERE id = $1
	`, reportID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
