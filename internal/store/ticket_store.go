package store

import (
	"context"
	"encoding/json"
	"time"

	"microfin/internal/models"
)

type TicketStore struct {
	db DB
}

func NewTicketStore(db DB) *TicketStore {
	return &TicketStore{db: db}
}

type TicketWithOfficer struct {
	models.SupportTicket
	OfficerCode      *string `db:"off_code"`
	OfficerFirstname *string `db:"officer_firstname"`
	OfficerSurname   *string `db:"officer_surname"`
	OfficerEmail     *string `db:"officer_email"`
}

// TicketReply is one entry in a ticket's reply thread, stored as JSON.
type TicketReply struct {
	AuthorID  string    `json:"author_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketInput struct {
	ID         string
	TicketCode string
	OfficerID  string
	Subject    string
	Message    string
	Category   string
}

func (s *TicketStore) Create(ctx context.Context, tx Execer, input TicketInput) error {
	query := `
		INSERT INTO support_tickets (id, ticket_code, officer_id, subject, message, category, status, replies)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', '[]')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.TicketCode, input.OfficerID, input.Subject, input.Message, input.Category,
	)
	return err
}

const ticketRefsQuery = `
	SELECT t.id, t.ticket_code, t.officer_id, t.subject, t.message, t.category, t.comments, t.feedback,
	       t.status, t.replies, t.created_at, t.updated_at,
	       o.officer_code AS off_code,
	       u.firstname AS officer_firstname, u.surname AS officer_surname, u.email AS officer_email
	FROM support_tickets t
	LEFT JOIN officers o ON o.id = t.officer_id
	LEFT JOIN users u ON u.id = o.user_id
`

func (s *TicketStore) GetByID(ctx context.Context, ticketID string) (TicketWithOfficer, error) {
	var row TicketWithOfficer
	err := s.db.GetContext(ctx, &row, ticketRefsQuery+` WHERE t.id = $1`, ticketID)
	return row, err
}

func (s *TicketStore) List(ctx context.Context) ([]TicketWithOfficer, error) {
	var rows []TicketWithOfficer
	err := s.db.SelectContext(ctx, &rows, ticketRefsQuery+`
		WHERE t.status <> 'deleted'
		ORDER BY t.created_at DESC
	`)
	return rows, err
}

// AppendReply pushes a reply onto the ticket's JSON thread.
func (s *TicketStore) AppendReply(ctx context.Context, ticketID string, reply TicketReply) (int64, error) {
	payload, err := json.Marshal(reply)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE support_tickets
		SET replies = replies || $1::jsonb, updated_at = NOW()
		WHERE id = $2
	`, string(payload), ticketID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type TicketUpdate struct {
	Subject  string
	Message  string
	Category string
	Comments string
	Feedback string
	Status   string
}

func (s *TicketStore) Update(ctx context.Context, ticketID string, update TicketUpdate) (int64, error) {
	builder := newUpdateBuilder("support_tickets")
	builder.set("subject", update.Subject)
	builder.set("message", update.Message)
	builder.set("category", update.Category)
	builder.set("comments", update.Comments)
	builder.set("feedback", update.Feedback)
	builder.set("status", update.Status)
	if !builder.empty() {
		builder.touch()
	}
	return builder.exec(ctx, s.db, ticketID)
}

func (s *TicketStore) SoftDelete(ctx context.Context, ticketID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE support_tickets SET status = 'deleted', updated_at = NOW() WHERE id = $1
	`, ticketID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
