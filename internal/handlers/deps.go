package handlers

import (
	"context"
	"time"

	"microfin/internal/models"
	"microfin/internal/services"
	"microfin/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserInput) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, userID string, update store.UserUpdate) (int64, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	SoftDelete(ctx context.Context, userID string) (int64, error)
}

type OfficerStore interface {
	Create(ctx context.Context, tx store.Execer, input store.OfficerInput) error
	GetByID(ctx context.Context, officerID string) (store.OfficerWithUser, error)
	GetByUserID(ctx context.Context, userID string) (store.OfficerWithUser, error)
	List(ctx context.Context) ([]store.OfficerWithUser, error)
	Update(ctx context.Context, officerID string, update store.OfficerUpdate) (int64, error)
	Delete(ctx context.Context, officerID string) (int64, error)
}

type ClientStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ClientInput) error
	GetByID(ctx context.Context, clientID string) (store.ClientWithUser, error)
	List(ctx context.Context) ([]store.ClientWithUser, error)
	ListByOfficer(ctx context.Context, officerID string) ([]store.ClientWithUser, error)
	Update(ctx context.Context, clientID string, update store.ClientUpdate) (int64, error)
	Delete(ctx context.Context, clientID string) (int64, error)
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, input store.AccountInput) error
	GetByID(ctx context.Context, accountID string) (models.Account, error)
	List(ctx context.Context) ([]store.AccountWithClient, error)
	Update(ctx context.Context, accountID string, update store.AccountUpdate) (int64, error)
	SoftDelete(ctx context.Context, accountID string) (int64, error)
}

type LoanStore interface {
	ListWithRefs(ctx context.Context) ([]store.LoanWithRefs, error)
	GetWithRefs(ctx context.Context, loanID string) (store.LoanWithRefs, error)
	ListByOfficer(ctx context.Context, officerID string) ([]store.LoanWithRefs, error)
	Delete(ctx context.Context, loanID string) (int64, error)
}

type TransactionStore interface {
	ListWithRefs(ctx context.Context) ([]store.TransactionWithRefs, error)
	GetWithRefs(ctx context.Context, transactionID string) (store.TransactionWithRefs, error)
	Delete(ctx context.Context, transactionID string) (int64, error)
}

type TicketStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TicketInput) error
	GetByID(ctx context.Context, ticketID string) (store.TicketWithOfficer, error)
	List(ctx context.Context) ([]store.TicketWithOfficer, error)
	AppendReply(ctx context.Context, ticketID string, reply store.TicketReply) (int64, error)
	Update(ctx context.Context, ticketID string, update store.TicketUpdate) (int64, error)
	SoftDelete(ctx context.Context, ticketID string) (int64, error)
}

type ReportStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ReportInput) error
	GetByID(ctx context.Context, reportID string) (store.ReportWithOfficer, error)
	List(ctx context.Context) ([]store.ReportWithOfficer, error)
	ListByOfficer(ctx context.Context, officerID string) ([]store.ReportWithOfficer, error)
	Update(ctx context.Context, reportID string, update store.ReportUpdate) (int64, error)
	SoftDelete(ctx context.Context, reportID string) (int64, error)
}

type AuditStore interface {
	Insert(ctx context.Context, id, logCode string, officerID *string, details, action string) error
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, error)
}

type LoanService interface {
	Issue(ctx context.Context, req services.IssueRequest) (models.Loan, error)
	Update(ctx context.Context, loanID string, req services.UpdateRequest) (models.Loan, error)
}

type TransactionService interface {
	Submit(ctx context.Context, req services.SubmitRequest) (models.Transaction, error)
	UpdateStatus(ctx context.Context, transactionID string, req services.StatusUpdateRequest) (models.Transaction, error)
}
