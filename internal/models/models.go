package models

import "time"

// User roles.
const (
	RoleAdmin      = "admin"
	RoleOfficer    = "officer"
	RoleClient     = "client"
	RoleSuperAdmin = "superadmin"
)

// Generic record status shared by users and accounts.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBlocked  = "blocked"
	StatusDeleted  = "deleted"
)

// Loan approval workflow states.
const (
	LoanPending  = "pending"
	LoanApproved = "approved"
	LoanDenied   = "denied"
	LoanDeleted  = "deleted"
)

// Loan repayment progress, independent of the approval workflow.
const (
	PaymentNotPaid       = "not_paid"
	PaymentPartiallyPaid = "partially_paid"
	PaymentFullyPaid     = "fully_paid"
)

// Payment schedules.
const (
	ScheduleMonthly   = "monthly"
	ScheduleQuarterly = "quarterly"
	ScheduleAnnually  = "annually"
	ScheduleOneTime   = "one_time"
)

// Transaction types.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxPayment    = "payment"
)

// Transaction workflow states. Approved is terminal for ledger purposes.
const (
	TxPending    = "pending"
	TxApproved   = "approved"
	TxProcessing = "processing"
	TxDenied     = "denied"
	TxDeleted    = "deleted"
)

// Support ticket states.
const (
	TicketOpen     = "open"
	TicketClosed   = "closed"
	TicketPending  = "pending"
	TicketResolved = "resolved"
	TicketDeleted  = "deleted"
)

type User struct {
	ID           string     `db:"id" json:"id"`
	Firstname    string     `db:"firstname" json:"firstname"`
	Surname      string     `db:"surname" json:"surname"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Contact      string     `db:"contact" json:"contact"`
	Role         string     `db:"role" json:"role"`
	Status       string     `db:"status" json:"status"`
	Verified     bool       `db:"verified" json:"verified"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type Officer struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"user_id"`
	OfficerCode        string    `db:"officer_code" json:"officer_code"`
	ResidentialAddress string    `db:"residential_address" json:"residential_address"`
	PostalAddress      string    `db:"postal_address" json:"postal_address"`
	Town               string    `db:"town" json:"town"`
	MaritalStatus      string    `db:"marital_status" json:"marital_status"`
	EmergencyContact   string    `db:"emergency_contact" json:"emergency_contact"`
	IDType             string    `db:"id_type" json:"id_type"`
	IDNumber           string    `db:"id_number" json:"id_number"`
	IDFront            string    `db:"id_front" json:"id_front"`
	IDBack             string    `db:"id_back" json:"id_back"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type Client struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"user_id"`
	ClientCode         string    `db:"client_code" json:"client_code"`
	AssignedOfficer    *string   `db:"assigned_officer" json:"assigned_officer,omitempty"`
	ResidentialAddress string    `db:"residential_address" json:"residential_address"`
	PostalAddress      string    `db:"postal_address" json:"postal_address"`
	Town               string    `db:"town" json:"town"`
	MaritalStatus      string    `db:"marital_status" json:"marital_status"`
	EmergencyContact   string    `db:"emergency_contact" json:"emergency_contact"`
	EmploymentStatus   string    `db:"employment_status" json:"employment_status"`
	JobTitle           string    `db:"job_title" json:"job_title"`
	MonthlyIncome      string    `db:"monthly_income" json:"monthly_income"`
	OtherIncome        string    `db:"other_income" json:"other_income"`
	IDType             string    `db:"id_type" json:"id_type"`
	IDNumber           string    `db:"id_number" json:"id_number"`
	IDFront            string    `db:"id_front" json:"id_front"`
	IDBack             string    `db:"id_back" json:"id_back"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type Account struct {
	ID          string    `db:"id" json:"id"`
	AccountCode string    `db:"account_code" json:"account_code"`
	ClientID    string    `db:"client_id" json:"client_id"`
	AccountType string    `db:"account_type" json:"account_type"`
	Balance     int64     `db:"balance" json:"balance"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Loan amounts are minor units. TotalAmount holds the total payable
// (principal plus simple interest fixed at issuance).
type Loan struct {
	ID              string     `db:"id" json:"id"`
	LoanCode        string     `db:"loan_code" json:"loan_code"`
	ClientID        string     `db:"client_id" json:"client_id"`
	LoanPurpose     string     `db:"loan_purpose" json:"loan_purpose"`
	TotalAmount     int64      `db:"total_amount" json:"total_amount"`
	AmountPaid      int64      `db:"amount_paid" json:"amount_paid"`
	AmountRemaining int64      `db:"amount_remaining" json:"amount_remaining"`
	InterestRate    string     `db:"interest_rate" json:"interest_rate"`
	PaymentStatus   string     `db:"payment_status" json:"payment_status"`
	Status          string     `db:"status" json:"status"`
	Schedule        string     `db:"schedule" json:"preferred_payment_schedule"`
	AssignedOfficer *string    `db:"assigned_officer" json:"assigned_officer,omitempty"`
	Collateral      *string    `db:"collateral_document" json:"collateral_document,omitempty"`
	IssuedDate      time.Time  `db:"issued_date" json:"issued_date"`
	DueDate         *time.Time `db:"due_date" json:"due_date,omitempty"`
	NextPaymentDate *time.Time `db:"next_payment_date" json:"next_payment_date,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID            string    `db:"id" json:"id"`
	TxnCode       string    `db:"txn_code" json:"txn_code"`
	ClientID      string    `db:"client_id" json:"client_id"`
	AccountID     string    `db:"account_id" json:"account_id"`
	LoanID        *string   `db:"loan_id" json:"loan_id,omitempty"`
	OfficerID     *string   `db:"officer_id" json:"officer_id,omitempty"`
	Type          string    `db:"type" json:"transaction_type"`
	Amount        int64     `db:"amount" json:"amount"`
	PaymentFor    string    `db:"payment_for" json:"payment_for"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Remarks       string    `db:"remarks" json:"remarks"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type SupportTicket struct {
	ID         string    `db:"id" json:"id"`
	TicketCode string    `db:"ticket_code" json:"ticket_code"`
	OfficerID  string    `db:"officer_id" json:"officer_id"`
	Subject    string    `db:"subject" json:"subject"`
	Message    string    `db:"message" json:"message"`
	Category   string    `db:"category" json:"category"`
	Comments   string    `db:"comments" json:"comments"`
	Feedback   string    `db:"feedback" json:"feedback"`
	Status     string    `db:"status" json:"status"`
	Replies    string    `db:"replies" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Report struct {
	ID          string    `db:"id" json:"id"`
	ReportCode  string    `db:"report_code" json:"report_code"`
	SubmittedBy *string   `db:"submitted_by" json:"submitted_by,omitempty"`
	ReportType  string    `db:"report_type" json:"report_type"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	Document    *string   `db:"supporting_document" json:"supporting_document,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	LogCode   string    `db:"log_code" json:"log_code"`
	OfficerID *string   `db:"officer_id" json:"officer_id,omitempty"`
	Details   string    `db:"details" json:"details"`
	Action    string    `db:"action" json:"action"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
