package store

import (
	"context"

	"microfin/internal/models"
)

type ClientStore struct {
	db DB
}

func NewClientStore(db DB) *ClientStore {
	return &ClientStore{db: db}
}

// ClientWithUser is a client row populated with its user record.
type ClientWithUser struct {
	models.Client
	UserFirstname *string `db:"user_firstname"`
	UserSurname   *string `db:"user_surname"`
	UserEmail     *string `db:"user_email"`
	UserContact   *string `db:"user_contact"`
	UserStatus    *string `db:"user_status"`
}

type ClientInput struct {
	ID                 string
	UserID             string
	ClientCode         string
	AssignedOfficer    *string
	ResidentialAddress string
	PostalAddress      string
	Town               string
	MaritalStatus      string
	EmergencyContact   string
	EmploymentStatus   string
	JobTitle           string
	MonthlyIncome      string
	OtherIncome        string
	IDType             string
	IDNumber           string
	IDFront            string
	IDBack             string
}

func (s *ClientStore) Create(ctx context.Context, tx Execer, input ClientInput) error {
	query := `
		INSERT INTO clients (id, user_id, client_code, assigned_officer, residential_address, postal_address,
		                     town, marital_status, emergency_contact, employment_status, job_title,
		                     monthly_income, other_income, id_type, id_number, id_front, id_back)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.ClientCode, input.AssignedOfficer, input.ResidentialAddress,
		input.PostalAddress, input.Town, input.MaritalStatus, input.EmergencyContact,
		input.EmploymentStatus, input.JobTitle, input.MonthlyIncome, input.OtherIncome,
		input.IDType, input.IDNumber, input.IDFront, input.IDBack,
	)
	return err
}

const clientColumns = `
	c.id, c.user_id, c.client_code, c.assigned_officer, c.residential_address, c.postal_address,
	c.town, c.marital_status, c.emergency_contact, c.employment_status, c.job_title,
	c.monthly_income, c.other_income, c.id_type, c.id_number, c.id_front, c.id_back, c.created_at,
	u.firstname AS user_firstname, u.surname AS user_surname, u.email AS user_email,
	u.contact AS user_contact, u.status AS user_status
`

func (s *ClientStore) GetByID(ctx context.Context, clientID string) (ClientWithUser, error) {
	var row ClientWithUser
	err := s.db.GetContext(ctx, &row, `
		SELECT `+clientColumns+`
		FROM clients c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, clientID)
	return row, err
}

func (s *ClientStore) List(ctx context.Context) ([]ClientWithUser, error) {
	var rows []ClientWithUser
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+clientColumns+`
		FROM clients c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE u.status IS NULL OR u.status <> 'deleted'
		ORDER BY c.created_at DESC
	`)
	return rows, err
}

func (s *ClientStore) ListByOfficer(ctx context.Context, officerID string) ([]ClientWithUser, error) {
	var rows []ClientWithUser
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+clientColumns+`
		FROM clients c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.assigned_officer = $1
		ORDER BY c.created_at DESC
	`, officerID)
	return rows, err
}

type ClientUpdate struct {
	AssignedOfficer    *string
	ResidentialAddress string
	PostalAddress      string
	Town               string
	MaritalStatus      string
	EmergencyContact   string
	EmploymentStatus   string
	JobTitle           string
	MonthlyIncome      string
	OtherIncome        string
	IDType             string
	IDNumber           string
	IDFront            string
	IDBack             string
}

func (s *ClientStore) Update(ctx context.Context, clientID string, update ClientUpdate) (int64, error) {
	builder := newUpdateBuilder("clients")
	if update.AssignedOfficer != nil {
		builder.setAny("assigned_officer", *update.AssignedOfficer)
	}
	builder.set("residential_address", update.ResidentialAddress)
	builder.set("postal_address", update.PostalAddress)
	builder.set("town", update.Town)
	builder.set("marital_status", update.MaritalStatus)
	builder.set("emergency_contact", update.EmergencyContact)
	builder.set("employment_status", update.EmploymentStatus)
	builder.set("job_title", update.JobTitle)
	builder.set("monthly_income", update.MonthlyIncome)
	builder.set("other_income", update.OtherIncome)
	builder.set("id_type", update.IDType)
	builder.set("id_number", update.IDNumber)
	builder.set("id_front", update.IDFront)
	builder.set("id_back", update.IDBack)
	return builder.exec(ctx, s.db, clientID)
}

func (s *ClientStore) Delete(ctx context.Context, clientID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
