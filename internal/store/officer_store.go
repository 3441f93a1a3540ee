package store

import (
	"context"

	"microfin/internal/models"
)

type OfficerStore struct {
	db DB
}

func NewOfficerStore(db DB) *OfficerStore {
	return &OfficerStore{db: db}
}

// OfficerWithUser is an officer row populated with its user record.
type OfficerWithUser struct {
	models.Officer
	UserFirstname *string `db:"user_firstname"`
	UserSurname   *string `db:"user_surname"`
	UserEmail     *string `db:"user_email"`
	UserContact   *string `db:"user_contact"`
	UserStatus    *string `db:"user_status"`
}

type OfficerInput struct {
	ID                 string
	UserID             string
	OfficerCode        string
	ResidentialAddress string
	PostalAddress      string
	Town               string
	MaritalStatus      string
	EmergencyContact   string
	IDType             string
	IDNumber           string
	IDFront            string
	IDBack             string
}

func (s *OfficerStore) Create(ctx context.Context, tx Execer, input OfficerInput) error {
	query := `
		INSERT INTO officers (id, user_id, officer_code, residential_address, postal_address, town,
		                      marital_status, emergency_contact, id_type, id_number, id_front, id_back)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.OfficerCode, input.ResidentialAddress, input.PostalAddress,
		input.Town, input.MaritalStatus, input.EmergencyContact, input.IDType, input.IDNumber,
		input.IDFront, input.IDBack,
	)
	return err
}

const officerColumns = `
	o.id, o.user_id, o.officer_code, o.residential_address, o.postal_address, o.town,
	o.marital_status, o.emergency_contact, o.id_type, o.id_number, o.id_front, o.id_back, o.created_at,
	u.firstname AS user_firstname, u.surname AS user_surname, u.email AS user_email,
	u.contact AS user_contact, u.status AS user_status
`

func (s *OfficerStore) GetByID(ctx context.Context, officerID string) (OfficerWithUser, error) {
	var row OfficerWithUser
	err := s.db.GetContext(ctx, &row, `
		SELECT `+officerColumns+`
		FROM officers o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`, officerID)
	return row, err
}

// GetByUserID resolves the officer profile behind a user account. The
// officer-scoped loan listing is addressed by user id in the API.
func (s *OfficerStore) GetByUserID(ctx context.Context, userID string) (OfficerWithUser, error) {
	var row OfficerWithUser
	err := s.db.GetContext(ctx, &row, `
		SELECT `+officerColumns+`
		FROM officers o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.user_id = $1
	`, userID)
	return row, err
}

func (s *OfficerStore) List(ctx context.Context) ([]OfficerWithUser, error) {
	var rows []OfficerWithUser
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+officerColumns+`
		FROM officers o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE u.status IS NULL OR u.status <> 'deleted'
		ORDER BY o.created_at DESC
	`)
	return rows, err
}

type OfficerUpdate struct {
	ResidentialAddress string
	PostalAddress      string
	Town               string
	MaritalStatus      string
	EmergencyContact   string
	IDType             string
	IDNumber           string
	IDFront            string
	IDBack             string
}

func (s *OfficerStore) Update(ctx context.Context, officerID string, update OfficerUpdate) (int64, error) {
	builder := newUpdateBuilder("officers")
	builder.set("residential_address", update.ResidentialAddress)
	builder.set("postal_address", update.PostalAddress)
	builder.set("town", update.Town)
	builder.set("marital_status", update.MaritalStatus)
	builder.set("emergency_contact", update.EmergencyContact)
	builder.set("id_type", update.IDType)
	builder.set("id_number", update.IDNumber)
	builder.set("id_front", update.IDFront)
	builder.set("id_back", update.IDBack)
	return builder.exec(ctx, s.db, officerID)
}

func (s *OfficerStore) Delete(ctx context.Context, officerID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM officers WHERE id = $1`, officerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
