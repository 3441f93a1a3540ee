package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"microfin/internal/auth"
	"microfin/internal/models"
	"microfin/internal/refid"
	"microfin/internal/store"
	"microfin/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type createClientRequest struct {
	Firstname          string  `json:"firstname"`
	Surname            string  `json:"surname"`
	Username           string  `json:"username"`
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	Contact            string  `json:"contact"`
	AssignedOfficer    *string `json:"assigned_officer"`
	ResidentialAddress string  `json:"residential_address"`
	PostalAddress      string  `json:"postal_address"`
	Town               string  `json:"town"`
	MaritalStatus      string  `json:"marital_status"`
	EmergencyContact   string  `json:"emergency_contact"`
	EmploymentStatus   string  `json:"employment_status"`
	JobTitle           string  `json:"job_title"`
	MonthlyIncome      string  `json:"monthly_income"`
	OtherIncome        string  `json:"other_income"`
	IDType             string  `json:"id_type"`
	IDNumber           string  `json:"id_number"`
	IDFront            string  `json:"id_front"`
	IDBack             string  `json:"id_back"`
	AccountType        string  `json:"account_type"`
}

func (r *createClientRequest) fromForm(form map[string][]string) {
	get := func(key string) string {
		if values := form[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	r.Firstname = get("firstname")
	r.Surname = get("surname")
	r.Username = get("username")
	r.Email = get("email")
	r.Password = get("password")
	r.Contact = get("contact")
	if officer := get("assigned_officer"); officer != "" {
		r.AssignedOfficer = &officer
	}
	r.ResidentialAddress = get("residential_address")
	r.PostalAddress = get("postal_address")
	r.Town = get("town")
	r.MaritalStatus = get("marital_status")
	r.EmergencyContact = get("emergency_contact")
	r.EmploymentStatus = get("employment_status")
	r.JobTitle = get("job_title")
	r.MonthlyIncome = get("monthly_income")
	r.OtherIncome = get("other_income")
	r.IDType = get("id_type")
	r.IDNumber = get("id_number")
	r.AccountType = get("account_type")
}

// CreateClient onboards a client: user credentials, client profile and the
// client's account open together or not at all.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, http.StatusBadRequest, "invalid form payload")
			return
		}
		req.fromForm(r.MultipartForm.Value)
		var err error
		if req.IDFront, err = h.saveFormFile(r, "id_front"); err != nil {
			respondUploadError(w, err)
			return
		}
		if req.IDBack, err = h.saveFormFile(r, "id_back"); err != nil {
			respondUploadError(w, err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	accountType := req.AccountType
	if accountType == "" {
		accountType = "savings"
	}

	userID := uuid.NewString()
	clientID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.users.Create(r.Context(), tx, store.UserInput{
			ID:           userID,
			Firstname:    req.Firstname,
			Surname:      req.Surname,
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: passwordHash,
			Contact:      req.Contact,
			Role:         models.RoleClient,
		}); err != nil {
			return err
		}
		if err := h.clients.Create(r.Context(), tx, store.ClientInput{
			ID:                 clientID,
			UserID:             userID,
			ClientCode:         refid.Client(),
			AssignedOfficer:    req.AssignedOfficer,
			ResidentialAddress: req.ResidentialAddress,
			PostalAddress:      req.PostalAddress,
			Town:               req.Town,
			MaritalStatus:      req.MaritalStatus,
			EmergencyContact:   req.EmergencyContact,
			EmploymentStatus:   req.EmploymentStatus,
			JobTitle:           req.JobTitle,
			MonthlyIncome:      req.MonthlyIncome,
			OtherIncome:        req.OtherIncome,
			IDType:             req.IDType,
			IDNumber:           req.IDNumber,
			IDFront:            req.IDFront,
			IDBack:             req.IDBack,
		}); err != nil {
			return err
		}
		return h.accounts.Create(r.Context(), tx, store.AccountInput{
			ID:          uuid.NewString(),
			AccountCode: refid.Account(),
			ClientID:    clientID,
			AccountType: accountType,
			Balance:     0,
			Status:      models.StatusActive,
		})
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "username or email already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create client")
		return
	}
	client, err := h.clients.GetByID(r.Context(), clientID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load client")
		return
	}
	respondSuccess(w, http.StatusCreated, "client created", map[string]any{"client": client})
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load clients")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"clients": clients, "count": len(clients)})
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.clients.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load client")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"client": client})
}

func (h *Handler) ListClientsByOfficer(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ListByOfficer(r.Context(), chi.URLParam(r, "officerId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load clients")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"clients": clients, "count": len(clients)})
}

type updateClientRequest struct {
	AssignedOfficer    *string `json:"assigned_officer"`
	ResidentialAddress string  `json:"residential_address"`
	PostalAddress      string  `json:"postal_address"`
	Town               string  `json:"town"`
	MaritalStatus      string  `json:"marital_status"`
	EmergencyContact   string  `json:"emergency_contact"`
	EmploymentStatus   string  `json:"employment_status"`
	JobTitle           string  `json:"job_title"`
	MonthlyIncome      string  `json:"monthly_income"`
	OtherIncome        string  `json:"other_income"`
	IDType             string  `json:"id_type"`
	IDNumber           string  `json:"id_number"`
	IDFront            string  `json:"id_front"`
	IDBack             string  `json:"id_back"`
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	clientID := chi.URLParam(r, "id")
	affected, err := h.clients.Update(r.Context(), clientID, store.ClientUpdate{
		AssignedOfficer:    req.AssignedOfficer,
		ResidentialAddress: req.ResidentialAddress,
		PostalAddress:      req.PostalAddress,
		Town:               req.Town,
		MaritalStatus:      req.MaritalStatus,
		EmergencyContact:   req.EmergencyContact,
		EmploymentStatus:   req.EmploymentStatus,
		JobTitle:           req.JobTitle,
		MonthlyIncome:      req.MonthlyIncome,
		OtherIncome:        req.OtherIncome,
		IDType:             req.IDType,
		IDNumber:           req.IDNumber,
		IDFront:            req.IDFront,
		IDBack:             req.IDBack,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update client")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}
	client, err := h.clients.GetByID(r.Context(), clientID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load client")
		return
	}
	respondSuccess(w, http.StatusOK, "client updated", map[string]any{"client": client})
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	affected, err := h.clients.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete client")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}
	respondSuccess(w, http.StatusOK, "client deleted", nil)
}
