package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"microfin/internal/auth"
	"microfin/internal/models"
	"microfin/internal/refid"
	"microfin/internal/store"
	"microfin/internal/upload"
	"microfin/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const maxUploadBytes = 10 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// saveFormFile stores an optional multipart attachment and returns its
// served path, or "" when the field is absent.
func (h *Handler) saveFormFile(r *http.Request, field string) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return "", nil
	}
	return h.uploads.Save(files[0])
}

type createOfficerRequest struct {
	Firstname          string `json:"firstname"`
	Surname            string `json:"surname"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	Contact            string `json:"contact"`
	ResidentialAddress string `json:"residential_address"`
	PostalAddress      string `json:"postal_address"`
	Town               string `json:"town"`
	MaritalStatus      string `json:"marital_status"`
	EmergencyContact   string `json:"emergency_contact"`
	IDType             string `json:"id_type"`
	IDNumber           string `json:"id_number"`
	IDFront            string `json:"id_front"`
	IDBack             string `json:"id_back"`
}

func (r *createOfficerRequest) fromForm(form map[string][]string) {
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
	r.ResidentialAddress = get("residential_address")
	r.PostalAddress = get("postal_address")
	r.Town = get("town")
	r.MaritalStatus = get("marital_status")
	r.EmergencyContact = get("emergency_contact")
	r.IDType = get("id_type")
	r.IDNumber = get("id_number")
}

func (h *Handler) CreateOfficer(w http.ResponseWriter, r *http.Request) {
	var req createOfficerRequest
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

	userID := uuid.NewString()
	officerID := uuid.NewString()
	officerCode := refid.Officer()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.users.Create(r.Context(), tx, store.UserInput{
			ID:           userID,
			Firstname:    req.Firstname,
			Surname:      req.Surname,
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: passwordHash,
			Contact:      req.Contact,
			Role:         models.RoleOfficer,
		}); err != nil {
			return err
		}
		return h.officers.Create(r.Context(), tx, store.OfficerInput{
			ID:                 officerID,
			UserID:             userID,
			OfficerCode:        officerCode,
			ResidentialAddress: req.ResidentialAddress,
			PostalAddress:      req.PostalAddress,
			Town:               req.Town,
			MaritalStatus:      req.MaritalStatus,
			EmergencyContact:   req.EmergencyContact,
			IDType:             req.IDType,
			IDNumber:           req.IDNumber,
			IDFront:            req.IDFront,
			IDBack:             req.IDBack,
		})
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "username or email already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create officer")
		return
	}
	officer, err := h.officers.GetByID(r.Context(), officerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load officer")
		return
	}
	respondSuccess(w, http.StatusCreated, "officer created", map[string]any{"officer": officer})
}

func respondUploadError(w http.ResponseWriter, err error) {
	if err == upload.ErrUnsupportedType {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "unable to store attachment")
}

func (h *Handler) ListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.officers.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load officers")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"officers": officers, "count": len(officers)})
}

func (h *Handler) GetOfficer(w http.ResponseWriter, r *http.Request) {
	officer, err := h.officers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "officer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load officer")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"officer": officer})
}

type updateOfficerRequest struct {
	ResidentialAddress string `json:"residential_address"`
	PostalAddress      string `json:"postal_address"`
	Town               string `json:"town"`
	MaritalStatus      string `json:"marital_status"`
	EmergencyContact   string `json:"emergency_contact"`
	IDType             string `json:"id_type"`
	IDNumber           string `json:"id_number"`
	IDFront            string `json:"id_front"`
	IDBack             string `json:"id_back"`
}

func (h *Handler) UpdateOfficer(w http.ResponseWriter, r *http.Request) {
	var req updateOfficerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	officerID := chi.URLParam(r, "id")
	affected, err := h.officers.Update(r.Context(), officerID, store.OfficerUpdate{
		ResidentialAddress: req.ResidentialAddress,
		PostalAddress:      req.PostalAddress,
		Town:               req.Town,
		MaritalStatus:      req.MaritalStatus,
		EmergencyContact:   req.EmergencyContact,
		IDType:             req.IDType,
		IDNumber:           req.IDNumber,
		IDFront:            req.IDFront,
		IDBack:             req.IDBack,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update officer")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "officer not found")
		return
	}
	officer, err := h.officers.GetByID(r.Context(), officerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load officer")
		return
	}
	respondSuccess(w, http.StatusOK, "officer updated", map[string]any{"officer": officer})
}

func (h *Handler) DeleteOfficer(w http.ResponseWriter, r *http.Request) {
	affected, err := h.officers.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete officer")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "officer not found")
		return
	}
	respondSuccess(w, http.StatusOK, "officer deleted", nil)
}
