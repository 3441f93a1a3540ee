package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"microfin/internal/refid"
	"microfin/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type createReportRequest struct {
	SubmittedBy *string `json:"submitted_by"`
	ReportType  string  `json:"report_type"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Document    string  `json:"supporting_document"`
}

func (r *createReportRequest) fromForm(form map[string][]string) {
	get := func(key string) string {
		if values := form[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	if submitted := get("submitted_by"); submitted != "" {
		r.SubmittedBy = &submitted
	}
	r.ReportType = get("report_type")
	r.Title = get("title")
	r.Content = get("content")
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, http.StatusBadRequest, "invalid form payload")
			return
		}
		req.fromForm(r.MultipartForm.Value)
		var err error
		if req.Document, err = h.saveFormFile(r, "supporting_document"); err != nil {
			respondUploadError(w, err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" || req.ReportType == "" {
		respondError(w, http.StatusBadRequest, "title and report_type are required")
		return
	}
	var document *string
	if req.Document != "" {
		document = &req.Document
	}
	reportID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.reports.Create(r.Context(), tx, store.ReportInput{
			ID:          reportID,
			ReportCode:  refid.Report(),
			SubmittedBy: req.SubmittedBy,
			ReportType:  req.ReportType,
			Title:       req.Title,
			Content:     req.Content,
			Document:    document,
		})
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			respondError(w, http.StatusNotFound, "officer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create report")
		return
	}
	report, err := h.reports.GetByID(r.Context(), reportID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load report")
		return
	}
	respondSuccess(w, http.StatusCreated, "report submitted", map[string]any{"report": report})
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load reports")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"reports": reports, "count": len(reports)})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "report not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load report")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"report": report})
}

func (h *Handler) ListReportsByOfficer(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListByOfficer(r.Context(), chi.URLParam(r, "officerId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load reports")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"reports": reports, "count": len(reports)})
}

type updateReportRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	ReportType string `json:"report_type"`
	Status     string `json:"status"`
}

func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	var req updateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	reportID := chi.URLParam(r, "id")
	affected, err := h.reports.Update(r.Context(), reportID, store.ReportUpdate{
		Title:      req.Title,
		Content:    req.Content,
		ReportType: req.ReportType,
		Status:     req.Status,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update report")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	report, err := h.reports.GetByID(r.Context(), reportID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load report")
		return
	}
	respondSuccess(w, http.StatusOK, "report updated", map[string]any{"report": report})
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	affected, err := h.reports.SoftDelete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete report")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	respondSuccess(w, http.StatusOK, "report deleted", nil)
}
