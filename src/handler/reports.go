package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	errors "ganak-service/src/error"
	"ganak-service/src/models"
	"ganak-service/src/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error)
	Get(ctx context.Context, userID, reportID primitive.ObjectID) (*models.Report, error)
	Delete(ctx context.Context, userID, reportID primitive.ObjectID) error
}

type ReportHandler struct {
	*Handler
	Reports ReportStore
	Users   UserStore
}

func NewReportHandler(h *Handler, reports ReportStore, users UserStore) *ReportHandler {
	return &ReportHandler{Handler: h, Reports: reports, Users: users}
}

func (h *ReportHandler) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	var req models.CreateReportRequest
	if !h.decode(w, r, &req) {
		return
	}
	findings := req.Findings
	if findings == nil {
		findings = []models.ReportFinding{}
	}

	rep := &models.Report{UserID: userID, Title: req.Title, Summary: req.Summary, Findings: findings}
	if err := h.Reports.Create(r.Context(), rep); err != nil {
		h.storeError(w, err, errors.ErrReportNotFound, "Failed to create report")
		return
	}
	h.writeJSON(w, http.StatusCreated, rep)
}

func (h *ReportHandler) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	reports, err := h.Reports.List(r.Context(), userID)
	if err != nil {
		h.storeError(w, err, errors.ErrReportNotFound, "Failed to list reports")
		return
	}
	h.writeJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadReport(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	reportID, ok := h.pathID(w, r, "reportID")
	if !ok {
		return
	}

	if err := h.Reports.Delete(r.Context(), userID, reportID); err != nil {
		h.storeError(w, err, errors.ErrReportNotFound, "Failed to delete report")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReportHandler) DownloadReportPDFHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.App.Logger

	rep, ok := h.loadReport(w, r)
	if !ok {
		return
	}

	owner := "patient"
	if user, err := h.Users.FindByID(r.Context(), rep.UserID); err == nil {
		owner = user.FullName
	}

	data, err := report.RenderPDF(*rep, owner)
	if err != nil {
		http.Error(w, errors.ErrInternalServer, http.StatusInternalServerError)
		logger.Error("Failed to render report PDF: " + err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+rep.ID.Hex()+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write report PDF: " + err.Error())
		return
	}
	logger.Info("Report PDF generated in " + time.Since(startTime).String())
}

func (h *ReportHandler) loadReport(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return nil, false
	}
	reportID, ok := h.pathID(w, r, "reportID")
	if !ok {
		return nil, false
	}

	rep, err := h.Reports.Get(r.Context(), userID, reportID)
	if err != nil {
		h.storeError(w, err, errors.ErrReportNotFound, "Failed to fetch report")
		return nil, false
	}
	return rep, true
}
