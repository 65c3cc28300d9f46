package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/httpx"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

// ReportSource lists and downloads a user's saved report artifacts.
type ReportSource interface {
	ListReports(ctx context.Context, token string, userID int64) ([]domain.Report, error)
	DownloadReport(ctx context.Context, token string, reportID int64) ([]byte, error)
}

// ReportHandlers serves the saved-reports archive.
type ReportHandlers struct {
	reports ReportSource
}

// NewReportHandlers constructs report handlers.
func NewReportHandlers(reports ReportSource) *ReportHandlers {
	return &ReportHandlers{reports: reports}
}

// Routes wires the /reports endpoints onto the provided router.
func (h *ReportHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Use(RequireIdentity)
	r.Get("/", h.listReports)
	r.Get("/{reportID}/download", h.downloadReport)
}

type reportListResponse struct {
	Reports []domain.Report `json:"reports"`
}

func (h *ReportHandlers) listReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	list, err := h.reports.ListReports(ctx, identity.Token, identity.User.ID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	if list == nil {
		list = []domain.Report{}
	}
	httpx.WriteJSON(w, http.StatusOK, reportListResponse{Reports: list})
}

func (h *ReportHandlers) downloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	reportID, ok := pathID(r, "reportID")
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "report id must be a positive integer", http.StatusBadRequest))
		return
	}

	data, err := h.reports.DownloadReport(ctx, identity.Token, reportID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("report-%d.pdf", reportID)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
