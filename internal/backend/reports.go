package backend

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

type reportPayload struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"userId"`
	ReportName string   `json:"reportName"`
	ReportType string   `json:"reportType"`
	CreatedAt  wireTime `json:"createdAt"`
}

func (p reportPayload) toDomain() domain.Report {
	return domain.Report{
		ID:         p.ID,
		UserID:     p.UserID,
		ReportName: strings.TrimSpace(p.ReportName),
		ReportType: strings.TrimSpace(p.ReportType),
		CreatedAt:  p.CreatedAt.Time,
	}
}

// CreateReport persists a generated artifact to the user's report store.
func (c *Client) CreateReport(ctx context.Context, token string, upload domain.ReportUpload) error {
	endpoint, err := c.endpoint("api", "reports")
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, endpoint, token, upload, nil)
}

// ListReports returns the reports owned by a user.
func (c *Client) ListReports(ctx context.Context, token string, userID int64) ([]domain.Report, error) {
	endpoint, err := c.endpoint("api", "reports", "user", strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, err
	}
	var payloads []reportPayload
	if err := c.do(ctx, http.MethodGet, endpoint, token, nil, &payloads); err != nil {
		return nil, err
	}
	reports := make([]domain.Report, 0, len(payloads))
	for _, p := range payloads {
		reports = append(reports, p.toDomain())
	}
	return reports, nil
}

// DownloadReport streams the stored binary payload of a report.
func (c *Client) DownloadReport(ctx context.Context, token string, reportID int64) ([]byte, error) {
	endpoint, err := c.endpoint("api", "reports", strconv.FormatInt(reportID, 10), "download")
	if err != nil {
		return nil, err
	}
	return c.raw(ctx, http.MethodGet, endpoint, token)
}
