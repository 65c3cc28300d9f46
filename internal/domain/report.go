package domain

import "time"

// ReportTypeInvoice tags reports generated from invoice downloads.
const ReportTypeInvoice = "invoice"

// Report is a persisted artifact owned by a user, e.g. a generated invoice.
type Report struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	ReportName string    `json:"reportName"`
	ReportType string    `json:"reportType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReportUpload is the creation payload for a new report artifact.
type ReportUpload struct {
	UserID     int64  `json:"userId"`
	ReportName string `json:"reportName"`
	ReportType string `json:"reportType"`
	Data       []byte `json:"data"`
}
