// Package reports persists generated artifacts to the backend report store.
package reports

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/invoice"
)

const uploadTimeout = 15 * time.Second

// Uploader is the slice of the backend client the saver depends on.
type Uploader interface {
	CreateReport(ctx context.Context, token string, upload domain.ReportUpload) error
}

// Saver uploads invoice artifacts in the background. Uploads are
// fire-and-forget relative to the download that produced them: a failed
// upload is logged and never blocks or undoes the download.
type Saver struct {
	uploader Uploader
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewSaver constructs a Saver.
func NewSaver(uploader Uploader, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{uploader: uploader, logger: logger}
}

// SaveInvoiceAsync schedules an invoice artifact for upload and returns
// immediately.
func (s *Saver) SaveInvoiceAsync(ident domain.Identity, orderID int64, pdf []byte) {
	if s == nil || s.uploader == nil || len(pdf) == 0 {
		return
	}
	upload := domain.ReportUpload{
		UserID:     ident.User.ID,
		ReportName: invoice.FileName(orderID),
		ReportType: domain.ReportTypeInvoice,
		Data:       pdf,
	}
	token := ident.Token

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		if err := s.uploader.CreateReport(ctx, token, upload); err != nil {
			s.logger.Warn("invoice report upload failed",
				zap.Int64("user_id", upload.UserID),
				zap.Int64("order_id", orderID),
				zap.Error(err))
			return
		}
		s.logger.Info("invoice saved to reports",
			zap.Int64("user_id", upload.UserID),
			zap.String("report_name", upload.ReportName))
	}()
}

// Wait blocks until scheduled uploads finish, for graceful shutdown.
func (s *Saver) Wait() {
	s.wg.Wait()
}
