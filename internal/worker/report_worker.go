package worker

// report_worker.go
// Processes closing_report jobs: renders the daily closing PDF and mails it
// to the configured report address. Send goes through the SMTP circuit
// breaker so a downed mail server fails fast instead of blocking the pool.

import (
	"context"
	"encoding/json"
	"fmt"

	"aquadesk/internal/infra"
	"aquadesk/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportWorker renders and mails end-of-day closing reports.
type ReportWorker struct {
	closings    repository.ClosingRepository
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	storagePath string
	reportEmail string
}

func NewReportWorker(closings repository.ClosingRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, storagePath, reportEmail string) *ReportWorker {
	return &ReportWorker{
		closings:    closings,
		mailer:      mailer,
		cb:          cb,
		storagePath: storagePath,
		reportEmail: reportEmail,
	}
}

// Process renders the PDF and sends it. A returned error sends the job to the DLQ.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ClosingReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	closing, err := w.closings.FindByDateString(ctx, payload.Date)
	if err != nil {
		return fmt.Errorf("report_worker: load closing %s: %w", payload.Date, err)
	}

	pdfPath, err := infra.GenerateClosingPDF(closing, w.storagePath)
	if err != nil {
		return fmt.Errorf("report_worker: render pdf: %w", err)
	}

	if w.reportEmail == "" {
		log.Warn().Str("date", payload.Date).Msg("report_worker: no report email configured, pdf kept on disk")
		return nil
	}

	subject := "Daily closing " + payload.Date
	body := fmt.Sprintf("Closing for %s attached.\nTotal collected: RS. %s\nBalance movement: RS. %s",
		payload.Date, closing.TotalPaidAmount.StringFixed(2), closing.BalanceClearedToday.StringFixed(2))

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendReport(w.reportEmail, subject, body, pdfPath)
	})
	if sendErr != nil {
		return fmt.Errorf("report_worker: send mail: %w", sendErr)
	}

	log.Info().Str("date", payload.Date).Str("to", w.reportEmail).Msg("report_worker: closing report sent")
	return nil
}
