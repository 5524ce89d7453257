package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"verification-backend/internal/database"
	"verification-backend/internal/delivery"
	"verification-backend/internal/verification"
	"verification-backend/pkg/models"

	"gorm.io/gorm"
)

// VerifyWorker consumes verification tasks, runs each through the
// orchestrator, records the terminal result, and delivers the webhook.
// Acknowledgment happens only after the orchestrator returns, so a crash
// mid-attempt leads to redelivery (at-least-once; the attempt itself is
// stateless, so reprocessing is safe).
type VerifyWorker struct {
	receiver Receiver
	verifier *verification.Service
	notifier *delivery.Notifier
	db       *gorm.DB
}

func NewVerifyWorker(receiver Receiver, verifier *verification.Service, notifier *delivery.Notifier, db *gorm.DB) *VerifyWorker {
	return &VerifyWorker{
		receiver: receiver,
		verifier: verifier,
		notifier: notifier,
		db:       db,
	}
}

// Start drains tasks until the receiver closes. Run it in as many goroutines
// as the host wants concurrent attempts; independent reports need no
// ordering between them.
func (w *VerifyWorker) Start() {
	for task := range w.receiver.Tasks() {
		w.process(task)
	}
}

func (w *VerifyWorker) Stop() {
	w.receiver.Close()
}

func (w *VerifyWorker) process(task Task) {
	ctx := context.Background()

	if task.Type() != VerifyQueue {
		slog.Warn("received task from unknown queue, discarding", "queue", task.Type())
		if err := task.Reject(); err != nil {
			slog.Error("error rejecting task", "error", err)
		}
		return
	}

	var payload models.VerifyTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.Error("error unmarshalling verify task, discarding", "error", err)
		// Malformed payloads will not improve on redelivery.
		if err := task.Reject(); err != nil {
			slog.Error("error rejecting task", "error", err)
		}
		return
	}

	slog.Info("processing verify task", "report_id", payload.ReportId, "type", payload.Type)

	report := verification.Report{
		ID:        payload.ReportId,
		Type:      payload.Type,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	}

	result := w.verifier.Verify(ctx, report)

	if w.db != nil {
		if err := database.SaveVerificationRecord(ctx, w.db, report, result); err != nil {
			slog.Error("error saving verification record", "report_id", report.ID, "error", err)
		}
	}

	if payload.CallbackUrl != "" {
		if err := w.notifier.Notify(ctx, payload.CallbackUrl, result); err != nil {
			// Best-effort only; the attempt's result stands.
			slog.Warn("webhook delivery failed", "report_id", report.ID, "callback_url", payload.CallbackUrl, "error", err)
		}
	} else {
		slog.Info("no callback url provided, skipping delivery", "report_id", report.ID)
	}

	if err := task.Ack(); err != nil {
		slog.Error("error acknowledging task", "report_id", report.ID, "error", err)
	}
}
