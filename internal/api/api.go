package api

import (
	"log/slog"
	"net/http"

	"verification-backend/internal/database"
	"verification-backend/internal/delivery"
	"verification-backend/internal/messaging"
	"verification-backend/internal/verification"
	"verification-backend/pkg/models"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type VerificationService struct {
	verifier  *verification.Service
	notifier  *delivery.Notifier
	publisher messaging.Publisher
	db        *gorm.DB
}

func NewVerificationService(verifier *verification.Service, notifier *delivery.Notifier, publisher messaging.Publisher, db *gorm.DB) *VerificationService {
	return &VerificationService{verifier: verifier, notifier: notifier, publisher: publisher, db: db}
}

func (s *VerificationService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(s.GetHealth))
	r.Post("/verify", s.Verify)
	r.Post("/verify/async", s.VerifyAsync)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListReports))
		r.Get("/{report_id}", RestHandler(s.GetReport))
	})
}

func (s *VerificationService) GetHealth(r *http.Request) (any, error) {
	if !s.verifier.Ready() {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "classifier unavailable")
	}
	return models.HealthResponse{Status: "ok", Message: "satellite verification service is ready"}, nil
}

// parseVerifyRequest validates the shared body of the sync and async verify
// endpoints. Range checks stay in the orchestrator; only presence is enforced
// here.
func parseVerifyRequest(r *http.Request) (models.VerifyRequest, error) {
	req, err := ParseRequest[models.VerifyRequest](r)
	if err != nil {
		return req, err
	}

	if req.ReportId == "" || req.Type == "" || req.Latitude == nil || req.Longitude == nil {
		return req, CodedErrorf(http.StatusBadRequest, "missing required fields: reportId, type, latitude, longitude")
	}

	return req, nil
}

func statusCode(status verification.Status) int {
	switch status {
	case verification.StatusBadInput:
		return http.StatusBadRequest
	case verification.StatusUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

// Verify runs one verification attempt inline and reports the terminal
// result in the response status. Webhook delivery, when requested, is
// best-effort and never changes the result.
func (s *VerificationService) Verify(w http.ResponseWriter, r *http.Request) {
	req, err := parseVerifyRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()

	report := verification.Report{
		ID:        req.ReportId,
		Type:      req.Type,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}

	result := s.verifier.Verify(ctx, report)

	if s.db != nil {
		if err := database.SaveVerificationRecord(ctx, s.db, report, result); err != nil {
			slog.Error("error saving verification record", "report_id", report.ID, "error", err)
		}
	}

	if req.CallbackUrl != "" {
		if err := s.notifier.Notify(ctx, req.CallbackUrl, result); err != nil {
			slog.Warn("webhook delivery failed", "report_id", report.ID, "callback_url", req.CallbackUrl, "error", err)
		}
	}

	WriteJsonResponseWithStatus(w, statusCode(result.Status), models.VerifyResponse{
		ReportId:   result.ReportID,
		IsVerified: result.Verified,
		Message:    result.Message,
	})
}

func (s *VerificationService) VerifyAsync(w http.ResponseWriter, r *http.Request) {
	req, err := parseVerifyRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.publisher == nil {
		writeError(w, CodedErrorf(http.StatusServiceUnavailable, "task queue unavailable"))
		return
	}

	payload := models.VerifyTaskPayload{
		ReportId:    req.ReportId,
		Type:        req.Type,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		CallbackUrl: req.CallbackUrl,
	}

	if err := s.publisher.PublishVerifyTask(r.Context(), payload); err != nil {
		slog.Error("error publishing verify task", "report_id", req.ReportId, "error", err)
		writeError(w, CodedErrorf(http.StatusInternalServerError, "failed to queue verification task"))
		return
	}

	slog.Info("queued verify task", "report_id", req.ReportId, "type", req.Type)
	WriteJsonResponseWithStatus(w, http.StatusAccepted, models.EnqueueResponse{
		ReportId: req.ReportId,
		Message:  "verification task queued",
	})
}

func (s *VerificationService) ListReports(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[models.ListReportsQuery](r)
	if err != nil {
		return nil, err
	}

	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	if s.db == nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "record store unavailable")
	}

	records, err := database.ListVerificationRecords(r.Context(), s.db, params.Limit, params.Offset)
	if err != nil {
		slog.Error("error listing verification records", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving verification records")
	}

	return records, nil
}

func (s *VerificationService) GetReport(r *http.Request) (any, error) {
	reportId := chi.URLParam(r, "report_id")
	if reportId == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing {report_id} url parameter")
	}

	if s.db == nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "record store unavailable")
	}

	records, err := database.GetVerificationRecords(r.Context(), s.db, reportId)
	if err != nil {
		slog.Error("error getting verification records", "report_id", reportId, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving verification records")
	}

	if len(records) == 0 {
		return nil, CodedErrorf(http.StatusNotFound, "no verification records for report %s", reportId)
	}

	return records, nil
}
