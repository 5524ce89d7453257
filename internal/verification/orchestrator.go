package verification

import (
	"context"
	"log/slog"
	"strings"

	"verification-backend/internal/aoi"
	"verification-backend/internal/imagery"
	"verification-backend/internal/segmentation"
)

// Service sequences one verification attempt: validate the report type,
// apply the bypass policy, then acquisition -> classification -> matching.
// Each attempt is stateless, so re-running the same report (e.g. on queue
// redelivery) is safe.
type Service struct {
	fetcher imagery.Fetcher
	model   segmentation.Model
	policy  Policy

	valid        map[string]struct{}
	bypass       map[string]struct{}
	classToTypes map[string]map[string]struct{}
}

// NewService wires the orchestrator. A nil model is allowed and means the
// classifier failed to initialize at startup: every pipeline attempt then
// fails fast with StatusUnavailable until the process is restarted. Policy
// tables are case-folded here, exactly once.
func NewService(fetcher imagery.Fetcher, model segmentation.Model, policy Policy) *Service {
	s := &Service{
		fetcher:      fetcher,
		model:        model,
		policy:       policy,
		valid:        make(map[string]struct{}),
		bypass:       make(map[string]struct{}),
		classToTypes: make(map[string]map[string]struct{}),
	}

	for class, types := range policy.ClassToTypes {
		accepted := make(map[string]struct{}, len(types))
		for _, t := range types {
			folded := strings.ToLower(t)
			accepted[folded] = struct{}{}
			s.valid[folded] = struct{}{}
		}
		s.classToTypes[class] = accepted
	}
	for _, t := range policy.BypassTypes {
		folded := strings.ToLower(t)
		s.bypass[folded] = struct{}{}
		s.valid[folded] = struct{}{}
	}
	for _, t := range policy.ExtraValidTypes {
		s.valid[strings.ToLower(t)] = struct{}{}
	}

	return s
}

// Ready reports whether the classification capability is loaded.
func (s *Service) Ready() bool {
	return s.model != nil
}

// Verify runs one attempt to a terminal Result. It never retries a stage
// and never returns an error: every failure mode maps to a status.
func (s *Service) Verify(ctx context.Context, report Report) Result {
	reportType := strings.ToLower(report.Type)

	if _, ok := s.valid[reportType]; !ok {
		slog.Info("rejected report with unknown type", "report_id", report.ID, "type", report.Type)
		return Result{ReportID: report.ID, Verified: false, Status: StatusBadInput, Message: "invalid report type"}
	}

	if report.Latitude < -90 || report.Latitude > 90 || report.Longitude < -180 || report.Longitude > 180 {
		slog.Info("rejected report with out-of-range coordinates", "report_id", report.ID, "lat", report.Latitude, "lon", report.Longitude)
		return Result{ReportID: report.ID, Verified: false, Status: StatusBadInput, Message: "coordinates out of range"}
	}

	if _, ok := s.bypass[reportType]; ok {
		// Policy, not failure: these categories are reviewed by humans and
		// never reach the imagery stage.
		return Result{ReportID: report.ID, Verified: false, Status: StatusOK, Message: "manual verification required"}
	}

	if s.model == nil {
		return Result{ReportID: report.ID, Verified: false, Status: StatusUnavailable, Message: "classifier unavailable"}
	}

	locator := aoi.Locator(report.Latitude, report.Longitude, s.policy.AOIDelta)

	raster, err := s.fetcher.Fetch(ctx, locator)
	if err != nil {
		slog.Error("imagery acquisition failed", "report_id", report.ID, "error", err)
		return Result{ReportID: report.ID, Verified: false, Status: StatusUnavailable, Message: "imagery acquisition failed"}
	}

	dist, err := s.model.Segment(raster)
	if err != nil {
		slog.Error("classification failed", "report_id", report.ID, "error", err)
		return Result{ReportID: report.ID, Verified: false, Status: StatusUnavailable, Message: "classification failed"}
	}

	verified := matchReportType(dist, reportType, s.policy.Threshold, s.classToTypes)
	slog.Info("verification complete", "report_id", report.ID, "type", reportType, "verified", verified, "detected", dist.Detected)

	return Result{ReportID: report.ID, Verified: verified, Status: StatusOK, Message: "verification complete"}
}
