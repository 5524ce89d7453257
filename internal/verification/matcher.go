package verification

import "verification-backend/internal/segmentation"

// matchReportType decides whether the distribution corroborates the report
// type. Detected classes are scanned in their fixed order (ascending class
// index); the first class that both accepts the type and strictly exceeds
// the threshold wins. This is first-match, not best-match: a later class
// with a higher percentage is never consulted once a match is found, and a
// class that accepts the type but misses the threshold does not stop the
// scan.
func matchReportType(dist segmentation.Distribution, reportType string, threshold float64, classToTypes map[string]map[string]struct{}) bool {
	for _, class := range dist.Detected {
		accepted, ok := classToTypes[class]
		if !ok {
			continue
		}
		if _, ok := accepted[reportType]; !ok {
			continue
		}
		if dist.Percent[class] > threshold {
			return true
		}
	}
	return false
}
