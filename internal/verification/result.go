// Package verification decides whether a citizen-submitted incident report
// is corroborated by independently acquired satellite imagery.
package verification

// Report is one verification attempt's input, immutable once received.
type Report struct {
	ID        string
	Type      string
	Latitude  float64
	Longitude float64
}

// Status classifies a terminal result. BAD_INPUT is reserved for input
// validation failures and UNAVAILABLE for acquisition/classification
// failures; everything else is OK regardless of the verified boolean.
type Status string

const (
	StatusOK          Status = "OK"
	StatusBadInput    Status = "BAD_INPUT"
	StatusUnavailable Status = "UNAVAILABLE"
)

// Result is the single terminal outcome of an attempt. It is handed both to
// the synchronous caller and to webhook delivery; delivery failures never
// alter it.
type Result struct {
	ReportID string
	Verified bool
	Status   Status
	Message  string
}
