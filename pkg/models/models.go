package models

// --- Task Payload Structs ---

// VerifyTaskPayload is the queue message for one verification attempt. The
// field set mirrors VerifyRequest; delivery is at-least-once, so the same
// payload may be processed more than once.
type VerifyTaskPayload struct {
	ReportId    string  `json:"reportId"`
	Type        string  `json:"type"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	CallbackUrl string  `json:"callbackUrl,omitempty"`
}

// --- API Request/Response Structs ---

// VerifyRequest is the body of POST /api/verify. Coordinates are pointers so
// that a missing field can be distinguished from a legitimate zero value.
type VerifyRequest struct {
	ReportId    string   `json:"reportId"`
	Type        string   `json:"type"`
	Longitude   *float64 `json:"longitude"`
	Latitude    *float64 `json:"latitude"`
	CallbackUrl string   `json:"callbackUrl,omitempty"`
}

type VerifyResponse struct {
	ReportId   string `json:"reportId"`
	IsVerified bool   `json:"isVerified"`
	Message    string `json:"message"`
}

type EnqueueResponse struct {
	ReportId string `json:"reportId"`
	Message  string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ListReportsQuery struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}

// --- Webhook ---

// WebhookPayload is posted to the caller-supplied callback URL after an
// attempt reaches a terminal result. Timestamp is epoch seconds.
type WebhookPayload struct {
	ReportId   string `json:"reportId"`
	IsVerified bool   `json:"isVerified"`
	Timestamp  int64  `json:"timestamp"`
	Message    string `json:"message"`
}
