package database

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRecord is the audit row written for every terminal
// verification result, one per attempt. Redelivered queue messages simply
// append another row; report_id is indexed, not unique. No imagery or
// per-pixel data is ever stored.
type VerificationRecord struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReportId     string    `gorm:"index"`
	ReportType   string
	Latitude     float64
	Longitude    float64
	Verified     bool
	Status       string
	Message      string
	CreationTime time.Time
}
