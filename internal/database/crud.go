package database

import (
	"context"
	"log/slog"
	"time"

	"verification-backend/internal/verification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SaveVerificationRecord(ctx context.Context, db *gorm.DB, report verification.Report, result verification.Result) error {
	record := VerificationRecord{
		Id:           uuid.New(),
		ReportId:     report.ID,
		ReportType:   report.Type,
		Latitude:     report.Latitude,
		Longitude:    report.Longitude,
		Verified:     result.Verified,
		Status:       string(result.Status),
		Message:      result.Message,
		CreationTime: time.Now().UTC(),
	}

	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		slog.Error("error saving verification record", "report_id", report.ID, "error", err)
		return err
	}
	return nil
}

func ListVerificationRecords(ctx context.Context, db *gorm.DB, limit, offset int) ([]VerificationRecord, error) {
	var records []VerificationRecord
	err := db.WithContext(ctx).
		Order("creation_time desc").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

func GetVerificationRecords(ctx context.Context, db *gorm.DB, reportId string) ([]VerificationRecord, error) {
	var records []VerificationRecord
	err := db.WithContext(ctx).
		Where("report_id = ?", reportId).
		Order("creation_time desc").
		Find(&records).Error
	return records, err
}
