package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"verification-backend/internal/database"
	"verification-backend/internal/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationRecordRoundTrip(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "verification.db"))
	require.NoError(t, err)

	report := verification.Report{ID: "R1", Type: "shelter", Latitude: 40.0, Longitude: -74.0}
	result := verification.Result{ReportID: "R1", Verified: true, Status: verification.StatusOK, Message: "verification complete"}
	require.NoError(t, database.SaveVerificationRecord(context.Background(), db, report, result))

	records, err := database.GetVerificationRecords(context.Background(), db, "R1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "R1", records[0].ReportId)
	assert.Equal(t, "shelter", records[0].ReportType)
	assert.Equal(t, 40.0, records[0].Latitude)
	assert.Equal(t, -74.0, records[0].Longitude)
	assert.True(t, records[0].Verified)
	assert.Equal(t, "OK", records[0].Status)
}

func TestRedeliveryAppendsRecords(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "verification.db"))
	require.NoError(t, err)

	report := verification.Report{ID: "R2", Type: "road", Latitude: 1, Longitude: 2}
	require.NoError(t, database.SaveVerificationRecord(context.Background(), db, report,
		verification.Result{ReportID: "R2", Verified: false, Status: verification.StatusUnavailable, Message: "imagery acquisition failed"}))
	require.NoError(t, database.SaveVerificationRecord(context.Background(), db, report,
		verification.Result{ReportID: "R2", Verified: true, Status: verification.StatusOK, Message: "verification complete"}))

	records, err := database.GetVerificationRecords(context.Background(), db, "R2")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListVerificationRecordsPagination(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "verification.db"))
	require.NoError(t, err)

	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, database.SaveVerificationRecord(context.Background(), db,
			verification.Report{ID: id, Type: "water", Latitude: 0.5, Longitude: 0.5},
			verification.Result{ReportID: id, Verified: false, Status: verification.StatusOK, Message: "verification complete"}))
	}

	records, err := database.ListVerificationRecords(context.Background(), db, 2, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	rest, err := database.ListVerificationRecords(context.Background(), db, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
