package verification

import (
	"context"
	"errors"
	"image"
	"testing"

	"verification-backend/internal/imagery"
	"verification-backend/internal/segmentation"

	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, locator string) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 600, 600)), nil
}

type fakeModel struct {
	calls int
	dist  segmentation.Distribution
	err   error
}

func (m *fakeModel) Segment(img image.Image) (segmentation.Distribution, error) {
	m.calls++
	if m.err != nil {
		return segmentation.Distribution{}, m.err
	}
	return m.dist, nil
}

func (m *fakeModel) Release() {}

func buildingDist(pct float64) segmentation.Distribution {
	return segmentation.Distribution{
		Percent:  map[string]float64{"Building": pct, "Unlabeled": 100 - pct},
		Detected: []string{"Building", "Unlabeled"},
	}
}

func TestVerifyShelterAgainstBuilding(t *testing.T) {
	fetcher := &fakeFetcher{}
	model := &fakeModel{dist: buildingDist(10.0)}
	service := NewService(fetcher, model, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R1", Type: "Shelter", Latitude: 40.0, Longitude: -74.0})

	assert.Equal(t, Result{ReportID: "R1", Verified: true, Status: StatusOK, Message: "verification complete"}, result)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, model.calls)
}

func TestVerifyBypassTypeSkipsPipeline(t *testing.T) {
	fetcher := &fakeFetcher{}
	model := &fakeModel{dist: buildingDist(10.0)}
	service := NewService(fetcher, model, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R2", Type: "MedicalNeed", Latitude: 51.5, Longitude: -0.12})

	assert.False(t, result.Verified)
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "manual verification required", result.Message)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 0, model.calls)
}

func TestVerifyUnknownTypeRejected(t *testing.T) {
	fetcher := &fakeFetcher{}
	model := &fakeModel{}
	service := NewService(fetcher, model, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R3", Type: "UFO", Latitude: 40.0, Longitude: -74.0})

	assert.False(t, result.Verified)
	assert.Equal(t, StatusBadInput, result.Status)
	assert.Equal(t, "invalid report type", result.Message)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 0, model.calls)
}

func TestVerifyTypeComparisonIsCaseInsensitive(t *testing.T) {
	for _, reportType := range []string{"Water", "water", "WATER"} {
		fetcher := &fakeFetcher{}
		model := &fakeModel{dist: segmentation.Distribution{
			Percent:  map[string]float64{"Water": 40.0, "Land": 60.0},
			Detected: []string{"Land", "Water"},
		}}
		service := NewService(fetcher, model, DefaultPolicy())

		result := service.Verify(context.Background(), Report{ID: "R4", Type: reportType, Latitude: 1.0, Longitude: 1.0})

		assert.True(t, result.Verified, "type %q", reportType)
		assert.Equal(t, StatusOK, result.Status)
	}
}

func TestVerifyBypassIsCaseInsensitive(t *testing.T) {
	fetcher := &fakeFetcher{}
	service := NewService(fetcher, &fakeModel{}, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R5", Type: "DANGER", Latitude: 0, Longitude: 0})

	assert.Equal(t, StatusOK, result.Status)
	assert.False(t, result.Verified)
	assert.Equal(t, 0, fetcher.calls)
}

func TestVerifyCoordinatesOutOfRange(t *testing.T) {
	fetcher := &fakeFetcher{}
	service := NewService(fetcher, &fakeModel{}, DefaultPolicy())

	for _, report := range []Report{
		{ID: "R6", Type: "Water", Latitude: 91.0, Longitude: 0},
		{ID: "R7", Type: "Water", Latitude: 0, Longitude: -181.0},
	} {
		result := service.Verify(context.Background(), report)
		assert.Equal(t, StatusBadInput, result.Status)
		assert.False(t, result.Verified)
	}
	assert.Equal(t, 0, fetcher.calls)
}

func TestVerifyAcquisitionFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: imagery.ErrAcquisitionFailed}
	model := &fakeModel{}
	service := NewService(fetcher, model, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R8", Type: "Water", Latitude: 10, Longitude: 10})

	assert.Equal(t, StatusUnavailable, result.Status)
	assert.False(t, result.Verified)
	assert.Equal(t, "imagery acquisition failed", result.Message)
	assert.Equal(t, 0, model.calls)
}

func TestVerifyClassificationFailure(t *testing.T) {
	fetcher := &fakeFetcher{}
	model := &fakeModel{err: errors.New("tensor shape mismatch")}
	service := NewService(fetcher, model, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R9", Type: "Water", Latitude: 10, Longitude: 10})

	assert.Equal(t, StatusUnavailable, result.Status)
	assert.Equal(t, "classification failed", result.Message)
	assert.Equal(t, 1, fetcher.calls)
}

func TestVerifyNilModelFailsFast(t *testing.T) {
	fetcher := &fakeFetcher{}
	service := NewService(fetcher, nil, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R10", Type: "Water", Latitude: 10, Longitude: 10})

	assert.Equal(t, StatusUnavailable, result.Status)
	assert.Equal(t, "classifier unavailable", result.Message)
	assert.Equal(t, 0, fetcher.calls, "no point burning a browser session without a classifier")
}

func TestVerifyBelowThresholdCompletesUnverified(t *testing.T) {
	fetcher := &fakeFetcher{}
	model := &fakeModel{dist: buildingDist(2.5)}
	service := NewService(fetcher, model, DefaultPolicy())

	result := service.Verify(context.Background(), Report{ID: "R11", Type: "Shelter", Latitude: 40.0, Longitude: -74.0})

	assert.False(t, result.Verified)
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "verification complete", result.Message)
}

func TestVerifyIsRepeatable(t *testing.T) {
	fetcher := &fakeFetcher{}
	model := &fakeModel{dist: buildingDist(10.0)}
	service := NewService(fetcher, model, DefaultPolicy())

	report := Report{ID: "R12", Type: "Shelter", Latitude: 40.0, Longitude: -74.0}
	first := service.Verify(context.Background(), report)
	second := service.Verify(context.Background(), report)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, fetcher.calls)
}
