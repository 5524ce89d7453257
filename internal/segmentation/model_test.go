package segmentation

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateArgmaxPicksHighestScore(t *testing.T) {
	scores := []float32{0.05, 0.1, 0.6, 0.1, 0.05, 0.05, 0.05}
	assert.Equal(t, 2, gateArgmax(scores, 0.3))
}

func TestGateArgmaxReassignsLowConfidence(t *testing.T) {
	// Arg-max is Building (index 0) but its probability sits below the floor.
	scores := []float32{0.25, 0.15, 0.15, 0.15, 0.1, 0.1, 0.1}
	assert.Equal(t, unlabeledIndex, gateArgmax(scores, 0.3))
}

func TestGateArgmaxBoundaryIsInclusive(t *testing.T) {
	// Exactly at the floor keeps the label: the gate is conf < floor.
	scores := []float32{0.3, 0.2, 0.2, 0.1, 0.1, 0.05, 0.05}
	assert.Equal(t, 0, gateArgmax(scores, 0.3))
}

func TestAggregatePercentages(t *testing.T) {
	// 6 Building, 2 Water, 2 Unlabeled out of 10 pixels.
	labels := []int{0, 0, 0, 0, 0, 0, 4, 4, 5, 5}

	dist := aggregate(labels)

	require.Equal(t, []string{"Building", "Water", "Unlabeled"}, dist.Detected)
	assert.InDelta(t, 60.0, dist.Percent["Building"], 1e-9)
	assert.InDelta(t, 20.0, dist.Percent["Water"], 1e-9)
	assert.InDelta(t, 20.0, dist.Percent["Unlabeled"], 1e-9)
}

func TestAggregateOmitsAbsentClasses(t *testing.T) {
	dist := aggregate([]int{1, 1, 1, 1})

	assert.Equal(t, []string{"Land"}, dist.Detected)
	assert.NotContains(t, dist.Percent, "Road")
	assert.Len(t, dist.Percent, 1)
}

func TestAggregatePercentagesSumToHundred(t *testing.T) {
	labels := []int{0, 1, 2, 3, 4, 5, 6, 0, 1, 2, 3}

	dist := aggregate(labels)

	var sum float64
	for _, pct := range dist.Percent {
		sum += pct
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestAggregateDetectedOrderFollowsClassIndex(t *testing.T) {
	// Water pixels dominate but Building has the lower class index, so it
	// must come first in Detected.
	labels := []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 0}

	dist := aggregate(labels)

	require.Equal(t, []string{"Building", "Water"}, dist.Detected)
}

func TestToModelInputShapeAndRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 600; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 128, B: 0, A: 255})
		}
	}

	data := toModelInput(img)

	require.Len(t, data, InputSize*InputSize*channels)
	assert.InDelta(t, 1.0, data[0], 1e-6)
	assert.InDelta(t, 128.0/255.0, data[1], 1e-2)
	assert.InDelta(t, 0.0, data[2], 1e-6)
}
