// Package segmentation wraps the pretrained per-pixel land-cover classifier.
// The model is loaded once at process start and reused for every attempt.
package segmentation

import (
	"errors"
	"image"
)

// InputSize is the model's fixed input resolution; rasters are resized to
// InputSize x InputSize before inference.
const InputSize = 256

// DefaultConfidenceFloor is the minimum arg-max probability a pixel needs to
// keep its label. Below it the pixel is reassigned to "Unlabeled".
const DefaultConfidenceFloor = 0.3

// Classes lists the semantic classes in model output order. The index into
// this slice is the class index everywhere else in the package.
var Classes = []string{
	"Building", "Land", "Road", "Vegetation",
	"Water", "Unlabeled", "Background",
}

// unlabeledIndex is where confidence-gated pixels end up.
const unlabeledIndex = 5

var (
	// ErrModelUnavailable means the classifier never initialized; it is a
	// process-lifetime condition, not a per-attempt one.
	ErrModelUnavailable = errors.New("segmentation model unavailable")

	// ErrSegmentationFailed covers per-attempt resize/inference/aggregation
	// failures.
	ErrSegmentationFailed = errors.New("segmentation failed")
)

// Distribution is the per-attempt classification summary: the share of
// pixels per class, restricted to classes that received at least one pixel
// after confidence gating. Detected preserves ascending class-index order,
// which downstream matching relies on.
type Distribution struct {
	Percent  map[string]float64
	Detected []string
}

// Model is the classification capability consumed by the orchestrator. It
// holds no per-call mutable state; Segment is safe for concurrent use on
// independent rasters.
type Model interface {
	Segment(img image.Image) (Distribution, error)

	Release()
}

// aggregate converts final per-pixel class indices into a Distribution.
func aggregate(labels []int) Distribution {
	counts := make([]int, len(Classes))
	for _, label := range labels {
		counts[label]++
	}

	dist := Distribution{Percent: make(map[string]float64)}
	total := float64(len(labels))
	for idx, count := range counts {
		if count == 0 {
			continue
		}
		name := Classes[idx]
		dist.Percent[name] = float64(count) / total * 100
		dist.Detected = append(dist.Detected, name)
	}
	return dist
}
