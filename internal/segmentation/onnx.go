package segmentation

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	ort "github.com/yalue/onnxruntime_go"
)

const channels = 3

// OnnxModel runs the satellite segmentation network through ONNX Runtime.
// The session is created once and shared; ONNX Runtime sessions tolerate
// concurrent Run calls, so no locking is needed here.
type OnnxModel struct {
	session *ort.DynamicAdvancedSession
	floor   float32
}

// LoadOnnxModel opens the model at modelPath. The ONNX Runtime environment
// must already be initialized by the caller (see cmd mains).
func LoadOnnxModel(modelPath string, confidenceFloor float64) (*OnnxModel, error) {
	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input"},
		[]string{"output"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating session for %s: %v", ErrModelUnavailable, modelPath, err)
	}

	return &OnnxModel{session: session, floor: float32(confidenceFloor)}, nil
}

func (m *OnnxModel) Segment(img image.Image) (Distribution, error) {
	input := toModelInput(img)

	inT, err := ort.NewTensor(ort.NewShape(1, InputSize, InputSize, channels), input)
	if err != nil {
		return Distribution{}, fmt.Errorf("%w: input tensor: %v", ErrSegmentationFailed, err)
	}
	defer inT.Destroy()

	outT, err := ort.NewEmptyTensor[float32](ort.NewShape(1, InputSize, InputSize, int64(len(Classes))))
	if err != nil {
		return Distribution{}, fmt.Errorf("%w: output tensor: %v", ErrSegmentationFailed, err)
	}
	defer outT.Destroy()

	if err := m.session.Run([]ort.Value{inT}, []ort.Value{outT}); err != nil {
		return Distribution{}, fmt.Errorf("%w: session run: %v", ErrSegmentationFailed, err)
	}

	scores := outT.GetData()
	numClasses := len(Classes)
	labels := make([]int, InputSize*InputSize)
	for px := range labels {
		start := px * numClasses
		labels[px] = gateArgmax(scores[start:start+numClasses], m.floor)
	}

	return aggregate(labels), nil
}

func (m *OnnxModel) Release() {
	m.session.Destroy() //nolint:errcheck
}

// gateArgmax picks the highest-scoring class for one pixel, reassigning it
// to Unlabeled when the winning score is below the confidence floor.
func gateArgmax(scores []float32, floor float32) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	if scores[best] < floor {
		return unlabeledIndex
	}
	return best
}

// toModelInput resizes the raster to the model resolution and normalizes it
// into a flat NHWC float tensor in [0, 1].
func toModelInput(img image.Image) []float32 {
	resized := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	data := make([]float32, InputSize*InputSize*channels)
	i := 0
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			data[i] = float32(r>>8) / 255
			data[i+1] = float32(g>>8) / 255
			data[i+2] = float32(b>>8) / 255
			i += channels
		}
	}
	return data
}
