package cmd

import (
	"flag"
	"log"
	"log/slog"
	"time"

	"verification-backend/internal/imagery"
	"verification-backend/internal/segmentation"
	"verification-backend/internal/verification"

	"github.com/joho/godotenv"
	ort "github.com/yalue/onnxruntime_go"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// PipelineConfig is the verification pipeline configuration shared by every
// entrypoint.
type PipelineConfig struct {
	ModelPath        string        `env:"MODEL_PATH"`
	OnnxRuntimeDylib string        `env:"ONNX_RUNTIME_DYLIB"`
	ConfidenceFloor  float64       `env:"CONFIDENCE_FLOOR" envDefault:"0.3"`
	PercentThreshold float64       `env:"PERCENT_THRESHOLD" envDefault:"3"`
	AOIDelta         float64       `env:"AOI_DELTA" envDefault:"0.02"`
	ViewportWidth    int           `env:"VIEWPORT_WIDTH" envDefault:"1920"`
	ViewportHeight   int           `env:"VIEWPORT_HEIGHT" envDefault:"1080"`
	CropHalfSize     int           `env:"CROP_HALF_SIZE" envDefault:"300"`
	NavTimeout       time.Duration `env:"NAV_TIMEOUT" envDefault:"60s"`
}

// LoadSegmentationModel initializes ONNX Runtime and opens the segmentation
// model. A load failure is deliberately not fatal: the process stays up in
// degraded mode and every pipeline attempt reports unavailability until a
// restart with a working model.
func LoadSegmentationModel(cfg PipelineConfig) segmentation.Model {
	if cfg.ModelPath == "" || cfg.OnnxRuntimeDylib == "" {
		slog.Warn("MODEL_PATH or ONNX_RUNTIME_DYLIB not set, running without a classifier")
		return nil
	}

	ort.SetSharedLibraryPath(cfg.OnnxRuntimeDylib)
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Error("could not init ONNX Runtime, running without a classifier", "error", err)
		return nil
	}

	model, err := segmentation.LoadOnnxModel(cfg.ModelPath, cfg.ConfidenceFloor)
	if err != nil {
		slog.Error("could not load segmentation model, running without a classifier", "model_path", cfg.ModelPath, "error", err)
		return nil
	}

	slog.Info("segmentation model loaded", "model_path", cfg.ModelPath)
	return model
}

// NewVerifier builds the orchestrator from the pipeline configuration.
func NewVerifier(cfg PipelineConfig, model segmentation.Model) *verification.Service {
	fetcher := imagery.NewChromeFetcher(imagery.ChromeOptions{
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		CropHalfSize:   cfg.CropHalfSize,
		NavTimeout:     cfg.NavTimeout,
	})

	policy := verification.DefaultPolicy()
	policy.Threshold = cfg.PercentThreshold
	policy.AOIDelta = cfg.AOIDelta

	return verification.NewService(fetcher, model, policy)
}
