// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"logo_backend/internal/feature/logodetection/adapters/gemini"
	"logo_backend/internal/feature/logodetection/adapters/history"
	"logo_backend/internal/feature/logodetection/adapters/rfdetr"
	"logo_backend/internal/feature/logodetection/adapters/static"
	"logo_backend/internal/feature/logodetection/adapters/vision"
	"logo_backend/internal/feature/logodetection/usecase"
	"logo_backend/internal/platform/cache"
	platformhandler "logo_backend/internal/platform/http/handler"
	infrahttp "logo_backend/internal/platform/http"
)

const (
	// BackendRFDETR uses the RF-DETR inference sidecar. It is the default.
	BackendRFDETR = "rfdetr"
	// BackendVision uses Google Cloud Vision logo detection.
	BackendVision = "vision"
)

// DetectorBundle carries a detector together with its readiness check and cleanup.
type DetectorBundle struct {
	Detector usecase.Detector
	Ready    platformhandler.ReadinessCheck
	Close    func() error
}

// NewDetector creates the detector selected by DETECTOR_BACKEND.
func NewDetector(ctx context.Context) (*DetectorBundle, error) {
	backend := strings.ToLower(os.Getenv("DETECTOR_BACKEND"))
	switch backend {
	case "", BackendRFDETR:
		cfg := rfdetr.LoadConfig()
		d := rfdetr.NewRFDETRDetector(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
		slog.Info("detector configured", "backend", BackendRFDETR, "url", cfg.BaseURL)
		return &DetectorBundle{Detector: d, Ready: d.CheckHealth, Close: func() error { return nil }}, nil
	case BackendVision:
		d, err := vision.NewVisionLogoDetector(ctx)
		if err != nil {
			return nil, fmt.Errorf("create vision detector: %w", err)
		}
		slog.Info("detector configured", "backend", BackendVision)
		return &DetectorBundle{Detector: d, Close: d.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported DETECTOR_BACKEND %q", backend)
	}
}

// NewRecognizer creates a Gemini recognizer wrapped by the Redis cache.
// rdb may be nil, in which case every crop goes to the model.
func NewRecognizer(ctx context.Context, rdb *redis.Client) (usecase.Recognizer, error) {
	cfg := gemini.LoadConfig()
	g, err := gemini.NewGeminiRecognizer(ctx, cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	if err != nil {
		return nil, err
	}
	return cache.NewCachingRecognizer(rdb, 24*time.Hour, g, "brands:"+g.Model()), nil
}

// NewBatchRecognizer returns the Gemini recognizer when GEMINI_API_KEY is set,
// otherwise a recognizer that answers "Unknown" for every crop.
func NewBatchRecognizer(ctx context.Context) (usecase.Recognizer, error) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		slog.Warn("GEMINI_API_KEY is not set. Brands will be reported as Unknown.")
		return static.NewUnknownRecognizer(), nil
	}
	return NewRecognizer(ctx, nil)
}

// NewHistoryRepository returns a gorm-backed history store, or nil when db is nil.
func NewHistoryRepository(db *gorm.DB) usecase.HistoryRepository {
	if db == nil {
		return nil
	}
	return history.NewHistoryRepository(db)
}
