package main

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"logo_backend/internal/app/di"
	"logo_backend/internal/feature/logodetection/adapters/annotate"
	"logo_backend/internal/feature/logodetection/domain/entity"
	"logo_backend/internal/feature/logodetection/usecase"
	"logo_backend/internal/platform/logger"
)

const (
	inputPath  = "SCR-20250528-jvug-2.jpeg"
	outputPath = "annotated_output.jpeg"
	threshold  = 0.14
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	closer := logger.Setup(logger.LoadConfig())
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	det, err := di.NewDetector(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = det.Close() }()

	rec, err := di.NewBatchRecognizer(ctx)
	if err != nil {
		log.Fatal(err)
	}

	uc := usecase.NewLogoDetectionUsecase(det.Detector, rec, annotate.NewAnnotator(annotate.TopLeft), entity.DefaultClassTable(), nil)

	analysis, err := predict(ctx, uc, inputPath, outputPath)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("annotated image written", "path", outputPath, "detections", len(analysis.Items))
}

// pipeline は predict が必要とするパイプラインの操作です。
type pipeline interface {
	Run(ctx context.Context, img image.Image, threshold float64) (*entity.Analysis, error)
}

// predict は in を読み込んで固定しきい値でパイプラインを実行し、検出フレームを out に書き出します。
func predict(ctx context.Context, uc pipeline, in, out string) (*entity.Analysis, error) {
	img, err := readImage(in)
	if err != nil {
		return nil, err
	}
	analysis, err := uc.Run(ctx, img, threshold)
	if err != nil {
		return nil, err
	}
	if err := writeJPEG(out, analysis.DetectionFrame); err != nil {
		return nil, err
	}
	return analysis, nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output image: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode output image: %w", err)
	}
	return f.Close()
}
