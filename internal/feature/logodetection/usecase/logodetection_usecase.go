// Package usecase はlogodetectionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"logo_backend/internal/feature/logodetection/domain"
	"logo_backend/internal/feature/logodetection/domain/entity"
)

const (
	// BrandPrompt は切り抜き画像と一緒に認識器へ送る固定の指示文です。
	BrandPrompt = `Recognize the brand name for the logo and return only the name of the logo. If you don’t know the brand name, return "Unknown"`
	// DefaultHistoryLimit は履歴取得件数のデフォルト値です。
	DefaultHistoryLimit = 20
	// MaxHistoryLimit は履歴取得件数の上限です。
	MaxHistoryLimit = 100
	// cropJPEGQuality は認識器へ送る切り抜き画像のJPEG品質です。
	cropJPEGQuality = 90
)

// Detector は画像から物体を検出するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Detector interface {
	// Detect はしきい値以上の検出結果を検出器の順序で返します。
	Detect(ctx context.Context, img image.Image, threshold float64) ([]entity.Detection, error)
}

// Recognizer は切り抜き画像からブランド名を認識するインターフェースです。
type Recognizer interface {
	// Recognize はJPEG画像と指示文を受け取り、自由形式のテキストを返します。
	Recognize(ctx context.Context, imageJPEG []byte, instruction string) (string, error)
}

// Annotator は画像に検出枠とラベルを描画するインターフェースです。
// 実装は scene を変更せず、常に新しい画像を返す必要があります。
type Annotator interface {
	Annotate(scene image.Image, detections []entity.Detection, labels []string) image.Image
}

// HistoryRepository は解析結果の履歴を保存するリポジトリインターフェースです。
type HistoryRepository interface {
	// Save は解析結果の要約を保存します。
	Save(ctx context.Context, analysis *entity.Analysis) error
	// ListRecent は新しい順に最大 limit 件の履歴を返します。
	ListRecent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

// logodetectionUsecase は検出・切り抜き・ブランド認識・描画をまとめるパイプラインです。
type logodetectionUsecase struct {
	detector   Detector
	recognizer Recognizer
	annotator  Annotator
	classes    entity.ClassTable
	history    HistoryRepository
	now        func() time.Time
}

// NewLogoDetectionUsecase はlogodetectionUsecaseの新しいインスタンスを生成します。
// history が nil の場合、履歴は保存されません。
func NewLogoDetectionUsecase(d Detector, r Recognizer, a Annotator, classes entity.ClassTable, history HistoryRepository) *logodetectionUsecase {
	return &logodetectionUsecase{
		detector:   d,
		recognizer: r,
		annotator:  a,
		classes:    classes,
		history:    history,
		now:        time.Now,
	}
}

// ValidateThreshold はしきい値が 0.0 ~ 1.0 の範囲内か検証します。
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", domain.ErrInvalidThreshold, threshold)
	}
	return nil
}

// Run は画像1枚に対してパイプラインを実行します。
//
// 検出器の失敗とクラス表にないクラスIDはパイプライン全体の失敗としてエラーを返します。
// 認識器の失敗は該当する検出だけに閉じ込められ、RecognitionResult.Err に記録されます。
func (u *logodetectionUsecase) Run(ctx context.Context, img image.Image, threshold float64) (*entity.Analysis, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, domain.ErrEmptyImage
	}

	detections, err := u.detector.Detect(ctx, img, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDetectionFailed, err)
	}

	items := make([]entity.AnnotatedDetection, 0, len(detections))
	detectionLabels := make([]string, 0, len(detections))
	recognitionLabels := make([]string, 0, len(detections))

	for _, d := range detections {
		className, err := u.classes.Name(d.ClassID)
		if err != nil {
			return nil, err
		}

		detectionLabel := fmt.Sprintf("%s %.2f", className, d.Confidence)
		result := u.recognize(ctx, img, d.Box.Rect())
		recognitionLabel := fmt.Sprintf("%s | Brand: %s", detectionLabel, result.Text())

		detectionLabels = append(detectionLabels, detectionLabel)
		recognitionLabels = append(recognitionLabels, recognitionLabel)
		items = append(items, entity.AnnotatedDetection{
			Detection:        d,
			ClassName:        className,
			DetectionLabel:   detectionLabel,
			RecognitionLabel: recognitionLabel,
			Recognition:      result,
		})

		slog.Info("ロゴを検出",
			"class", className,
			"confidence", math.Round(d.Confidence*1000)/1000,
			"box", d.Box.String(),
			"brand", result.Text(),
		)
	}

	analysis := &entity.Analysis{
		ID:               uuid.NewString(),
		Threshold:        threshold,
		Items:            items,
		DetectionFrame:   u.annotator.Annotate(img, detections, detectionLabels),
		RecognitionFrame: u.annotator.Annotate(img, detections, recognitionLabels),
		CreatedAt:        u.now(),
	}

	if u.history != nil {
		if err := u.history.Save(ctx, analysis); err != nil {
			slog.Warn("解析履歴の保存に失敗", "error", err, "analysis_id", analysis.ID)
		}
	}

	return analysis, nil
}

// History は直近の解析履歴を返します。履歴が無効な場合は空のスライスを返します。
func (u *logodetectionUsecase) History(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	if u.history == nil {
		return []entity.AnalysisRecord{}, nil
	}
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	records, err := u.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis history: %w", err)
	}
	return records, nil
}

// recognize は検出枠で切り抜いた画像を認識器へ送ります。
// 切り抜き・エンコード・認識のいずれの失敗も、この検出だけの結果として返します。
func (u *logodetectionUsecase) recognize(ctx context.Context, img image.Image, box image.Rectangle) entity.RecognitionResult {
	crop, err := encodeCrop(img, box)
	if err != nil {
		return entity.RecognitionResult{Err: err}
	}
	text, err := u.recognizer.Recognize(ctx, crop, BrandPrompt)
	if err != nil {
		slog.Warn("ブランド認識に失敗", "error", err, "box", box.String())
		return entity.RecognitionResult{Err: err}
	}
	return entity.NewRecognitionResult(text)
}

// encodeCrop は画像を box で切り抜き、JPEGにエンコードします。
// box は画像の原点からの相対座標で、画像の範囲にクリップされます。
func encodeCrop(img image.Image, box image.Rectangle) ([]byte, error) {
	bounds := img.Bounds()
	r := box.Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop %v is outside image bounds %v", box, bounds)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: cropJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}
