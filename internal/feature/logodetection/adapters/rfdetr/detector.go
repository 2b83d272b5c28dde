package rfdetr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"logo_backend/internal/feature/logodetection/adapters/rfdetr/dto"
	"logo_backend/internal/feature/logodetection/domain/entity"
	"logo_backend/internal/feature/logodetection/usecase"
)

// RFDETRDetector は学習済み重みを読み込んだRF-DETR推論サービスへ画像を送り、検出結果を取得します。
type RFDETRDetector struct {
	cfg    Config
	client *http.Client
}

// RFDETRDetectorがDetectorを実装していることをコンパイル時に検証します。
var _ usecase.Detector = (*RFDETRDetector)(nil)

// NewRFDETRDetector は指定された設定とHTTPクライアントでRFDETRDetectorの新しいインスタンスを生成します。
func NewRFDETRDetector(cfg Config, client *http.Client) *RFDETRDetector {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &RFDETRDetector{cfg: cfg, client: client}
}

// Detect は画像をPNGでアップロードし、しきい値以上の検出結果を返します。
func (d *RFDETRDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]entity.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	if err := writer.WriteField("threshold", strconv.FormatFloat(threshold, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write threshold: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.BaseURL+"/predict", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		// プロキシのHTMLなどJSONでない本文もあるため、error フィールドは取れた場合のみ使う
		var body dto.PredictResponse
		if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error != "" {
			return nil, fmt.Errorf("rfdetr http %d: %s", res.StatusCode, body.Error)
		}
		return nil, fmt.Errorf("rfdetr http %d", res.StatusCode)
	}

	var out dto.PredictResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return toDetections(out)
}

// CheckHealth は推論サービスが応答可能か確認します。
func (d *RFDETRDetector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	res, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("rfdetr unhealthy: %d", res.StatusCode)
	}
	return nil
}

// toDetections はインデックス対応の3配列を検出結果に変換します。
// 配列長の不一致や不正な座標は検出器のエラーとして扱います。
func toDetections(r dto.PredictResponse) ([]entity.Detection, error) {
	n := len(r.XYXY)
	if len(r.ClassID) != n || len(r.Confidence) != n {
		return nil, fmt.Errorf("rfdetr: misaligned response: xyxy=%d class_id=%d confidence=%d",
			n, len(r.ClassID), len(r.Confidence))
	}

	detections := make([]entity.Detection, 0, n)
	for i, xyxy := range r.XYXY {
		if len(xyxy) != 4 {
			return nil, fmt.Errorf("rfdetr: box %d has %d coordinates", i, len(xyxy))
		}
		detections = append(detections, entity.Detection{
			Box:        entity.Box{XMin: xyxy[0], YMin: xyxy[1], XMax: xyxy[2], YMax: xyxy[3]},
			ClassID:    r.ClassID[i],
			Confidence: r.Confidence[i],
		})
	}
	return detections, nil
}
