// Package handler はlogodetectionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"logo_backend/internal/api"
	"logo_backend/internal/feature/logodetection/domain"
	"logo_backend/internal/feature/logodetection/domain/entity"
	"logo_backend/internal/feature/logodetection/usecase"
)

const (
	// DefaultThreshold は threshold フィールドが省略された場合のしきい値です。
	DefaultThreshold = 0.2
	// maxUploadBytes はアップロード画像の最大サイズです。
	maxUploadBytes = 10 << 20
	// errorFramePrefix は致命的な失敗時にフレームの代わりに返す文字列の接頭辞です。
	errorFramePrefix = "Error: "
)

//go:embed web/index.html
var indexHTML []byte

// LogoDetectionUsecase はロゴ検出・ブランド認識のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LogoDetectionUsecase interface {
	Run(ctx context.Context, img image.Image, threshold float64) (*entity.Analysis, error)
	History(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

// LogoDetectionHandler はロゴ検出・ブランド認識のHTTPリクエストを処理します。
type LogoDetectionHandler struct {
	uc LogoDetectionUsecase
}

// NewLogoDetectionHandler はLogoDetectionHandlerの新しいインスタンスを生成します。
func NewLogoDetectionHandler(uc LogoDetectionUsecase) *LogoDetectionHandler {
	return &LogoDetectionHandler{uc: uc}
}

// Index は画像アップロード用のWeb UIを返します。
//
// エンドポイント: GET /
func (h *LogoDetectionHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Recognize は画像をアップロードしてロゴ検出とブランド認識を行います。
//
// エンドポイント: POST /v1/logo/recognize
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）、threshold（0.0 ~ 1.0、省略時0.2）
func (h *LogoDetectionHandler) Recognize(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像ファイルが必要です"})
		return
	}

	threshold, err := parseThreshold(c.PostForm("threshold"))
	if err != nil {
		slog.Warn("しきい値のバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "しきい値は0.0から1.0の範囲で指定してください"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	img, format, err := image.Decode(f)
	if err != nil {
		slog.Warn("画像のデコードに失敗", "error", err, "filename", file.Filename)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像をデコードできません"})
		return
	}

	analysis, err := h.uc.Run(c.Request.Context(), img, threshold)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyImage) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像が空です"})
			return
		}
		slog.Error("ロゴ検出に失敗", "error", err, "format", format, "threshold", threshold)
		msg := errorFramePrefix + err.Error()
		c.JSON(http.StatusBadGateway, api.RecognitionResponse{
			DetectionFrame:   msg,
			RecognitionFrame: msg,
			Brands:           entity.NoBrandsSentinel,
			Detections:       []api.DetectionResponse{},
		})
		return
	}

	resp, err := toRecognitionResponse(analysis)
	if err != nil {
		slog.Error("注釈画像のエンコードに失敗", "error", err, "analysis_id", analysis.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像のエンコードに失敗しました"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History は直近の解析履歴を返します。
//
// エンドポイント: GET /v1/logo/history?limit=N
func (h *LogoDetectionHandler) History(c *gin.Context) {
	params, err := api.BindListHistoryParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	records, err := h.uc.History(c.Request.Context(), limit)
	if err != nil {
		slog.Error("解析履歴の取得に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "履歴の取得に失敗しました"})
		return
	}

	out := make([]api.HistoryItem, 0, len(records))
	for _, r := range records {
		brands := r.Brands
		if brands == nil {
			brands = []string{}
		}
		out = append(out, api.HistoryItem{
			Id:             r.ID,
			Threshold:      r.Threshold,
			DetectionCount: r.DetectionCount,
			Brands:         brands,
			CreatedAt:      r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// parseThreshold はフォームの値をしきい値に変換します。空文字は DefaultThreshold になります。
func parseThreshold(raw string) (float64, error) {
	if raw == "" {
		return DefaultThreshold, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if err := usecase.ValidateThreshold(v); err != nil {
		return 0, err
	}
	return v, nil
}

func toRecognitionResponse(a *entity.Analysis) (api.RecognitionResponse, error) {
	detFrame, err := pngDataURI(a.DetectionFrame)
	if err != nil {
		return api.RecognitionResponse{}, err
	}
	recFrame, err := pngDataURI(a.RecognitionFrame)
	if err != nil {
		return api.RecognitionResponse{}, err
	}

	detections := make([]api.DetectionResponse, 0, len(a.Items))
	for _, it := range a.Items {
		d := api.DetectionResponse{
			Box:              []float64{it.Detection.Box.XMin, it.Detection.Box.YMin, it.Detection.Box.XMax, it.Detection.Box.YMax},
			ClassName:        it.ClassName,
			Confidence:       it.Detection.Confidence,
			DetectionLabel:   it.DetectionLabel,
			RecognitionLabel: it.RecognitionLabel,
			Brand:            it.Recognition.Brand,
		}
		if it.Recognition.Failed() {
			msg := it.Recognition.Err.Error()
			d.Error = &msg
		}
		detections = append(detections, d)
	}

	id := a.ID
	return api.RecognitionResponse{
		Id:               &id,
		DetectionFrame:   detFrame,
		RecognitionFrame: recFrame,
		Brands:           a.Summary(entity.NoBrandsSentinel),
		Detections:       detections,
	}, nil
}

// pngDataURI は画像をPNGのdata URIに変換します。
func pngDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
