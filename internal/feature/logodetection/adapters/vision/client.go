// Package vision はGoogle Cloud Vision APIを使用したロゴ検出器を提供します。
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"logo_backend/internal/feature/logodetection/domain/entity"
	"logo_backend/internal/feature/logodetection/usecase"
)

const (
	// LogoClassID はVision APIの検出結果に割り当てるクラスIDです（ClassTable の "logo"）。
	LogoClassID = 0
	// maxResults は1リクエストで返すロゴ注釈の上限です。
	maxResults = 50
)

// VisionLogoDetector はGoogle Cloud Vision APIを使用してロゴを検出します。
type VisionLogoDetector struct {
	client *gvision.ImageAnnotatorClient
}

// VisionLogoDetectorがDetectorを実装していることをコンパイル時に検証します。
var _ usecase.Detector = (*VisionLogoDetector)(nil)

// NewVisionLogoDetector はADCを使用してVisionLogoDetectorの新しいインスタンスを生成します。
func NewVisionLogoDetector(ctx context.Context) (*VisionLogoDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionLogoDetector{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionLogoDetector) Close() error {
	return v.client.Close()
}

// Detect は画像からロゴを検出し、しきい値以上の結果を返します。
func (v *VisionLogoDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]entity.Detection, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: buf.Bytes()},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LOGO_DETECTION, MaxResults: maxResults},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}

	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	return logosToDetections(resp.Responses[0].LogoAnnotations, threshold), nil
}

// logosToDetections はロゴ注釈を検出結果に変換します。
// 境界ポリゴンは外接矩形に変換し、頂点のないものやしきい値未満のものは捨てます。
func logosToDetections(annotations []*visionpb.EntityAnnotation, threshold float64) []entity.Detection {
	out := make([]entity.Detection, 0, len(annotations))
	for _, a := range annotations {
		score := float64(a.GetScore())
		if score < threshold {
			continue
		}
		vertices := a.GetBoundingPoly().GetVertices()
		if len(vertices) == 0 {
			continue
		}
		box := entity.Box{XMin: math.Inf(1), YMin: math.Inf(1), XMax: math.Inf(-1), YMax: math.Inf(-1)}
		for _, p := range vertices {
			x, y := float64(p.GetX()), float64(p.GetY())
			box.XMin = math.Min(box.XMin, x)
			box.YMin = math.Min(box.YMin, y)
			box.XMax = math.Max(box.XMax, x)
			box.YMax = math.Max(box.YMax, y)
		}
		out = append(out, entity.Detection{Box: box, ClassID: LogoClassID, Confidence: score})
	}
	return out
}
