// Package dto はRF-DETR推論サービスのレスポンス形式を定義します。
package dto

// PredictResponse は /predict のJSONレスポンスです。
// 3つの配列はインデックスで対応します。
type PredictResponse struct {
	XYXY       [][]float64 `json:"xyxy"`
	ClassID    []int       `json:"class_id"`
	Confidence []float64   `json:"confidence"`
	Error      string      `json:"error,omitempty"`
}
