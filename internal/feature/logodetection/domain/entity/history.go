package entity

import "time"

// AnalysisRecord は保存済みの解析履歴1件です。画像そのものは保存しません。
type AnalysisRecord struct {
	ID             string
	Threshold      float64
	DetectionCount int
	Brands         []string
	CreatedAt      time.Time
}
