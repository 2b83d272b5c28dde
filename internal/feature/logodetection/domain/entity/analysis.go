package entity

import (
	"image"
	"strings"
	"time"
)

const (
	// NoBrandsSentinel は対話UIでブランドが1件もない場合に表示する値です。
	NoBrandsSentinel = "None"
)

// AnnotatedDetection は1件の検出と、それに対応する2種類のラベルと認識結果を保持します。
type AnnotatedDetection struct {
	Detection        Detection
	ClassName        string
	DetectionLabel   string
	RecognitionLabel string
	Recognition      RecognitionResult
}

// Analysis はパイプライン1回分の出力です。
// Items の順序は検出器が返した順序と一致します。
type Analysis struct {
	ID               string
	Threshold        float64
	Items            []AnnotatedDetection
	DetectionFrame   image.Image
	RecognitionFrame image.Image
	CreatedAt        time.Time
}

// Brands はサマリー対象の認識結果を検出順に返します。
func (a *Analysis) Brands() []string {
	var out []string
	for _, it := range a.Items {
		if it.Recognition.Qualifies() {
			out = append(out, it.Recognition.Brand)
		}
	}
	return out
}

// Summary はブランド名をカンマ区切りで連結します。該当がない場合は emptySentinel を返します。
func (a *Analysis) Summary(emptySentinel string) string {
	brands := a.Brands()
	if len(brands) == 0 {
		return emptySentinel
	}
	return strings.Join(brands, ", ")
}
