package entity

import "strings"

const (
	// UnknownBrand は認識器がブランドを特定できなかったことを示す値です。
	UnknownBrand = "Unknown"
	// RecognitionErrorPrefix は認識失敗時のラベルに付与されるマーカーです。
	RecognitionErrorPrefix = "Recognition Error: "
)

// RecognitionResult は1件の検出に対するブランド認識結果です。
// Err が設定されている場合、その検出だけの回復可能な失敗を表します。
type RecognitionResult struct {
	Brand string
	Err   error
}

// NewRecognitionResult は認識器の応答テキストから結果を生成します。空文字は UnknownBrand になります。
func NewRecognitionResult(text string) RecognitionResult {
	brand := strings.TrimSpace(text)
	if brand == "" {
		brand = UnknownBrand
	}
	return RecognitionResult{Brand: brand}
}

// Failed は認識が失敗したかどうかを返します。
func (r RecognitionResult) Failed() bool {
	return r.Err != nil
}

// Text はラベルに埋め込む文字列を返します。
func (r RecognitionResult) Text() string {
	if r.Err != nil {
		return RecognitionErrorPrefix + r.Err.Error()
	}
	return r.Brand
}

// Qualifies はブランドサマリーに含めるべき結果かどうかを返します。
func (r RecognitionResult) Qualifies() bool {
	return r.Err == nil && r.Brand != UnknownBrand
}
