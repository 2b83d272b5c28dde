// Package static は外部サービスを使わない固定応答のRecognizerを提供します。
package static

import (
	"context"

	"logo_backend/internal/feature/logodetection/domain/entity"
	"logo_backend/internal/feature/logodetection/usecase"
)

// Recognizer は常に同じテキストを返します。APIキーがない環境でのバッチ実行に使用します。
type Recognizer struct {
	answer string
}

var _ usecase.Recognizer = (*Recognizer)(nil)

// NewUnknownRecognizer は常に "Unknown" を返すRecognizerを生成します。
func NewUnknownRecognizer() *Recognizer {
	return &Recognizer{answer: entity.UnknownBrand}
}

// Recognize は固定の応答を返します。
func (r *Recognizer) Recognize(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.answer, nil
}
