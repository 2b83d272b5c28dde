// Package domain はlogodetectionフィーチャーのドメインエラーを定義します。
package domain

import "errors"

// ロゴ検出パイプラインのドメインエラーです。
// 上位レイヤーは errors.Is で判定してください。
var (
	// ErrDetectionFailed は検出器の呼び出しが失敗したことを示します。パイプライン全体が失敗します。
	ErrDetectionFailed = errors.New("detection failed")

	// ErrUnknownClass はクラス表に存在しないクラスIDが返されたことを示します。
	ErrUnknownClass = errors.New("unknown class id")

	// ErrInvalidThreshold は信頼度しきい値が 0.0 ~ 1.0 の範囲外であることを示します。
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

	// ErrEmptyImage は入力画像がないことを示します。
	ErrEmptyImage = errors.New("image is empty")
)
