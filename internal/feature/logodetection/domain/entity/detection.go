// Package entity はlogodetectionフィーチャーのドメインモデルを定義します。
package entity

import (
	"fmt"
	"image"
	"math"
)

// Box はピクセル座標の矩形（x_min, y_min, x_max, y_max）です。
type Box struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Rect は各座標を最も近い整数ピクセルに丸めた矩形を返します。
// 丸めは偶数丸め（half-to-even）です。切り抜きと描画は必ずこの矩形を共有します。
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		int(math.RoundToEven(b.XMin)),
		int(math.RoundToEven(b.YMin)),
		int(math.RoundToEven(b.XMax)),
		int(math.RoundToEven(b.YMax)),
	)
}

// String はログ出力用に丸め後の座標を [x0, y0, x1, y1] 形式で返します。
func (b Box) String() string {
	r := b.Rect()
	return fmt.Sprintf("[%d, %d, %d, %d]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Detection は検出器が返した1件の検出結果です。
type Detection struct {
	Box        Box     // バウンディングボックス
	ClassID    int     // クラスID
	Confidence float64 // 信頼度スコア（0.0 ~ 1.0）
}
