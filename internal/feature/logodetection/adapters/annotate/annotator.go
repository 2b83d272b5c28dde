// Package annotate は検出枠とラベルを画像に描画するAnnotatorを提供します。
package annotate

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"logo_backend/internal/feature/logodetection/domain/entity"
	"logo_backend/internal/feature/logodetection/usecase"
)

// Position はラベルを検出枠のどこに置くかを表します。
type Position int

const (
	// Center は検出枠の中央にラベルを置きます（対話UI）。
	Center Position = iota
	// TopLeft は検出枠の左上の外側にラベルを置きます（バッチ出力）。
	TopLeft
)

const (
	defaultThickness = 2
	defaultPadding   = 3
)

// defaultPalette はクラスIDごとの枠色です。
var defaultPalette = []color.RGBA{
	{R: 0xa3, G: 0x51, B: 0xfb, A: 0xff},
	{R: 0xe6, G: 0x19, B: 0x4b, A: 0xff},
	{R: 0x3c, G: 0xb4, B: 0x4b, A: 0xff},
	{R: 0xff, G: 0xe1, B: 0x19, A: 0xff},
	{R: 0x43, G: 0x63, B: 0xd8, A: 0xff},
}

// Annotator は枠とラベルを描画します。入力画像は変更せず、常にコピーへ描画します。
type Annotator struct {
	position  Position
	thickness int
	padding   int
	face      font.Face
	textColor color.Color
	palette   []color.RGBA
}

// AnnotatorがAnnotatorインターフェースを実装していることをコンパイル時に検証します。
var _ usecase.Annotator = (*Annotator)(nil)

// NewAnnotator は指定したラベル位置でAnnotatorを生成します。
func NewAnnotator(position Position) *Annotator {
	return &Annotator{
		position:  position,
		thickness: defaultThickness,
		padding:   defaultPadding,
		face:      basicfont.Face7x13,
		textColor: color.White,
		palette:   defaultPalette,
	}
}

// Annotate は scene のコピーに、すべての枠を描画してからすべてのラベルを描画します。
// labels は detections とインデックスで対応します。
func (a *Annotator) Annotate(scene image.Image, detections []entity.Detection, labels []string) image.Image {
	b := scene.Bounds()
	out := image.NewRGBA(b)
	xdraw.Draw(out, b, scene, b.Min, xdraw.Src)

	for _, d := range detections {
		a.drawBox(out, d.Box.Rect().Add(b.Min), a.colorFor(d.ClassID))
	}
	for i, d := range detections {
		if i >= len(labels) {
			break
		}
		a.drawLabel(out, d.Box.Rect().Add(b.Min), labels[i], a.colorFor(d.ClassID))
	}
	return out
}

func (a *Annotator) colorFor(classID int) color.RGBA {
	if classID < 0 {
		classID = -classID
	}
	return a.palette[classID%len(a.palette)]
}

// drawBox は枠線を描画します。画像外にはみ出した部分はクリップされます。
func (a *Annotator) drawBox(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	t := a.thickness
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		xdraw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, xdraw.Src)
	}
}

// drawLabel は背景付きのテキストラベルを描画します。
func (a *Annotator) drawLabel(dst *image.RGBA, r image.Rectangle, text string, bg color.RGBA) {
	metrics := a.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textW := font.MeasureString(a.face, text).Ceil()
	textH := metrics.Height.Ceil()
	size := image.Pt(textW+2*a.padding, textH+2*a.padding)

	var origin image.Point
	switch a.position {
	case TopLeft:
		origin = image.Pt(r.Min.X, r.Min.Y-size.Y)
	default:
		center := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
		origin = center.Sub(size.Div(2))
	}
	label := clampInto(image.Rectangle{Min: origin, Max: origin.Add(size)}, dst.Bounds())

	xdraw.Draw(dst, label, image.NewUniform(bg), image.Point{}, xdraw.Src)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(a.textColor),
		Face: a.face,
		Dot:  fixed.P(label.Min.X+a.padding, label.Min.Y+a.padding+ascent),
	}
	d.DrawString(text)
}

// clampInto は r を大きさを保ったまま bounds の内側へ移動します。
// r が bounds より大きい場合は左上を揃えます。
func clampInto(r, bounds image.Rectangle) image.Rectangle {
	shift := image.Point{}
	if r.Max.X > bounds.Max.X {
		shift.X = bounds.Max.X - r.Max.X
	}
	if r.Max.Y > bounds.Max.Y {
		shift.Y = bounds.Max.Y - r.Max.Y
	}
	r = r.Add(shift)
	shift = image.Point{}
	if r.Min.X < bounds.Min.X {
		shift.X = bounds.Min.X - r.Min.X
	}
	if r.Min.Y < bounds.Min.Y {
		shift.Y = bounds.Min.Y - r.Min.Y
	}
	return r.Add(shift)
}
