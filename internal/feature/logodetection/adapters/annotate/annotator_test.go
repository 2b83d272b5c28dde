package annotate

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logo_backend/internal/feature/logodetection/domain/entity"
)

// newScene はテスト用の単色画像を生成します。
func newScene(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 10, 20, 30, 255
	}
	return img
}

func TestAnnotator_Annotate_DoesNotMutateScene(t *testing.T) {
	t.Parallel()

	scene := newScene(120, 80)
	before := append([]uint8(nil), scene.Pix...)
	dets := []entity.Detection{{Box: entity.Box{XMin: 10, YMin: 10, XMax: 60, YMax: 50}, Confidence: 0.9}}

	a := NewAnnotator(Center)
	first := a.Annotate(scene, dets, []string{"logo 0.90"})
	second := a.Annotate(scene, dets, []string{"logo 0.90 | Brand: Nike"})

	assert.Equal(t, before, scene.Pix, "scene must not be modified")
	require.IsType(t, &image.RGBA{}, first)
	require.IsType(t, &image.RGBA{}, second)
	assert.NotEqual(t, first.(*image.RGBA).Pix, second.(*image.RGBA).Pix, "frames must be independent")
}

func TestAnnotator_Annotate_NoDetectionsEqualsInput(t *testing.T) {
	t.Parallel()

	scene := newScene(32, 16)
	out := NewAnnotator(Center).Annotate(scene, nil, nil)

	assert.Equal(t, scene.Bounds(), out.Bounds())
	assert.Equal(t, scene.Pix, out.(*image.RGBA).Pix)
}

func TestAnnotator_Annotate_DrawsBoxOutline(t *testing.T) {
	t.Parallel()

	scene := newScene(100, 100)
	dets := []entity.Detection{{Box: entity.Box{XMin: 10, YMin: 10, XMax: 50, YMax: 50}, ClassID: 0}}
	out := NewAnnotator(TopLeft).Annotate(scene, dets, []string{""})

	want := color.RGBAModel.Convert(defaultPalette[0])
	assert.Equal(t, want, out.At(10, 30), "left edge")
	assert.Equal(t, want, out.At(49, 30), "right edge")
	assert.Equal(t, want, out.At(30, 49), "bottom edge")
	assert.Equal(t, scene.At(30, 30), out.At(30, 30), "interior untouched")
}

func TestAnnotator_Annotate_LabelStaysInsideImage(t *testing.T) {
	t.Parallel()

	scene := newScene(60, 40)
	// 画像の端にある枠でもラベルは描画され、パニックしない
	dets := []entity.Detection{{Box: entity.Box{XMin: 0, YMin: 0, XMax: 20, YMax: 10}}}
	out := NewAnnotator(TopLeft).Annotate(scene, dets, []string{"logo 0.50"})

	assert.Equal(t, scene.Bounds(), out.Bounds())
}

func TestClampInto(t *testing.T) {
	t.Parallel()

	bounds := image.Rect(0, 0, 100, 50)
	tests := []struct {
		name string
		in   image.Rectangle
		want image.Rectangle
	}{
		{name: "inside", in: image.Rect(10, 10, 30, 20), want: image.Rect(10, 10, 30, 20)},
		{name: "above", in: image.Rect(10, -15, 30, -5), want: image.Rect(10, 0, 30, 10)},
		{name: "right", in: image.Rect(90, 10, 110, 20), want: image.Rect(80, 10, 100, 20)},
		{name: "too wide", in: image.Rect(-10, 0, 150, 10), want: image.Rect(0, 0, 160, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clampInto(tt.in, bounds))
		})
	}
}
