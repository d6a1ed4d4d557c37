package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"drawing-bot-backend/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"red", color.RGBA{R: 0xff, A: 0xff}},
		{" Blue ", color.RGBA{B: 0xff, A: 0xff}},
		{"#00ff00", color.RGBA{G: 0xff, A: 0xff}},
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#12", fallbackColor},
		{"#zzzzzz", fallbackColor},
		{"אדום", fallbackColor},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColor(tt.in))
		})
	}
}

func TestImagePaintsShapesInOrder(t *testing.T) {
	shapes := []scene.Shape{
		{Kind: scene.KindRectangle, Color: "red", Filled: true, X: 10, Y: 10, Width: 80, Height: 80},
		{Kind: scene.KindCircle, Color: "blue", Filled: true, CenterX: 50, CenterY: 50, Radius: 10},
		{Kind: scene.KindCircle, Color: "green", Filled: false, CenterX: 80, CenterY: 80, Radius: 5},
	}
	img := Image(shapes, scene.Canvas{Width: 100, Height: 100})

	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(2, 2), "background stays white")
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, img.RGBAAt(50, 50), "later shape on top")
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(80, 80), "outline leaves the interior alone")
}

func TestPNGEncodes(t *testing.T) {
	var buf bytes.Buffer
	shapes := []scene.Shape{
		{Kind: scene.KindLine, Color: "black", X1: 0, Y1: 0, X2: 40, Y2: 30},
		{Kind: scene.KindTriangle, Color: "#ff8800", Filled: true, Points: [3]scene.Point{{X: 5, Y: 35}, {X: 20, Y: 5}, {X: 35, Y: 35}}},
		{Kind: scene.KindEllipse, Color: "purple", X: 0, Y: 0, Width: 40, Height: 20},
	}
	require.NoError(t, PNG(&buf, shapes, scene.Canvas{Width: 40, Height: 40}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	shapes := []scene.Shape{
		{Kind: scene.KindCircle, Color: "red", Filled: true, CenterX: 50, CenterY: 50, Radius: 20},
		{Kind: scene.KindRectangle, Color: "blue", X: 10, Y: 10, Width: 30, Height: 20},
		{Kind: scene.KindEllipse, Color: "green", Filled: true, X: 0, Y: 0, Width: 40, Height: 20},
		{Kind: scene.KindTriangle, Color: "black", Points: [3]scene.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}},
		{Kind: scene.KindLine, Color: "black", X1: 0, Y1: 0, X2: 100, Y2: 100},
	}
	require.NoError(t, PDF(&buf, shapes, scene.Canvas{Width: 500, Height: 300}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
