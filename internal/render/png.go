package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"drawing-bot-backend/internal/scene"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

const strokeWidth = 2

// Rasterizer paints canonical shapes onto an RGBA image.
type Rasterizer struct {
	img    *image.RGBA
	filler *rasterx.Filler
	dasher *rasterx.Dasher
}

func NewRasterizer(canvas scene.Canvas) *Rasterizer {
	w, h := pixels(canvas.Width), pixels(canvas.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	dasher.SetStroke(fixed.I(strokeWidth), fixed.I(4), rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)

	return &Rasterizer{
		img:    img,
		filler: rasterx.NewFiller(w, h, scanner),
		dasher: dasher,
	}
}

func pixels(v float64) int {
	if v < 1 || math.IsNaN(v) {
		return 1
	}
	return int(math.Ceil(v))
}

// Draw paints shapes in order, later shapes over earlier ones.
func (r *Rasterizer) Draw(shapes []scene.Shape) {
	for _, s := range shapes {
		r.drawShape(s)
	}
}

func (r *Rasterizer) Image() *image.RGBA {
	return r.img
}

func (r *Rasterizer) drawShape(s scene.Shape) {
	// lines have no interior
	if s.Kind == scene.KindLine {
		r.dasher.Clear()
		r.dasher.SetColor(ParseColor(s.Color))
		r.dasher.Start(rasterx.ToFixedP(s.X1, s.Y1))
		r.dasher.Line(rasterx.ToFixedP(s.X2, s.Y2))
		r.dasher.Stop(false)
		r.dasher.Draw()
		return
	}

	var adder rasterx.Adder = r.dasher
	if s.Filled {
		adder = r.filler
	}

	switch s.Kind {
	case scene.KindCircle:
		rasterx.AddCircle(s.CenterX, s.CenterY, s.Radius, adder)
	case scene.KindRectangle:
		rasterx.AddRect(s.X, s.Y, s.X+s.Width, s.Y+s.Height, 0, adder)
	case scene.KindEllipse:
		rasterx.AddEllipse(s.X+s.Width/2, s.Y+s.Height/2, s.Width/2, s.Height/2, 0, adder)
	case scene.KindTriangle:
		adder.Start(rasterx.ToFixedP(s.Points[0].X, s.Points[0].Y))
		adder.Line(rasterx.ToFixedP(s.Points[1].X, s.Points[1].Y))
		adder.Line(rasterx.ToFixedP(s.Points[2].X, s.Points[2].Y))
		adder.Stop(true)
	default:
		return
	}

	if s.Filled {
		r.filler.SetColor(ParseColor(s.Color))
		r.filler.Draw()
		r.filler.Clear()
		return
	}
	r.dasher.SetColor(ParseColor(s.Color))
	r.dasher.Draw()
	r.dasher.Clear()
}

// Image renders shapes onto a white canvas-sized image.
func Image(shapes []scene.Shape, canvas scene.Canvas) *image.RGBA {
	r := NewRasterizer(canvas)
	r.Draw(shapes)
	return r.Image()
}

func PNG(w io.Writer, shapes []scene.Shape, canvas scene.Canvas) error {
	return png.Encode(w, Image(shapes, canvas))
}
