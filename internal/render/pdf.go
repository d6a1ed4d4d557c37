package render

import (
	"io"

	"drawing-bot-backend/internal/scene"

	"github.com/jung-kurt/gofpdf"
)

// PDF writes a single page, one point per canvas unit, holding the shapes.
func PDF(w io.Writer, shapes []scene.Shape, canvas scene.Canvas) error {
	width, height := float64(pixels(canvas.Width)), float64(pixels(canvas.Height))
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineWidth(strokeWidth)
	p.SetLineCapStyle("round")

	for _, s := range shapes {
		c := ParseColor(s.Color)
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetFillColor(int(c.R), int(c.G), int(c.B))

		style := "D"
		if s.Filled {
			style = "F"
		}

		switch s.Kind {
		case scene.KindCircle:
			p.Circle(s.CenterX, s.CenterY, s.Radius, style)
		case scene.KindRectangle:
			p.Rect(s.X, s.Y, s.Width, s.Height, style)
		case scene.KindEllipse:
			p.Ellipse(s.X+s.Width/2, s.Y+s.Height/2, s.Width/2, s.Height/2, 0, style)
		case scene.KindTriangle:
			p.Polygon([]gofpdf.PointType{
				{X: s.Points[0].X, Y: s.Points[0].Y},
				{X: s.Points[1].X, Y: s.Points[1].Y},
				{X: s.Points[2].X, Y: s.Points[2].Y},
			}, style)
		case scene.KindLine:
			p.Line(s.X1, s.Y1, s.X2, s.Y2)
		}
	}

	return p.Output(w)
}
