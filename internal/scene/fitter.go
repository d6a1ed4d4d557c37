package scene

import (
	"log"
	"math"
)

const (
	// fillRatio is the share of each canvas dimension a batch may occupy.
	fillRatio = 0.7
	maxScale  = 3.0
	minExtent = 1.0
)

// Box is an axis-aligned bounding box in descriptor units.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// emptyBox is used for empty batches so the transform never divides by zero.
var emptyBox = Box{MinX: 0, MinY: 0, MaxX: 200, MaxY: 200}

func (b Box) Width() float64  { return math.Max(b.MaxX-b.MinX, minExtent) }
func (b Box) Height() float64 { return math.Max(b.MaxY-b.MinY, minExtent) }

// Bounds computes the pre-scale bounding box of a batch using the same
// resolution rules as Normalize.
func Bounds(ds []RawDescriptor) Box {
	box, _, _ := resolveBatch(ds)
	return box
}

func resolveBatch(ds []RawDescriptor) (Box, []geometry, []NormalizationWarning) {
	if len(ds) == 0 {
		return emptyBox, nil, nil
	}

	geoms := make([]geometry, 0, len(ds))
	var warnings []NormalizationWarning
	box := Box{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}

	for i, d := range ds {
		g, w := resolve(d, i)
		warnings = append(warnings, w...)
		geoms = append(geoms, g)

		minX, minY, maxX, maxY := g.bounds()
		box.MinX = math.Min(box.MinX, minX)
		box.MinY = math.Min(box.MinY, minY)
		box.MaxX = math.Max(box.MaxX, maxX)
		box.MaxY = math.Max(box.MaxY, maxY)
	}

	return box, geoms, warnings
}

// ComputeTransform scales the box to at most 70% of each canvas dimension
// (capped at 3x) and centres it.
// A box or canvas that would give a non-finite transform falls back to emptyBox.
func ComputeTransform(box Box, canvas Canvas) Transform {
	t, ok := transformFor(box, canvas)
	if !ok {
		t, _ = transformFor(emptyBox, canvas)
	}
	return t
}

func transformFor(box Box, canvas Canvas) (Transform, bool) {
	dw, dh := box.Width(), box.Height()

	scale := math.Min(fillRatio*canvas.Width/dw, fillRatio*canvas.Height/dh)
	scale = math.Min(scale, maxScale)

	t := Transform{
		Scale:   scale,
		OffsetX: (canvas.Width-dw*scale)/2 - box.MinX*scale,
		OffsetY: (canvas.Height-dh*scale)/2 - box.MinY*scale,
	}
	return t, finite(dw, dh, t.Scale, t.OffsetX, t.OffsetY) && t.Scale > 0
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Fit normalizes a batch with one shared transform so that the whole batch
// fits the canvas. Input order is preserved.
func Fit(ds []RawDescriptor, canvas Canvas) []Shape {
	shapes, _ := FitWithTransform(ds, canvas)
	return shapes
}

// FitWithTransform is Fit that also returns the transform it applied.
func FitWithTransform(ds []RawDescriptor, canvas Canvas) ([]Shape, Transform) {
	box, geoms, warnings := resolveBatch(ds)
	for _, w := range warnings {
		log.Printf("normalize: %v", w)
	}

	t := ComputeTransform(box, canvas)
	shapes := make([]Shape, 0, len(geoms))
	for _, g := range geoms {
		shapes = append(shapes, g.apply(t))
	}
	return shapes, t
}
