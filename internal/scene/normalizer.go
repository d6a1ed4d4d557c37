package scene

// Transform maps pre-scale descriptor coordinates onto the canvas.
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Identity leaves coordinates untouched.
var Identity = Transform{Scale: 1}

// Normalize converts one descriptor into a fully-resolved canonical shape.
// Missing or malformed fields are replaced by defaults; unknown kinds become
// rectangles. It never fails.
func Normalize(d RawDescriptor, t Transform) Shape {
	s, _ := NormalizeWithWarnings(d, t)
	return s
}

// NormalizeWithWarnings is Normalize that also reports every default it had to
// substitute.
func NormalizeWithWarnings(d RawDescriptor, t Transform) (Shape, []NormalizationWarning) {
	g, warnings := resolve(d, 0)
	return g.apply(t), warnings
}
