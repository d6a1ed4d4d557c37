package scene

import (
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindCircle    Kind = "circle"
	KindRectangle Kind = "rectangle"
	KindTriangle  Kind = "triangle"
	KindLine      Kind = "line"
	KindEllipse   Kind = "ellipse"
)

const DefaultColor = "black"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is the canonical drawing primitive handed to renderers.
// Only the fields belonging to Kind are meaningful.
type Shape struct {
	Kind   Kind
	Color  string
	Filled bool

	// circle
	CenterX, CenterY, Radius float64

	// rectangle, ellipse
	X, Y, Width, Height float64

	// triangle
	Points [3]Point

	// line
	X1, Y1, X2, Y2 float64
}

// Layer is the shape set produced by one accepted prompt.
type Layer []Shape

type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MarshalJSON emits exactly the fields of the shape's kind.
func (s Shape) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"shape":  s.Kind,
		"color":  s.Color,
		"filled": s.Filled,
	}

	switch s.Kind {
	case KindCircle:
		out["centerX"] = s.CenterX
		out["centerY"] = s.CenterY
		out["radius"] = s.Radius
	case KindRectangle, KindEllipse:
		out["x"] = s.X
		out["y"] = s.Y
		out["width"] = s.Width
		out["height"] = s.Height
	case KindTriangle:
		out["points"] = s.Points[:]
	case KindLine:
		out["x1"] = s.X1
		out["y1"] = s.Y1
		out["x2"] = s.X2
		out["y2"] = s.Y2
	default:
		return nil, fmt.Errorf("unsupported shape kind: %s", s.Kind)
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads a canonical shape back, as stored by the repository.
// Stored scenes are already canonical, so no alias resolution happens here.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind    Kind    `json:"shape"`
		Color   string  `json:"color"`
		Filled  *bool   `json:"filled"`
		CenterX float64 `json:"centerX"`
		CenterY float64 `json:"centerY"`
		Radius  float64 `json:"radius"`
		X       float64 `json:"x"`
		Y       float64 `json:"y"`
		Width   float64 `json:"width"`
		Height  float64 `json:"height"`
		Points  []Point `json:"points"`
		X1      float64 `json:"x1"`
		Y1      float64 `json:"y1"`
		X2      float64 `json:"x2"`
		Y2      float64 `json:"y2"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Kind {
	case KindCircle, KindRectangle, KindEllipse, KindLine:
	case KindTriangle:
		if len(raw.Points) != 3 {
			return fmt.Errorf("triangle needs 3 points, got %d", len(raw.Points))
		}
		copy(s.Points[:], raw.Points)
	default:
		return fmt.Errorf("unsupported shape kind: %s", raw.Kind)
	}

	s.Kind = raw.Kind
	s.Color = raw.Color
	if s.Color == "" {
		s.Color = DefaultColor
	}
	s.Filled = raw.Filled == nil || *raw.Filled
	s.CenterX, s.CenterY, s.Radius = raw.CenterX, raw.CenterY, raw.Radius
	s.X, s.Y, s.Width, s.Height = raw.X, raw.Y, raw.Width, raw.Height
	s.X1, s.Y1, s.X2, s.Y2 = raw.X1, raw.Y1, raw.X2, raw.Y2
	return nil
}
