package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawDescriptor is one loosely-structured shape description as returned by the
// generation service. Field names and nesting vary between responses.
type RawDescriptor map[string]interface{}

const (
	defaultSize       = 50.0
	defaultLineOffset = 50.0

	// maxMagnitude bounds every raw coordinate and length. Larger values are
	// treated as missing so the fitting arithmetic stays finite.
	maxMagnitude = 1e6
)

// nestedKeys are the sub-objects searched after the top level.
var nestedKeys = []string{"dimensions", "position", "size", "properties", "props", "attributes"}

var kindKeys = []string{"shape", "type", "kind"}

var colorKeys = []string{"color", "colour", "fill", "fillColor", "stroke", "strokeColor"}

var filledKeys = []string{"filled", "isFilled", "fill"}

// kindAliases maps every accepted kind value (lowercased) to its canonical kind.
var kindAliases = map[string]Kind{
	"circle":    KindCircle,
	"circ":      KindCircle,
	"dot":       KindCircle,
	"עיגול":     KindCircle,
	"מעגל":      KindCircle,
	"rectangle": KindRectangle,
	"rect":      KindRectangle,
	"square":    KindRectangle,
	"box":       KindRectangle,
	"מלבן":      KindRectangle,
	"ריבוע":     KindRectangle,
	"triangle":  KindTriangle,
	"משולש":     KindTriangle,
	"line":      KindLine,
	"segment":   KindLine,
	"קו":        KindLine,
	"ellipse":   KindEllipse,
	"oval":      KindEllipse,
	"אליפסה":    KindEllipse,
}

// field resolves one canonical numeric field from a list of aliases.
type field struct {
	aliases []string
}

var (
	circleCenterX = field{[]string{"centerX", "cx", "center_x", "x"}}
	circleCenterY = field{[]string{"centerY", "cy", "center_y", "y"}}
	circleRadius  = field{[]string{"radius", "r", "size"}}
	circleDiam    = field{[]string{"diameter", "d"}}

	boxX      = field{[]string{"x", "x1", "left", "startX"}}
	boxY      = field{[]string{"y", "y1", "top", "startY"}}
	boxWidth  = field{[]string{"width", "w", "base", "size"}}
	boxHeight = field{[]string{"height", "h", "size"}}
	boxCX     = field{[]string{"cx", "centerX", "center_x"}}
	boxCY     = field{[]string{"cy", "centerY", "center_y"}}
	boxRX     = field{[]string{"rx", "radiusX", "radius_x"}}
	boxRY     = field{[]string{"ry", "radiusY", "radius_y"}}

	lineX1 = field{[]string{"x1", "x", "startX", "start_x"}}
	lineY1 = field{[]string{"y1", "y", "startY", "start_y"}}
	lineX2 = field{[]string{"x2", "endX", "end_x"}}
	lineY2 = field{[]string{"y2", "endY", "end_y"}}

	triX    = field{[]string{"x", "left", "startX"}}
	triY    = field{[]string{"y", "top", "startY"}}
	triBase = field{[]string{"base", "width", "size", "side"}}
	triH    = field{[]string{"height", "h", "size", "side"}}
)

// NormalizationWarning records a problem that was recovered by substituting a
// default. Warnings are logged, never surfaced to the user.
type NormalizationWarning struct {
	Index   int
	Field   string
	Message string
}

func (w NormalizationWarning) Error() string {
	return fmt.Sprintf("descriptor %d: %s: %s", w.Index, w.Field, w.Message)
}

// geometry is a descriptor resolved to canonical, pre-transform values.
// Both the fitter (bounding box) and the normalizer (output) read from it.
type geometry struct {
	kind   Kind
	color  string
	filled bool

	cx, cy, r  float64
	x, y, w, h float64
	pts        [3]Point
	x1, y1     float64
	x2, y2     float64
}

// resolver walks one descriptor. It collects warnings as it substitutes defaults.
type resolver struct {
	d        RawDescriptor
	warnings []NormalizationWarning
	index    int
}

func resolve(d RawDescriptor, index int) (geometry, []NormalizationWarning) {
	rv := &resolver{d: d, index: index}
	g := geometry{
		kind:   rv.kind(),
		color:  rv.color(),
		filled: rv.filled(),
	}

	switch g.kind {
	case KindCircle:
		g.cx = rv.number(circleCenterX, 0)
		g.cy = rv.number(circleCenterY, 0)
		if r, ok := rv.lookup(circleRadius); ok {
			g.r = math.Abs(r)
		} else if d, ok := rv.lookup(circleDiam); ok {
			g.r = math.Abs(d) / 2
		} else {
			rv.warn("radius", "missing, using default")
			g.r = defaultSize
		}

	case KindRectangle, KindEllipse:
		g.w = rv.extent(boxWidth, boxRX)
		g.h = rv.extent(boxHeight, boxRY)
		// centre-based descriptors are converted to the top-left corner
		if cx, ok := rv.lookup(boxCX); ok {
			g.x = cx - g.w/2
		} else {
			g.x = rv.number(boxX, 0)
		}
		if cy, ok := rv.lookup(boxCY); ok {
			g.y = cy - g.h/2
		} else {
			g.y = rv.number(boxY, 0)
		}

	case KindLine:
		g.x1 = rv.number(lineX1, 0)
		g.y1 = rv.number(lineY1, 0)
		g.x2 = rv.number(lineX2, g.x1+defaultLineOffset)
		g.y2 = rv.number(lineY2, g.y1+defaultLineOffset)

	case KindTriangle:
		if pts, ok := rv.points(); ok {
			g.pts = pts
			break
		}
		x := rv.number(triX, 0)
		y := rv.number(triY, 0)
		base := rv.number(triBase, defaultSize)
		height := rv.number(triH, base)
		g.pts = [3]Point{
			{X: x + base/2, Y: y},
			{X: x, Y: y + height},
			{X: x + base, Y: y + height},
		}
	}

	return g, rv.warnings
}

func (rv *resolver) warn(fieldName, msg string) {
	rv.warnings = append(rv.warnings, NormalizationWarning{Index: rv.index, Field: fieldName, Message: msg})
}

// raw looks a key up at the top level, then in the nested sub-objects.
func (rv *resolver) raw(key string) (interface{}, bool) {
	if v, ok := rv.d[key]; ok && v != nil {
		return v, true
	}
	for _, nk := range nestedKeys {
		sub, ok := asObject(rv.d[nk])
		if !ok {
			continue
		}
		if v, ok := sub[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (rv *resolver) lookup(f field) (float64, bool) {
	for _, alias := range f.aliases {
		v, ok := rv.raw(alias)
		if !ok {
			continue
		}
		if n, ok := toFloat(v); ok {
			return n, true
		}
		switch v.(type) {
		case map[string]interface{}, RawDescriptor, []interface{}:
			// a nested object sharing the alias, e.g. "size"
		default:
			rv.warn(alias, fmt.Sprintf("unusable value %v, ignoring", v))
		}
	}
	return 0, false
}

func (rv *resolver) number(f field, def float64) float64 {
	if n, ok := rv.lookup(f); ok {
		return n
	}
	if def != 0 {
		rv.warn(f.aliases[0], "missing, using default")
	}
	return def
}

// extent resolves a full length, falling back to a radius alias (doubled).
func (rv *resolver) extent(full, radius field) float64 {
	if n, ok := rv.lookup(full); ok {
		return math.Abs(n)
	}
	if n, ok := rv.lookup(radius); ok {
		return math.Abs(n) * 2
	}
	rv.warn(full.aliases[0], "missing, using default")
	return defaultSize
}

func (rv *resolver) kind() Kind {
	for _, key := range kindKeys {
		v, ok := rv.raw(key)
		if !ok {
			continue
		}
		name, ok := v.(string)
		if !ok {
			continue
		}
		if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			return k
		}
		rv.warn(key, fmt.Sprintf("unknown shape %q, treating as rectangle", name))
		return KindRectangle
	}
	rv.warn("shape", "missing, treating as rectangle")
	return KindRectangle
}

func (rv *resolver) color() string {
	for _, key := range colorKeys {
		v, ok := rv.raw(key)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return DefaultColor
}

func (rv *resolver) filled() bool {
	for _, key := range filledKeys {
		v, ok := rv.raw(key)
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
				return parsed
			}
		}
	}
	return true
}

// points reads a triangle given as a list of {x,y} objects or [x,y] pairs,
// or as flat x1..x3 / y1..y3 fields.
func (rv *resolver) points() ([3]Point, bool) {
	var out [3]Point

	if v, ok := rv.raw("points"); ok {
		if list, ok := v.([]interface{}); ok && len(list) >= 3 {
			for i := 0; i < 3; i++ {
				p, ok := toPoint(list[i])
				if !ok {
					rv.warn("points", "unreadable point, falling back")
					return out, false
				}
				out[i] = p
			}
			return out, true
		}
		rv.warn("points", "fewer than 3 points, falling back")
	}

	for i := 0; i < 3; i++ {
		xs := field{[]string{fmt.Sprintf("x%d", i+1)}}
		ys := field{[]string{fmt.Sprintf("y%d", i+1)}}
		x, okX := rv.lookup(xs)
		y, okY := rv.lookup(ys)
		if !okX || !okY {
			return out, false
		}
		out[i] = Point{X: x, Y: y}
	}
	return out, true
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		return o, true
	case RawDescriptor:
		return o, true
	}
	return nil, false
}

func toPoint(v interface{}) (Point, bool) {
	if obj, ok := asObject(v); ok {
		x, okX := toFloat(obj["x"])
		y, okY := toFloat(obj["y"])
		return Point{X: x, Y: y}, okX && okY
	}
	if pair, ok := v.([]interface{}); ok && len(pair) >= 2 {
		x, okX := toFloat(pair[0])
		y, okY := toFloat(pair[1])
		return Point{X: x, Y: y}, okX && okY
	}
	return Point{}, false
}

// toFloat accepts JSON numbers, numeric strings and Go numeric types.
// Non-finite values and values beyond maxMagnitude count as missing.
func toFloat(v interface{}) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > maxMagnitude {
		return 0, false
	}
	return n, true
}

// bounds returns the pre-transform extent of the geometry.
func (g geometry) bounds() (minX, minY, maxX, maxY float64) {
	switch g.kind {
	case KindCircle:
		return g.cx - g.r, g.cy - g.r, g.cx + g.r, g.cy + g.r
	case KindLine:
		return math.Min(g.x1, g.x2), math.Min(g.y1, g.y2), math.Max(g.x1, g.x2), math.Max(g.y1, g.y2)
	case KindTriangle:
		minX, minY = g.pts[0].X, g.pts[0].Y
		maxX, maxY = minX, minY
		for _, p := range g.pts[1:] {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		return minX, minY, maxX, maxY
	default:
		return g.x, g.y, g.x + g.w, g.y + g.h
	}
}

// apply produces the canonical shape under t.
func (g geometry) apply(t Transform) Shape {
	s := Shape{Kind: g.kind, Color: g.color, Filled: g.filled}
	px := func(x float64) float64 { return x*t.Scale + t.OffsetX }
	py := func(y float64) float64 { return y*t.Scale + t.OffsetY }

	switch g.kind {
	case KindCircle:
		s.CenterX, s.CenterY = px(g.cx), py(g.cy)
		s.Radius = g.r * t.Scale
	case KindLine:
		s.X1, s.Y1 = px(g.x1), py(g.y1)
		s.X2, s.Y2 = px(g.x2), py(g.y2)
	case KindTriangle:
		for i, p := range g.pts {
			s.Points[i] = Point{X: px(p.X), Y: py(p.Y)}
		}
	default:
		s.X, s.Y = px(g.x), py(g.y)
		s.Width, s.Height = g.w*t.Scale, g.h*t.Scale
	}
	return s
}
