package scene

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResolvesAliasesAndDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   RawDescriptor
		want Shape
	}{
		{
			name: "flat circle with cx/cy",
			in:   RawDescriptor{"shape": "circle", "cx": 10.0, "cy": 20.0, "radius": 5.0, "color": "red"},
			want: Shape{Kind: KindCircle, Color: "red", Filled: true, CenterX: 10, CenterY: 20, Radius: 5},
		},
		{
			name: "nested dimensions",
			in:   RawDescriptor{"shape": "circle", "dimensions": map[string]interface{}{"x": 1.0, "y": 2.0, "radius": 3.0}},
			want: Shape{Kind: KindCircle, Color: "black", Filled: true, CenterX: 1, CenterY: 2, Radius: 3},
		},
		{
			name: "circle without radius",
			in:   RawDescriptor{"type": "circle", "x": 0.0, "y": 0.0},
			want: Shape{Kind: KindCircle, Color: "black", Filled: true, Radius: 50},
		},
		{
			name: "rectangle with x1 and base",
			in:   RawDescriptor{"shape": "rect", "x1": 4.0, "y": 6.0, "base": 30.0, "height": 10.0, "filled": false},
			want: Shape{Kind: KindRectangle, Color: "black", Filled: false, X: 4, Y: 6, Width: 30, Height: 10},
		},
		{
			name: "rectangle with numeric strings",
			in:   RawDescriptor{"shape": "rectangle", "x": "7", "y": "8", "width": "9", "height": "10", "filled": "false"},
			want: Shape{Kind: KindRectangle, Color: "black", Filled: false, X: 7, Y: 8, Width: 9, Height: 10},
		},
		{
			name: "line end defaults to start plus 50",
			in:   RawDescriptor{"shape": "line", "x1": 10.0, "y1": 20.0, "color": "blue"},
			want: Shape{Kind: KindLine, Color: "blue", Filled: true, X1: 10, Y1: 20, X2: 60, Y2: 70},
		},
		{
			name: "ellipse given by centre and radii",
			in:   RawDescriptor{"shape": "oval", "cx": 50.0, "cy": 50.0, "rx": 20.0, "ry": 10.0},
			want: Shape{Kind: KindEllipse, Color: "black", Filled: true, X: 30, Y: 40, Width: 40, Height: 20},
		},
		{
			name: "triangle from point objects",
			in: RawDescriptor{"shape": "triangle", "points": []interface{}{
				map[string]interface{}{"x": 0.0, "y": 10.0},
				map[string]interface{}{"x": 5.0, "y": 0.0},
				[]interface{}{10.0, 10.0},
			}},
			want: Shape{Kind: KindTriangle, Color: "black", Filled: true, Points: [3]Point{{0, 10}, {5, 0}, {10, 10}}},
		},
		{
			name: "triangle without points uses anchor and default size",
			in:   RawDescriptor{"shape": "משולש", "x": 0.0, "y": 0.0},
			want: Shape{Kind: KindTriangle, Color: "black", Filled: true, Points: [3]Point{{25, 0}, {0, 50}, {50, 50}}},
		},
		{
			name: "unknown kind becomes rectangle",
			in:   RawDescriptor{"shape": "star", "x": 1.0, "y": 1.0, "width": 2.0, "height": 2.0, "color": "  "},
			want: Shape{Kind: KindRectangle, Color: "black", Filled: true, X: 1, Y: 1, Width: 2, Height: 2},
		},
		{
			name: "non-finite values fall back to defaults",
			in:   RawDescriptor{"shape": "circle", "radius": math.NaN()},
			want: Shape{Kind: KindCircle, Color: "black", Filled: true, Radius: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, Identity))
		})
	}
}

func TestNormalizeAppliesTransformToEveryCoordinate(t *testing.T) {
	tr := Transform{Scale: 2, OffsetX: 10, OffsetY: 100}

	line := Normalize(RawDescriptor{"shape": "line", "x1": 1.0, "y1": 2.0, "x2": 3.0, "y2": 4.0}, tr)
	assert.Equal(t, Shape{Kind: KindLine, Color: "black", Filled: true, X1: 12, Y1: 104, X2: 16, Y2: 108}, line)

	tri := Normalize(RawDescriptor{"shape": "triangle", "x1": 0.0, "y1": 0.0, "x2": 1.0, "y2": 0.0, "x3": 0.0, "y3": 1.0}, tr)
	assert.Equal(t, [3]Point{{10, 100}, {12, 100}, {10, 102}}, tri.Points)

	rect := Normalize(RawDescriptor{"shape": "rectangle", "x": 1.0, "y": 1.0, "width": 5.0, "height": 6.0}, tr)
	assert.Equal(t, 12.0, rect.X)
	assert.Equal(t, 102.0, rect.Y)
	assert.Equal(t, 10.0, rect.Width, "lengths are scaled but not offset")
	assert.Equal(t, 12.0, rect.Height)
}

func TestNormalizeWithWarningsReportsRecoveries(t *testing.T) {
	_, warnings := NormalizeWithWarnings(RawDescriptor{"shape": "hexagon"}, Identity)
	require.NotEmpty(t, warnings)
	assert.Equal(t, "shape", warnings[0].Field)

	_, warnings = NormalizeWithWarnings(RawDescriptor{"shape": "circle", "x": 1.0, "y": 1.0, "radius": 2.0}, Identity)
	assert.Empty(t, warnings)
}

func TestShapeJSONEmitsOnlyKindFields(t *testing.T) {
	b, err := json.Marshal(Shape{Kind: KindCircle, Color: "red", Filled: true, CenterX: 1, CenterY: 2, Radius: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":"circle","color":"red","filled":true,"centerX":1,"centerY":2,"radius":3}`, string(b))

	var back Shape
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Shape{Kind: KindCircle, Color: "red", Filled: true, CenterX: 1, CenterY: 2, Radius: 3}, back)

	_, err = json.Marshal(Shape{Kind: "hexagon"})
	assert.Error(t, err)
}
