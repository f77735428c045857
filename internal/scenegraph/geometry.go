package scenegraph

import (
	"encoding/json"
	"math"

	"golang.org/x/image/math/f64"
)

// Rect is an axis-aligned box in canvas pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Canvas returns the full-frame rectangle for a w×h canvas.
func Canvas(w, h int) Rect {
	return Rect{W: float64(w), H: float64(h)}
}

// IsEmpty reports a zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Center returns the centre point.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Union returns the smallest rect containing both.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.W, o.X+o.W)
	maxY := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Matrix is a 2D affine transform stored row-major as
//
//	| a c e |
//	| b d f |
//
// in an f64.Aff3 laid out {a, c, e, b, d, f}.
type Matrix f64.Aff3

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0}
}

// Translate returns a translation.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, tx, 0, 1, ty}
}

// Scale returns a scale about the origin.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0}
}

// RotateDegrees returns a rotation about the origin.
func RotateDegrees(deg float64) Matrix {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return Matrix{c, -s, 0, s, c, 0}
}

// Mul returns m·o: o is applied first, then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[3],
		m[0]*o[1] + m[1]*o[4],
		m[0]*o[2] + m[1]*o[5] + m[2],
		m[3]*o[0] + m[4]*o[3],
		m[3]*o[1] + m[4]*o[4],
		m[3]*o[2] + m[4]*o[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// MarshalJSON emits the canvas-style [a, b, c, d, e, f] array.
func (m Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal([6]float64{m[0], m[3], m[1], m[4], m[2], m[5]})
}

// UnmarshalJSON reads the [a, b, c, d, e, f] form.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var v [6]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Matrix{v[0], v[2], v[4], v[1], v[3], v[5]}
	return nil
}

// Ptr returns a pointer to a copy of m, for Node.Transform.
func (m Matrix) Ptr() *Matrix {
	return &m
}
