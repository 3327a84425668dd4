package geom

import "math"

// Point represents a coordinate in some 2D space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle. Min is the corner with the smaller
// coordinates regardless of which way the Y axis points.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Union returns the smallest rectangle containing both r and o
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Matrix is a PDF-style 2D affine transform [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translate returns a pure translation
func Translate(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Scale returns a pure scaling transform
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// FromArray builds a matrix from the six-element array form used by PDF
// text matrices and pdf.js text items.
func FromArray(v [6]float64) Matrix {
	return Matrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}
}

// Array returns the six-element array form of the matrix
func (m Matrix) Array() [6]float64 {
	return [6]float64{m.A, m.B, m.C, m.D, m.E, m.F}
}

// Compose returns the transform that applies inner first and outer second.
func Compose(outer, inner Matrix) Matrix {
	return Matrix{
		A: outer.A*inner.A + outer.C*inner.B,
		B: outer.B*inner.A + outer.D*inner.B,
		C: outer.A*inner.C + outer.C*inner.D,
		D: outer.B*inner.C + outer.D*inner.D,
		E: outer.A*inner.E + outer.C*inner.F + outer.E,
		F: outer.B*inner.E + outer.D*inner.F + outer.F,
	}
}

// Apply transforms a single point
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyRect transforms the four corners of r and returns their bounding box
func (m Matrix) ApplyRect(r Rect) Rect {
	corners := [4]Point{
		m.Apply(r.Min),
		m.Apply(Point{X: r.Max.X, Y: r.Min.Y}),
		m.Apply(r.Max),
		m.Apply(Point{X: r.Min.X, Y: r.Max.Y}),
	}
	out := Rect{Min: corners[0], Max: corners[0]}
	for _, c := range corners[1:] {
		out.Min.X = math.Min(out.Min.X, c.X)
		out.Min.Y = math.Min(out.Min.Y, c.Y)
		out.Max.X = math.Max(out.Max.X, c.X)
		out.Max.Y = math.Max(out.Max.Y, c.Y)
	}
	return out
}

// ScaleX is the length of the transformed unit X vector
func (m Matrix) ScaleX() float64 {
	return math.Hypot(m.A, m.B)
}

// ScaleY is the length of the transformed unit Y vector. For a text matrix
// this is the effective font size; skew is ignored.
func (m Matrix) ScaleY() float64 {
	return math.Hypot(m.C, m.D)
}

// FlipsY reports whether the transform mirrors the Y axis, which is the
// case for PDF-to-pixel viewports.
func (m Matrix) FlipsY() bool {
	return m.A*m.D-m.B*m.C < 0
}

// Viewport maps page coordinates (PDF user space, origin bottom-left, Y up)
// into a target drawing surface.
type Viewport struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Transform Matrix  `json:"transform"`
}

// PageViewport returns the identity viewport for drawing directly in PDF
// user space, as done when stamping onto the page itself.
func PageViewport(pageWidth, pageHeight float64) Viewport {
	return Viewport{Width: pageWidth, Height: pageHeight, Transform: Identity()}
}

// PixelViewport returns a viewport for a raster surface whose origin is the
// top-left corner and whose Y axis grows downward.
func PixelViewport(pageWidth, pageHeight, scale float64) Viewport {
	return Viewport{
		Width:     pageWidth * scale,
		Height:    pageHeight * scale,
		Transform: Matrix{A: scale, D: -scale, F: pageHeight * scale},
	}
}
