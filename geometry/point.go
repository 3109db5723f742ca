package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerate is returned when a computation divides by a vanishing length, area or volume
var ErrDegenerate = errors.New("degenerate geometry")

// Point is a coordinate tuple of any dimension
type Point []float64

func NewPoint(coords ...float64) Point {
	p := make(Point, len(coords))
	copy(p, coords)
	return p
}

func (p Point) Dim() int { return len(p) }

func (p Point) Copy() Point {
	return NewPoint(p...)
}

func (p Point) String() string {
	return fmt.Sprintf("%v", []float64(p))
}

func checkDims(a, b Point) {
	if len(a) != len(b) {
		panic(fmt.Errorf("point dimensions differ: %d and %d", len(a), len(b)))
	}
}

func Sub(a, b Point) Point {
	checkDims(a, b)
	r := make(Point, len(a))
	floats.SubTo(r, a, b)
	return r
}

func Add(a, b Point) Point {
	checkDims(a, b)
	r := make(Point, len(a))
	floats.AddTo(r, a, b)
	return r
}

func Scale(f float64, a Point) Point {
	r := make(Point, len(a))
	floats.ScaleTo(r, f, a)
	return r
}

// AddScaled returns a + f*b
func AddScaled(a Point, f float64, b Point) Point {
	checkDims(a, b)
	r := make(Point, len(a))
	floats.AddScaledTo(r, a, f, b)
	return r
}

func Dot(a, b Point) float64 {
	checkDims(a, b)
	return floats.Dot(a, b)
}

func Norm(a Point) float64 {
	return floats.Norm(a, 2)
}

func Distance(a, b Point) float64 {
	checkDims(a, b)
	return floats.Distance(a, b, 2)
}

func Mid(a, b Point) Point {
	return Scale(0.5, Add(a, b))
}

// Average is the arithmetic mean of the points, the vertex centroid
func Average(pts ...Point) Point {
	if len(pts) == 0 {
		return nil
	}
	r := make(Point, len(pts[0]))
	for _, p := range pts {
		checkDims(r, p)
		floats.Add(r, p)
	}
	floats.Scale(1/float64(len(pts)), r)
	return r
}

// Normalize returns a unit vector along a, failing for a zero length vector
func Normalize(a Point, tol float64) (Point, error) {
	n := Norm(a)
	if n < tol {
		return nil, fmt.Errorf("%w: vector %v has norm %g", ErrDegenerate, a, n)
	}
	return Scale(1/n, a), nil
}

// ToR3 embeds a point of dimension up to three into R3, padding with zeros
func ToR3(p Point) (v r3.Vec) {
	if len(p) > 3 {
		panic(fmt.Errorf("point of dimension %d does not embed in R3", len(p)))
	}
	c := [3]float64{}
	copy(c[:], p)
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}

func FromR3(v r3.Vec) Point {
	return Point{v.X, v.Y, v.Z}
}

// Cross is the 3D cross product, two dimensional inputs are treated as lying in z = 0
func Cross(a, b Point) Point {
	return FromR3(r3.Cross(ToR3(a), ToR3(b)))
}

// TriangleNormal is the non normalized normal (B-A)x(C-A)
func TriangleNormal(a, b, c Point) Point {
	return Cross(Sub(b, a), Sub(c, a))
}
