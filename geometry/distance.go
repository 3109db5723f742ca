package geometry

import "math"

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// PointSegmentDistance works in any dimension
func PointSegmentDistance(p, a, b Point) float64 {
	ab := Sub(b, a)
	l2 := Dot(ab, ab)
	if l2 == 0 {
		return Distance(p, a)
	}
	t := clamp01(Dot(Sub(p, a), ab) / l2)
	return Distance(p, AddScaled(a, t, ab))
}

// ClosestPointTriangle returns the point of triangle abc closest to p, by Voronoi region of the triangle features
func ClosestPointTriangle(p, a, b, c Point) Point {
	var (
		ab, ac = Sub(b, a), Sub(c, a)
		ap     = Sub(p, a)
		d1, d2 = Dot(ab, ap), Dot(ac, ap)
	)
	if d1 <= 0 && d2 <= 0 {
		return a.Copy()
	}
	bp := Sub(p, b)
	d3, d4 := Dot(ab, bp), Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b.Copy()
	}
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return AddScaled(a, d1/(d1-d3), ab)
	}
	cp := Sub(p, c)
	d5, d6 := Dot(ab, cp), Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c.Copy()
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return AddScaled(a, d2/(d2-d6), ac)
	}
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return AddScaled(b, w, Sub(c, b))
	}
	denom := 1 / (va + vb + vc)
	return AddScaled(AddScaled(a, vb*denom, ab), vc*denom, ac)
}

func PointTriangleDistance(p, a, b, c Point) float64 {
	return Distance(p, ClosestPointTriangle(p, a, b, c))
}

// SegmentSegmentDistance is the distance between the closest points of segments p1q1 and p2q2
func SegmentSegmentDistance(p1, q1, p2, q2 Point) float64 {
	var (
		d1, d2 = Sub(q1, p1), Sub(q2, p2)
		r      = Sub(p1, p2)
		a, e   = Dot(d1, d1), Dot(d2, d2)
		f      = Dot(d2, r)
		s, t   float64
	)
	const eps = degenerateTol
	switch {
	case a <= eps && e <= eps:
		return Distance(p1, p2)
	case a <= eps:
		t = clamp01(f / e)
	default:
		c := Dot(d1, r)
		if e <= eps {
			s = clamp01(-c / a)
		} else {
			b := Dot(d1, d2)
			if denom := a*e - b*b; denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return Distance(AddScaled(p1, s, d1), AddScaled(p2, t, d2))
}
