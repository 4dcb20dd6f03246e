package canvas

import (
	"math"
	"strconv"
	"strings"
)

// PathData returns the SVG path data for points under the given curve kind.
// Points are rounded to whole pixels first.
func PathData(points []Point, kind CurveKind) string {
	if len(points) == 0 {
		return ""
	}
	rounded := make([]Point, len(points))
	for i, p := range points {
		rounded[i] = Point{X: math.Round(p.X), Y: math.Round(p.Y)}
	}
	var b pathBuilder
	if kind == CurveLinear {
		b.moveTo(rounded[0])
		for _, p := range rounded[1:] {
			b.lineTo(p)
		}
		return b.String()
	}
	basis(&b, rounded)
	return b.String()
}

// basis emits a uniform cubic B-spline. The curve starts at the first point,
// ends at the last point and is pulled toward the inner control points.
func basis(b *pathBuilder, pts []Point) {
	var p0, p1 Point
	for i, p := range pts {
		switch i {
		case 0:
			b.moveTo(p)
		case 1:
		case 2:
			b.lineTo(Point{X: (5*p0.X + p1.X) / 6, Y: (5*p0.Y + p1.Y) / 6})
			basisSegment(b, p0, p1, p)
		default:
			basisSegment(b, p0, p1, p)
		}
		p0, p1 = p1, p
	}
	switch {
	case len(pts) >= 3:
		basisSegment(b, p0, p1, p1)
		b.lineTo(p1)
	case len(pts) == 2:
		b.lineTo(p1)
	}
}

func basisSegment(b *pathBuilder, p0, p1, p Point) {
	b.curveTo(
		Point{X: (2*p0.X + p1.X) / 3, Y: (2*p0.Y + p1.Y) / 3},
		Point{X: (p0.X + 2*p1.X) / 3, Y: (p0.Y + 2*p1.Y) / 3},
		Point{X: (p0.X + 4*p1.X + p.X) / 6, Y: (p0.Y + 4*p1.Y + p.Y) / 6},
	)
}

type pathBuilder struct{ strings.Builder }

func (b *pathBuilder) moveTo(p Point) {
	b.WriteByte('M')
	b.point(p)
}

func (b *pathBuilder) lineTo(p Point) {
	b.WriteByte('L')
	b.point(p)
}

func (b *pathBuilder) curveTo(c1, c2, p Point) {
	b.WriteByte('C')
	b.point(c1)
	b.WriteByte(',')
	b.point(c2)
	b.WriteByte(',')
	b.point(p)
}

func (b *pathBuilder) point(p Point) {
	b.WriteString(fmtNum(p.X))
	b.WriteByte(',')
	b.WriteString(fmtNum(p.Y))
}

// fmtNum formats v with at most three decimals and no trailing zeros.
func fmtNum(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
