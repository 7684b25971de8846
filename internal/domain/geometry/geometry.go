// Package geometry содержит вычисления на уже найденных ключевых точках.
package geometry

import (
	"math"

	"attention-monitor/internal/domain/entity"
)

// FallbackAngle угол, который используется, когда угол между прямыми не определён
const FallbackAngle = 90.0

// Line прямая y = Slope*x + Intercept
type Line struct {
	Slope     float64
	Intercept float64
}

// LineThrough строит прямую через две точки.
// Для вертикальной прямой (x1 == x2) возвращает ok=false.
func LineThrough(p1, p2 entity.Point) (Line, bool) {
	if p1.X == p2.X {
		return Line{}, false
	}
	m := (p2.Y - p1.Y) / (p2.X - p1.X)
	return Line{Slope: m, Intercept: p1.Y - m*p1.X}, true
}

// AngleBetween возвращает угол между прямыми с наклонами m1 и m2 в градусах, [0, 90].
// При 1 + m1*m2 == 0 (перпендикулярные прямые) возвращает ok=false.
func AngleBetween(m1, m2 float64) (float64, bool) {
	den := 1 + m1*m2
	if den == 0 {
		return 0, false
	}
	return degrees(math.Atan(math.Abs((m1 - m2) / den))), true
}

// AngleBetweenOr как AngleBetween, но с запасным значением вместо ok=false
func AngleBetweenOr(m1, m2, fallback float64) float64 {
	if a, ok := AngleBetween(m1, m2); ok {
		return a
	}
	return fallback
}

// Distance евклидово расстояние, округлённое до целого для устойчивости к дрожанию
func Distance(p1, p2 entity.Point) float64 {
	return math.Round(math.Hypot(p1.X-p2.X, p1.Y-p2.Y))
}

// AxisAngle отклонение оси top->bottom от вертикали кадра в градусах, [0, 90].
// Для горизонтальной оси (dy == 0) возвращает ok=false.
func AxisAngle(top, bottom entity.Point) (float64, bool) {
	dy := bottom.Y - top.Y
	if dy == 0 {
		return 0, false
	}
	return math.Abs(degrees(math.Atan((bottom.X - top.X) / dy))), true
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
