package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"attention-monitor/internal/domain/entity"
)

func TestLineThrough(t *testing.T) {
	line, ok := LineThrough(entity.Point{X: 0, Y: 1}, entity.Point{X: 2, Y: 5})
	require.True(t, ok)
	require.InDelta(t, 2.0, line.Slope, 1e-9)
	require.InDelta(t, 1.0, line.Intercept, 1e-9)

	line, ok = LineThrough(entity.Point{X: 4, Y: 0}, entity.Point{X: 2, Y: 2})
	require.True(t, ok)
	require.InDelta(t, -1.0, line.Slope, 1e-9)
	require.InDelta(t, 4.0, line.Intercept, 1e-9)
}

func TestLineThrough_Vertical(t *testing.T) {
	for _, x := range []float64{-3, 0, 12.5, 640} {
		_, ok := LineThrough(entity.Point{X: x, Y: 1}, entity.Point{X: x, Y: 100})
		require.False(t, ok, "x=%v", x)
	}
}

func TestAngleBetween_SameSlope(t *testing.T) {
	for _, m := range []float64{-10, -0.5, 0, 0.3, 7} {
		a, ok := AngleBetween(m, m)
		require.True(t, ok)
		require.InDelta(t, 0.0, a, 1e-9)
	}
}

func TestAngleBetween(t *testing.T) {
	a, ok := AngleBetween(1, 0)
	require.True(t, ok)
	require.InDelta(t, 45.0, a, 1e-9)

	a, ok = AngleBetween(math.Sqrt(3), 0)
	require.True(t, ok)
	require.InDelta(t, 60.0, a, 1e-9)
}

func TestAngleBetween_Perpendicular(t *testing.T) {
	_, ok := AngleBetween(2, -0.5)
	require.False(t, ok)
	require.Equal(t, FallbackAngle, AngleBetweenOr(2, -0.5, FallbackAngle))
}

func TestDistance(t *testing.T) {
	require.Equal(t, 5.0, Distance(entity.Point{X: 0, Y: 0}, entity.Point{X: 3, Y: 4}))
	require.Equal(t, 1.0, Distance(entity.Point{X: 0, Y: 0}, entity.Point{X: 1, Y: 0.4}))
	require.Equal(t, 0.0, Distance(entity.Point{X: 7, Y: 7}, entity.Point{X: 7, Y: 7}))
}

func TestAxisAngle(t *testing.T) {
	a, ok := AxisAngle(entity.Point{X: 100, Y: 100}, entity.Point{X: 100, Y: 150})
	require.True(t, ok)
	require.InDelta(t, 0.0, a, 1e-9)

	a, ok = AxisAngle(entity.Point{X: 100, Y: 100}, entity.Point{X: 50, Y: 150})
	require.True(t, ok)
	require.InDelta(t, 45.0, a, 1e-9)

	_, ok = AxisAngle(entity.Point{X: 0, Y: 10}, entity.Point{X: 30, Y: 10})
	require.False(t, ok)
}
