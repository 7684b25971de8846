package attention

import (
	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/geometry"
)

// CloserDetector сравнивает ширину лица с предыдущим кадром
type CloserDetector struct {
	epsilon float64
	prev    float64
	set     bool
}

// NewCloserDetector создаёт детектор приближения лица
func NewCloserDetector(cfg Config) *CloserDetector {
	return &CloserDetector{epsilon: cfg.CloserEpsilon}
}

// Detect измеряет расстояние между ушами (или краями челюсти) и сравнивает с прошлым кадром
func (d *CloserDetector) Detect(kp entity.Keypoints) bool {
	width, ok := faceWidth(kp)
	if !ok {
		return false
	}
	return d.Update(width)
}

// Update возвращает true, если ширина выросла больше чем на epsilon.
// Предыдущее значение перезаписывается на каждом кадре.
func (d *CloserDetector) Update(width float64) bool {
	if !d.set {
		d.prev = width
		d.set = true
		return false
	}
	closer := width > d.prev+d.epsilon
	d.prev = width
	return closer
}

// Reset забывает предыдущее значение
func (d *CloserDetector) Reset() {
	d.prev = 0
	d.set = false
}

func faceWidth(kp entity.Keypoints) (float64, bool) {
	var a, b entity.LandmarkID
	switch {
	case kp.Has(entity.LeftEar, entity.RightEar):
		a, b = entity.LeftEar, entity.RightEar
	case kp.Has(entity.JawLeft, entity.JawRight):
		a, b = entity.JawLeft, entity.JawRight
	default:
		return 0, false
	}
	width := geometry.Distance(kp[a], kp[b])
	if width == 0 {
		return 0, false
	}
	return width, true
}
