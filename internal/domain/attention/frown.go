package attention

import (
	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/geometry"
)

// FrownDetector сравнивает межбровье с базовой линией первого кадра.
// Базовая линия не обновляется до Reset, поэтому дрейф за длинную сессию не компенсируется.
type FrownDetector struct {
	baseAngle float64
	baseWidth float64
	set       bool
}

// NewFrownDetector создаёт детектор хмурости
func NewFrownDetector() *FrownDetector {
	return &FrownDetector{}
}

// Detect возвращает true, если брови сведены относительно базовой линии
func (d *FrownDetector) Detect(kp entity.Keypoints) bool {
	angle, width, ok := glabella(kp)
	if !ok {
		return false
	}
	return d.Update(angle, width)
}

// Update сравнивает угол и ширину межбровья с базовой линией.
// Первый вызов сохраняет базовую линию и возвращает false.
func (d *FrownDetector) Update(angle, width float64) bool {
	if !d.set {
		d.baseAngle = angle
		d.baseWidth = width
		d.set = true
		return false
	}
	return width < d.baseWidth && angle < d.baseAngle
}

// Baseline возвращает базовые угол и ширину
func (d *FrownDetector) Baseline() (angle, width float64, ok bool) {
	return d.baseAngle, d.baseWidth, d.set
}

// Reset забывает базовую линию
func (d *FrownDetector) Reset() {
	d.baseAngle = 0
	d.baseWidth = 0
	d.set = false
}

// glabella угол между линиями переносица->брови и расстояние между внутренними краями бровей
func glabella(kp entity.Keypoints) (angle, width float64, ok bool) {
	if !kp.Has(entity.NoseBridge, entity.BrowInnerLeft, entity.BrowInnerRight) {
		return 0, 0, false
	}
	nose := kp[entity.NoseBridge]
	left, ok := geometry.LineThrough(nose, kp[entity.BrowInnerLeft])
	if !ok {
		return 0, 0, false
	}
	right, ok := geometry.LineThrough(nose, kp[entity.BrowInnerRight])
	if !ok {
		return 0, 0, false
	}
	angle = geometry.AngleBetweenOr(left.Slope, right.Slope, geometry.FallbackAngle)
	width = geometry.Distance(kp[entity.BrowInnerLeft], kp[entity.BrowInnerRight])
	return angle, width, true
}
