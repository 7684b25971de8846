package attention

import (
	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/geometry"
)

// TiltDetector определяет наклон головы по скользящему среднему угла с гистерезисом.
type TiltDetector struct {
	axis      TiltAxis
	threshold float64
	band      float64
	window    *Window
	prevMean  float64
}

// NewTiltDetector создаёт детектор наклона
func NewTiltDetector(cfg Config) *TiltDetector {
	return &TiltDetector{
		axis:      cfg.TiltAxis,
		threshold: cfg.ThresholdDegrees,
		band:      cfg.HysteresisBand(),
		window:    NewWindow(cfg.WindowCapacity),
	}
}

// Detect вычисляет угол оси и классифицирует кадр.
// Если угол не определён, кадр считается ненаклонённым, состояние не меняется.
func (d *TiltDetector) Detect(kp entity.Keypoints) bool {
	angle, ok := d.Angle(kp)
	if !ok {
		return false
	}
	return d.Update(angle)
}

// Angle мгновенный угол наклона по выбранной оси
func (d *TiltDetector) Angle(kp entity.Keypoints) (float64, bool) {
	if d.axis == AxisPose {
		return poseTiltAngle(kp)
	}
	return faceTiltAngle(kp)
}

// Update добавляет угол в окно и возвращает true, если голова наклонена.
//
// Наклон фиксируется, если выполнено хотя бы одно:
//   - мгновенный угол >= порога;
//   - среднее >= порога и не упало больше чем на порог/10 (медленный возврат);
//   - окно заполнено и среднее выросло не меньше чем на порог/10 (резкое начало наклона).
//
// Первый кадр только задаёт предыдущее среднее.
func (d *TiltDetector) Update(angle float64) bool {
	first := d.window.IsEmpty()
	mean := d.window.Push(angle)
	prev := d.prevMean
	d.prevMean = mean
	if first {
		return false
	}

	if angle >= d.threshold {
		return true
	}
	if mean >= d.threshold && prev-d.band <= mean {
		return true
	}
	if d.window.Full() && prev+d.band <= mean {
		return true
	}
	return false
}

// Mean текущее скользящее среднее
func (d *TiltDetector) Mean() float64 {
	return d.window.Mean()
}

// Reset сбрасывает окно и предыдущее среднее
func (d *TiltDetector) Reset() {
	d.window.Reset()
	d.prevMean = 0
}

func faceTiltAngle(kp entity.Keypoints) (float64, bool) {
	top, ok := kp.Get(entity.NoseBridge)
	if !ok {
		return 0, false
	}
	bottom, ok := kp.Get(entity.NoseTip)
	if !ok {
		return 0, false
	}
	return geometry.AxisAngle(top, bottom)
}

// poseTiltAngle отклонение оси нос -> рот от перпендикуляра к линии плеч
func poseTiltAngle(kp entity.Keypoints) (float64, bool) {
	if !kp.Has(entity.Nose, entity.MouthLeft, entity.MouthRight, entity.LeftShoulder, entity.RightShoulder) {
		return 0, false
	}
	mouth := entity.Mid(kp[entity.MouthLeft], kp[entity.MouthRight])
	face, ok := geometry.LineThrough(kp[entity.Nose], mouth)
	if !ok {
		return 0, false
	}
	shoulders, ok := geometry.LineThrough(kp[entity.RightShoulder], kp[entity.LeftShoulder])
	if !ok {
		return 0, false
	}
	between := geometry.AngleBetweenOr(face.Slope, shoulders.Slope, geometry.FallbackAngle)
	return geometry.FallbackAngle - between, true
}
