package attention

import (
	"attention-monitor/internal/domain/entity"
)

// Unit состояние вывода сигналов для одного субъекта.
// Не безопасен для конкурентного использования: кадры обрабатываются по одному.
type Unit struct {
	cfg    Config
	tilt   *TiltDetector
	closer *CloserDetector
	frown  *FrownDetector
}

// NewUnit создаёт набор детекторов с общими параметрами
func NewUnit(cfg Config) (*Unit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Unit{
		cfg:    cfg,
		tilt:   NewTiltDetector(cfg),
		closer: NewCloserDetector(cfg),
		frown:  NewFrownDetector(),
	}, nil
}

// Process выводит сигналы по одним ключевым точкам
func (u *Unit) Process(kp entity.Keypoints) []entity.Signal {
	return u.ProcessFrame(&entity.Frame{Keypoints: kp})
}

// ProcessFrame выводит сигналы для кадра.
// Без лица и ключевых точек возвращается только in_seat=0. Если лицо найдено, но точек нет,
// возвращается только in_seat=1. В обоих случаях детекторы не затрагиваются.
// Оценка позы головы, если есть, добавляется последним сигналом.
func (u *Unit) ProcessFrame(f *entity.Frame) []entity.Signal {
	if !f.SubjectPresent() {
		return []entity.Signal{entity.NewBoolSignal(entity.SignalInSeat, false)}
	}
	if f.Keypoints.Empty() {
		return []entity.Signal{entity.NewBoolSignal(entity.SignalInSeat, true)}
	}

	kp := f.Keypoints
	frown := entity.Signal{Kind: entity.SignalFrown, Value: entity.ValueOff}
	if u.frown.Detect(kp) {
		frown.Value = entity.ValueFrown
	}

	signals := []entity.Signal{
		entity.NewBoolSignal(entity.SignalInSeat, true),
		entity.NewBoolSignal(entity.SignalTilted, u.tilt.Detect(kp)),
		entity.NewBoolSignal(entity.SignalFaceCloser, u.closer.Detect(kp)),
		frown,
	}
	if f.HeadPose != nil {
		signals = append(signals, entity.Signal{Kind: entity.SignalHeadPose, Value: f.HeadPose.Angle})
	}
	return signals
}

// Config параметры сессии
func (u *Unit) Config() Config {
	return u.cfg
}

// Reset перезапуск сессии: окно и базовые линии сбрасываются
func (u *Unit) Reset() {
	u.tilt.Reset()
	u.closer.Reset()
	u.frown.Reset()
}
