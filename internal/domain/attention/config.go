// Package attention выводит сигналы внимательности из потока ключевых точек.
package attention

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// TiltAxis опорная ось для оценки наклона головы
type TiltAxis string

const (
	// AxisFace ось переносица -> кончик носа относительно вертикали кадра
	AxisFace TiltAxis = "face"
	// AxisPose ось нос -> центр рта относительно линии плеч
	AxisPose TiltAxis = "pose"
)

// ErrInvalidConfig ошибка параметров сессии
var ErrInvalidConfig = errors.New("invalid attention config")

// Config параметры сессии наблюдения
type Config struct {
	ThresholdDegrees float64  `yaml:"threshold_degrees" validate:"gt=0,lte=90"`
	WindowCapacity   int      `yaml:"window_capacity" validate:"gt=0"`
	CloserEpsilon    float64  `yaml:"closer_epsilon" validate:"gte=0"`
	TiltAxis         TiltAxis `yaml:"tilt_axis" validate:"oneof=face pose"`
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		ThresholdDegrees: 25,
		WindowCapacity:   10,
		CloserEpsilon:    3,
		TiltAxis:         AxisFace,
	}
}

// HysteresisBand допуск на изменение скользящего среднего между кадрами
func (c Config) HysteresisBand() float64 {
	return c.ThresholdDegrees / 10
}

var validate = validator.New()

// Validate проверяет параметры
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
