//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"attention-monitor/internal/domain/entity"
)

// ErrCaptureFailed камера перестала отдавать кадры
var ErrCaptureFailed = errors.New("camera capture failed")

var errNoGoCV = errors.New("gocv build tag is not enabled")

// CameraSource заглушка (без OpenCV)
type CameraSource struct{}

// NewCameraSource возвращает ошибку, если сборка без тега gocv.
func NewCameraSource(opts CameraOptions, log logrus.FieldLogger) (*CameraSource, error) {
	_ = opts
	_ = log
	return nil, errNoGoCV
}

// Next возвращает ошибку, если сборка без тега gocv.
func (s *CameraSource) Next(ctx context.Context) (*entity.Frame, error) {
	_ = ctx
	return nil, errNoGoCV
}

// Close ничего не делает.
func (s *CameraSource) Close() error {
	return nil
}
