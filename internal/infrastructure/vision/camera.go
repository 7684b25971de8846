//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

// ErrCaptureFailed камера перестала отдавать кадры
var ErrCaptureFailed = errors.New("camera capture failed")

// solvePnPUPnP cv::SOLVEPNP_UPNP
const solvePnPUPnP = 4

// CameraSource снимает кадры с камеры, находит лицо DNN-детектором и 68 точек сетью ключевых точек
type CameraSource struct {
	opts    CameraOptions
	capture *gocv.VideoCapture
	faceNet gocv.Net
	markNet gocv.Net
	frame   gocv.Mat
	started bool
	log     logrus.FieldLogger
}

// NewCameraSource открывает камеру и загружает модели
func NewCameraSource(opts CameraOptions, log logrus.FieldLogger) (*CameraSource, error) {
	faceNet := gocv.ReadNetFromCaffe(opts.FaceConfig, opts.FaceModel)
	if faceNet.Empty() {
		return nil, fmt.Errorf("load face detector %s", opts.FaceModel)
	}

	markNet := gocv.ReadNetFromTensorflow(opts.LandmarkModel)
	if markNet.Empty() {
		faceNet.Close()
		return nil, fmt.Errorf("load landmark model %s", opts.LandmarkModel)
	}

	capture, err := gocv.OpenVideoCapture(opts.Device)
	if err != nil {
		faceNet.Close()
		markNet.Close()
		return nil, fmt.Errorf("open camera %d: %w", opts.Device, err)
	}

	log.WithField("device", opts.Device).Info("camera opened")
	return &CameraSource{
		opts:    opts,
		capture: capture,
		faceNet: faceNet,
		markNet: markNet,
		frame:   gocv.NewMat(),
		log:     log,
	}, nil
}

// Next ждёт интервал опроса, снимает кадр и возвращает ключевые точки самого крупного лица
func (s *CameraSource) Next(ctx context.Context) (*entity.Frame, error) {
	if s.started && s.opts.PollInterval > 0 {
		timer := time.NewTimer(s.opts.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	s.started = true

	if ok := s.capture.Read(&s.frame); !ok || s.frame.Empty() {
		return nil, ErrCaptureFailed
	}

	out := &entity.Frame{
		SubjectID:  s.opts.SubjectID,
		CapturedAt: time.Now(),
		Keypoints:  entity.Keypoints{},
	}

	out.Faces = s.detectFaces(s.frame)
	face, ok := largestFace(out.Faces)
	if !ok {
		return out, nil
	}

	box := landmarkBox(face, s.frame.Cols(), s.frame.Rows())
	if box.Empty() {
		return out, nil
	}
	marks, err := s.detectMarks(s.frame, box)
	if err != nil {
		s.log.WithError(err).Warn("landmark inference failed")
		return out, nil
	}
	out.Keypoints = entity.FromDlib68(marks)
	out.HeadPose = s.headPose(out.Keypoints, s.frame.Cols(), s.frame.Rows())
	return out, nil
}

// detectFaces запускает SSD-детектор лиц
func (s *CameraSource) detectFaces(img gocv.Mat) []entity.FaceBox {
	blob := gocv.BlobFromImage(img, 1.0, image.Pt(FaceInputSize, FaceInputSize),
		gocv.NewScalar(faceMean[0], faceMean[1], faceMean[2], 0), false, false)
	defer blob.Close()

	s.faceNet.SetInput(blob, "")
	prob := s.faceNet.Forward("")
	defer prob.Close()

	raw := make([]float32, prob.Total())
	for i := range raw {
		raw[i] = prob.GetFloatAt(0, i)
	}
	return parseDetections(raw, img.Cols(), img.Rows(), s.opts.MinConfidence)
}

// detectMarks вырезает квадрат лица и получает 68 точек
func (s *CameraSource) detectMarks(img gocv.Mat, box entity.FaceBox) ([]entity.Point, error) {
	region := img.Region(image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height))
	defer region.Close()

	blob := gocv.BlobFromImage(region, 1.0, image.Pt(LandmarkInputSize, LandmarkInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	s.markNet.SetInput(blob, "")
	out := s.markNet.Forward("")
	defer out.Close()

	raw := make([]float32, out.Total())
	for i := range raw {
		raw[i] = out.GetFloatAt(0, i)
	}
	points := scaleMarks(raw, box)
	if points == nil {
		return nil, fmt.Errorf("landmark model returned %d values", len(raw))
	}
	return points, nil
}

// headPose решает PnP для шести точек лица и переводит поворот в угол оси носа
func (s *CameraSource) headPose(kp entity.Keypoints, width, height int) *entity.HeadPose {
	marks, ok := headImagePoints(kp)
	if !ok {
		return nil
	}

	object := make([]gocv.Point3f, len(headModel))
	for i, p := range headModel {
		object[i] = gocv.Point3f{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
	}
	projected := make([]gocv.Point2f, len(marks))
	for i, p := range marks {
		projected[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
	}
	objectVec := gocv.NewPoint3fVectorFromPoints(object)
	defer objectVec.Close()
	imageVec := gocv.NewPoint2fVectorFromPoints(projected)
	defer imageVec.Close()

	cam := newPinhole(width, height)
	camera := gocv.Zeros(3, 3, gocv.MatTypeCV64F)
	defer camera.Close()
	camera.SetDoubleAt(0, 0, cam.focal)
	camera.SetDoubleAt(0, 2, cam.cx)
	camera.SetDoubleAt(1, 1, cam.focal)
	camera.SetDoubleAt(1, 2, cam.cy)
	camera.SetDoubleAt(2, 2, 1)

	dist := gocv.Zeros(4, 1, gocv.MatTypeCV64F)
	defer dist.Close()

	rvec := gocv.NewMat()
	defer rvec.Close()
	tvec := gocv.NewMat()
	defer tvec.Close()

	if !gocv.SolvePnP(objectVec, imageVec, camera, dist, &rvec, &tvec, false, solvePnPUPnP) ||
		rvec.Total() < 3 || tvec.Total() < 3 {
		s.log.Debug("head pose not solved")
		return nil
	}

	var r, t [3]float64
	for i := 0; i < 3; i++ {
		r[i] = rvec.GetDoubleAt(i, 0)
		t[i] = tvec.GetDoubleAt(i, 0)
	}
	return headPoseFromVectors(cam, r, t, marks[0])
}

// Close освобождает камеру и модели
func (s *CameraSource) Close() error {
	s.frame.Close()
	s.faceNet.Close()
	s.markNet.Close()
	return s.capture.Close()
}

var _ port.FrameSource = (*CameraSource)(nil)
