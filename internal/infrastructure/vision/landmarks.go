package vision

import (
	"math"
	"time"

	"attention-monitor/internal/domain/entity"
)

const (
	// FaceInputSize сторона входа SSD-детектора лиц
	FaceInputSize = 300
	// LandmarkInputSize сторона входа сети ключевых точек
	LandmarkInputSize = 128
	// detectionStride длина одной записи детекции: image_id, label, conf, x1, y1, x2, y2
	detectionStride = 7
)

// faceMean среднее BGR для нормализации входа детектора лиц
var faceMean = [3]float64{104, 177, 123}

// CameraOptions параметры камеры и моделей
type CameraOptions struct {
	Device        int
	SubjectID     string
	FaceConfig    string  // prototxt детектора лиц
	FaceModel     string  // caffemodel детектора лиц
	LandmarkModel string  // замороженный граф TensorFlow сети 68 точек
	MinConfidence float64 // порог уверенности детектора лиц
	PollInterval  time.Duration
}

// parseDetections переводит выход SSD в области лиц в координатах кадра
func parseDetections(raw []float32, frameWidth, frameHeight int, minConfidence float64) []entity.FaceBox {
	faces := make([]entity.FaceBox, 0)
	for i := 0; i+detectionStride <= len(raw); i += detectionStride {
		if float64(raw[i+2]) <= minConfidence {
			continue
		}
		x1 := int(float64(raw[i+3]) * float64(frameWidth))
		y1 := int(float64(raw[i+4]) * float64(frameHeight))
		x2 := int(float64(raw[i+5]) * float64(frameWidth))
		y2 := int(float64(raw[i+6]) * float64(frameHeight))
		if x2 <= x1 || y2 <= y1 {
			continue
		}
		faces = append(faces, entity.FaceBox{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1})
	}
	return faces
}

// largestFace выбирает лицо с наибольшей площадью
func largestFace(faces []entity.FaceBox) (entity.FaceBox, bool) {
	if len(faces) == 0 {
		return entity.FaceBox{}, false
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Width*f.Height > best.Width*best.Height {
			best = f
		}
	}
	return best, true
}

// landmarkBox область для сети ключевых точек: сдвиг вниз на 10% высоты, квадрат, обрезка по кадру
func landmarkBox(face entity.FaceBox, frameWidth, frameHeight int) entity.FaceBox {
	offset := face.Height / 10
	return face.Shift(0, offset).Square().Clamp(frameWidth, frameHeight)
}

// scaleMarks переводит нормированные точки сети в координаты кадра.
// Сеть отдаёт 136 чисел (x, y) в долях стороны квадратной области.
func scaleMarks(raw []float32, box entity.FaceBox) []entity.Point {
	if len(raw) < 2*entity.Dlib68Points {
		return nil
	}
	side := float64(box.Width)
	points := make([]entity.Point, entity.Dlib68Points)
	for i := range points {
		points[i] = entity.Point{
			X: float64(raw[2*i])*side + float64(box.X),
			Y: float64(raw[2*i+1])*side + float64(box.Y),
		}
	}
	return points
}

// headModel 3D-модель лица в порядке headLandmarks
var headModel = [6]entity.Point{
	{X: 0, Y: 0, Z: 0},
	{X: 0, Y: -330, Z: -65},
	{X: -225, Y: 170, Z: -135},
	{X: 225, Y: 170, Z: -135},
	{X: -150, Y: -150, Z: -125},
	{X: 150, Y: -150, Z: -125},
}

var headLandmarks = [6]entity.LandmarkID{
	entity.NoseTip,
	entity.Chin,
	entity.EyeOuterLeft,
	entity.EyeOuterRight,
	entity.MouthLeft,
	entity.MouthRight,
}

// noseAxisEnd точка на оси носа в координатах модели
var noseAxisEnd = entity.Point{Z: 1000}

// headImagePoints точки кадра, соответствующие headModel
func headImagePoints(kp entity.Keypoints) ([6]entity.Point, bool) {
	var out [6]entity.Point
	for i, id := range headLandmarks {
		p, ok := kp.Get(id)
		if !ok {
			return out, false
		}
		out[i] = p
	}
	return out, true
}

// pinhole камера без дисторсии: фокус равен ширине кадра, оптический центр в середине
type pinhole struct {
	focal  float64
	cx, cy float64
}

func newPinhole(width, height int) pinhole {
	return pinhole{focal: float64(width), cx: float64(width) / 2, cy: float64(height) / 2}
}

// project переводит точку модели в кадр по вектору поворота и смещению.
// Точка в плоскости камеры (z == 0) не проецируется.
func (c pinhole) project(rvec, tvec [3]float64, p entity.Point) (entity.Point, bool) {
	r := rotation(rvec)
	x := r[0][0]*p.X + r[0][1]*p.Y + r[0][2]*p.Z + tvec[0]
	y := r[1][0]*p.X + r[1][1]*p.Y + r[1][2]*p.Z + tvec[1]
	z := r[2][0]*p.X + r[2][1]*p.Y + r[2][2]*p.Z + tvec[2]
	if z == 0 {
		return entity.Point{}, false
	}
	return entity.Point{X: c.focal*x/z + c.cx, Y: c.focal*y/z + c.cy}, true
}

// rotation матрица поворота по вектору Родрига
func rotation(rvec [3]float64) [3][3]float64 {
	theta := math.Sqrt(rvec[0]*rvec[0] + rvec[1]*rvec[1] + rvec[2]*rvec[2])
	if theta < 1e-12 {
		return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}
	kx, ky, kz := rvec[0]/theta, rvec[1]/theta, rvec[2]/theta
	c, s := math.Cos(theta), math.Sin(theta)
	v := 1 - c
	return [3][3]float64{
		{c + kx*kx*v, kx*ky*v - kz*s, kx*kz*v + ky*s},
		{ky*kx*v + kz*s, c + ky*ky*v, ky*kz*v - kx*s},
		{kz*kx*v - ky*s, kz*ky*v + kx*s, c + kz*kz*v},
	}
}

// headPoseFromVectors угол позы по решению PnP и положению кончика носа в кадре
func headPoseFromVectors(cam pinhole, rvec, tvec [3]float64, nose entity.Point) *entity.HeadPose {
	end, ok := cam.project(rvec, tvec, noseAxisEnd)
	if !ok {
		return &entity.HeadPose{Angle: 90}
	}
	return &entity.HeadPose{Angle: headPoseAngle(nose, end)}
}

// headPoseAngle наклон линии нос -> проекция оси носа к горизонтали кадра в целых градусах.
// Координаты отбрасывают дробную часть пикселя; вертикальная линия даёт 90.
func headPoseAngle(nose, end entity.Point) int {
	x1, y1 := int(nose.X), int(nose.Y)
	x2, y2 := int(end.X), int(end.Y)
	if x2 == x1 {
		return 90
	}
	m := float64(y2-y1) / float64(x2-x1)
	return int(math.Atan(m) * (180 / math.Pi))
}
