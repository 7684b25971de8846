package entity

import "time"

// HeadPose поворот головы, восстановленный по 3D-модели лица
type HeadPose struct {
	Angle int // наклон направления носа к горизонтали кадра в градусах, 90 если не определён
}

// Frame ключевые точки одного кадра от источника восприятия
type Frame struct {
	SubjectID  string    // наблюдаемый субъект
	CapturedAt time.Time // время захвата кадра
	Keypoints  Keypoints // пусто, если точки не получены
	Faces      []FaceBox // найденные лица, если источник их сообщает
	HeadPose   *HeadPose // nil, если поза не оценивалась
}

// SubjectPresent сообщает, найден ли субъект в кадре: есть лицо или ключевые точки
func (f *Frame) SubjectPresent() bool {
	return f != nil && (len(f.Faces) > 0 || !f.Keypoints.Empty())
}
