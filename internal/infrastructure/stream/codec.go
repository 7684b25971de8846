// Package stream принимает ключевые точки от внешнего процесса распознавания.
package stream

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"attention-monitor/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// frameMessage формат кадра на проводе.
// face68: точки iBUG 300-W в порядке индексов; landmarks: именованные точки позы и ушей.
type frameMessage struct {
	Subject    string                  `json:"subject,omitempty"`
	CapturedAt time.Time               `json:"captured_at,omitempty"`
	Face68     [][2]float64            `json:"face68,omitempty"`
	Landmarks  map[string]entity.Point `json:"landmarks,omitempty"`
	Faces      []boxMessage            `json:"faces,omitempty"`
	HeadPose   *int                    `json:"head_pose,omitempty"`
}

type boxMessage struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// DecodeFrame разбирает кадр; пустой subject заменяется defaultSubject
func DecodeFrame(data []byte, defaultSubject string) (*entity.Frame, error) {
	var msg frameMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if len(msg.Face68) != 0 && len(msg.Face68) != entity.Dlib68Points {
		return nil, fmt.Errorf("decode frame: face68 has %d points, want %d", len(msg.Face68), entity.Dlib68Points)
	}

	subject := msg.Subject
	if subject == "" {
		subject = defaultSubject
	}
	if subject == "" {
		return nil, errors.New("decode frame: subject is empty")
	}

	kp := entity.Keypoints{}
	if len(msg.Face68) == entity.Dlib68Points {
		points := make([]entity.Point, len(msg.Face68))
		for i, p := range msg.Face68 {
			points[i] = entity.Point{X: p[0], Y: p[1]}
		}
		kp = entity.FromDlib68(points)
	}
	for name, p := range msg.Landmarks {
		kp[entity.LandmarkID(name)] = p
	}

	faces := make([]entity.FaceBox, 0, len(msg.Faces))
	for _, b := range msg.Faces {
		faces = append(faces, entity.FaceBox{X: b.X, Y: b.Y, Width: b.W, Height: b.H})
	}

	frame := &entity.Frame{
		SubjectID:  subject,
		CapturedAt: msg.CapturedAt,
		Keypoints:  kp,
		Faces:      faces,
	}
	if msg.HeadPose != nil {
		frame.HeadPose = &entity.HeadPose{Angle: *msg.HeadPose}
	}
	return frame, nil
}

// EncodeFrame кодирует кадр с именованными точками
func EncodeFrame(frame *entity.Frame) ([]byte, error) {
	msg := frameMessage{
		Subject:    frame.SubjectID,
		CapturedAt: frame.CapturedAt,
		Landmarks:  make(map[string]entity.Point, len(frame.Keypoints)),
	}
	for id, p := range frame.Keypoints {
		msg.Landmarks[string(id)] = p
	}
	for _, b := range frame.Faces {
		msg.Faces = append(msg.Faces, boxMessage{X: b.X, Y: b.Y, W: b.Width, H: b.Height})
	}
	if frame.HeadPose != nil {
		angle := frame.HeadPose.Angle
		msg.HeadPose = &angle
	}
	return json.Marshal(msg)
}
