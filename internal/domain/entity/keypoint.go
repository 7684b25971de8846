package entity

// Point точка в координатах кадра (Z заполняется только 3D-моделями позы)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Mid возвращает середину отрезка между двумя точками
func Mid(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

// LandmarkID семантический идентификатор ключевой точки
type LandmarkID string

// Точки лица (68-точечная разметка) и позы. Левое и правое считаются со стороны кадра.
const (
	JawLeft        LandmarkID = "jaw_left"
	JawRight       LandmarkID = "jaw_right"
	Chin           LandmarkID = "chin"
	BrowInnerLeft  LandmarkID = "brow_inner_left"
	BrowInnerRight LandmarkID = "brow_inner_right"
	NoseBridge     LandmarkID = "nose_bridge"
	NoseTip        LandmarkID = "nose_tip"
	EyeOuterLeft   LandmarkID = "eye_outer_left"
	EyeOuterRight  LandmarkID = "eye_outer_right"
	MouthLeft      LandmarkID = "mouth_left"
	MouthRight     LandmarkID = "mouth_right"

	Nose          LandmarkID = "nose"
	LeftEar       LandmarkID = "left_ear"
	RightEar      LandmarkID = "right_ear"
	LeftShoulder  LandmarkID = "left_shoulder"
	RightShoulder LandmarkID = "right_shoulder"
)

// Dlib68Points количество точек в разметке iBUG 300-W
const Dlib68Points = 68

var dlib68 = map[int]LandmarkID{
	0:  JawLeft,
	8:  Chin,
	16: JawRight,
	21: BrowInnerLeft,
	22: BrowInnerRight,
	27: NoseBridge,
	30: NoseTip,
	36: EyeOuterLeft,
	45: EyeOuterRight,
	48: MouthLeft,
	54: MouthRight,
}

// Keypoints ключевые точки одного кадра
type Keypoints map[LandmarkID]Point

// FromDlib68 переводит 68 точек лица в именованные ключевые точки.
// Срез другой длины даёт пустой набор.
func FromDlib68(points []Point) Keypoints {
	if len(points) != Dlib68Points {
		return Keypoints{}
	}
	kp := make(Keypoints, len(dlib68))
	for idx, id := range dlib68 {
		kp[id] = points[idx]
	}
	return kp
}

// Get возвращает точку и признак её наличия
func (k Keypoints) Get(id LandmarkID) (Point, bool) {
	p, ok := k[id]
	return p, ok
}

// Has проверяет, что все перечисленные точки присутствуют
func (k Keypoints) Has(ids ...LandmarkID) bool {
	for _, id := range ids {
		if _, ok := k[id]; !ok {
			return false
		}
	}
	return true
}

// Empty сообщает, что в кадре нет субъекта
func (k Keypoints) Empty() bool {
	return len(k) == 0
}
