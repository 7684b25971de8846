package entity

// SignalKind тип сигнала внимательности. Значения совпадают с ключами во внешнем хранилище.
type SignalKind string

const (
	SignalInSeat     SignalKind = "in_seat"
	SignalTilted     SignalKind = "tilted"
	SignalFaceCloser SignalKind = "face_closer"
	SignalFrown      SignalKind = "frown"
	SignalHeadPose   SignalKind = "head_pose"
)

// Значения сигналов
const (
	ValueOff   = 0  // нет признака
	ValueOn    = 1  // наклон головы, приближение лица, субъект на месте
	ValueFrown = -1 // нахмуренные брови
)

// Signal результат одного детектора за кадр
type Signal struct {
	Kind  SignalKind `json:"kind"`
	Value int        `json:"value"`
}

// NewBoolSignal строит сигнал 0/1
func NewBoolSignal(kind SignalKind, on bool) Signal {
	if on {
		return Signal{Kind: kind, Value: ValueOn}
	}
	return Signal{Kind: kind, Value: ValueOff}
}

// Alert сообщает, что сигнал требует внимания наблюдателя
func (s Signal) Alert() bool {
	switch s.Kind {
	case SignalInSeat:
		return s.Value == ValueOff
	case SignalFrown:
		return s.Value == ValueFrown
	case SignalHeadPose:
		// угол позы справочный, 90 означает и "не определён"
		return false
	default:
		return s.Value == ValueOn
	}
}
