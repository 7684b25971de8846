package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionState состояние сессии наблюдения
type SessionState string

const (
	SessionActive  SessionState = "active"  // Кадры обрабатываются
	SessionStopped SessionState = "stopped" // Наблюдение остановлено
)

// Session сессия наблюдения за одним субъектом
type Session struct {
	ID        string             // идентификатор запуска, меняется при перезапуске
	SubjectID string             // наблюдаемый субъект
	State     SessionState       // текущее состояние
	StartedAt time.Time          // время (пере)запуска
	Frames    int64              // обработано кадров с момента запуска
	Last      map[SignalKind]int // последние значения сигналов
	UpdatedAt time.Time          // время последнего кадра
}

// NewSession создаёт активную сессию
func NewSession(subjectID string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		State:     SessionActive,
		StartedAt: time.Now(),
		Last:      make(map[SignalKind]int),
	}
}

// Record сохраняет сигналы очередного кадра
func (s *Session) Record(signals []Signal, at time.Time) {
	s.Frames++
	s.UpdatedAt = at
	for _, sig := range signals {
		s.Last[sig.Kind] = sig.Value
	}
}

// Restart начинает сессию заново с новым ID
func (s *Session) Restart() {
	s.ID = uuid.NewString()
	s.State = SessionActive
	s.StartedAt = time.Now()
	s.Frames = 0
	s.Last = make(map[SignalKind]int)
	s.UpdatedAt = time.Time{}
}

// Stop останавливает сессию
func (s *Session) Stop() {
	s.State = SessionStopped
}

// Active сообщает, принимает ли сессия кадры
func (s *Session) Active() bool {
	return s.State == SessionActive
}

// Snapshot возвращает копию, безопасную для чтения вне репозитория
func (s *Session) Snapshot() Session {
	cp := *s
	cp.Last = make(map[SignalKind]int, len(s.Last))
	for k, v := range s.Last {
		cp.Last[k] = v
	}
	return cp
}
