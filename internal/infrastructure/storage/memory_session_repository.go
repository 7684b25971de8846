package storage

import (
	"context"
	"sort"
	"sync"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// Get возвращает сессию субъекта, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, subjectID string) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[subjectID]
	r.mu.RUnlock()

	if exists {
		return session, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Другой вызов мог успеть создать сессию
	if session, exists := r.sessions[subjectID]; exists {
		return session, nil
	}
	session = entity.NewSession(subjectID)
	r.sessions[subjectID] = session

	return session, nil
}

// Find возвращает сессию без создания
func (r *MemorySessionRepository) Find(ctx context.Context, subjectID string) (*entity.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[subjectID]
	return session, exists, nil
}

// Save сохраняет сессию
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.SubjectID] = session
	r.mu.Unlock()

	return nil
}

// List возвращает идентификаторы субъектов в алфавитном порядке
func (r *MemorySessionRepository) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
