package port

import (
	"context"

	"attention-monitor/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	// Get возвращает сессию субъекта, создаёт новую если не найдена
	Get(ctx context.Context, subjectID string) (*entity.Session, error)

	// Find возвращает сессию без создания
	Find(ctx context.Context, subjectID string) (*entity.Session, bool, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error

	// List возвращает идентификаторы всех субъектов
	List(ctx context.Context) ([]string, error)
}
