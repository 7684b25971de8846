package port

import (
	"context"

	"attention-monitor/internal/domain/entity"
)

// FrameSource интерфейс источника ключевых точек
type FrameSource interface {
	// Next блокируется до следующего кадра. io.EOF означает конец потока.
	// Кадр с пустыми ключевыми точками означает, что субъект не найден.
	Next(ctx context.Context) (*entity.Frame, error)

	// Close освобождает ресурсы источника
	Close() error
}
