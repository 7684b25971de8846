package port

import (
	"context"

	"attention-monitor/internal/domain/entity"
)

// SignalSink интерфейс получателя сигналов
type SignalSink interface {
	// Publish отправляет сигналы одного кадра. Повторов нет: ошибка только логируется.
	Publish(ctx context.Context, subjectID string, signals []entity.Signal) error
}
