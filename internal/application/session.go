package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"attention-monitor/internal/domain/attention"
	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionStopped  = errors.New("session is stopped")
)

// SessionService держит состояние детекторов отдельно для каждого субъекта
type SessionService struct {
	repo  port.SessionRepository
	cfg   attention.Config
	units map[string]*attention.Unit
	mu    sync.Mutex
}

// NewSessionService создаёт сервис сессий с общими параметрами детекторов
func NewSessionService(repo port.SessionRepository, cfg attention.Config) (*SessionService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SessionService{
		repo:  repo,
		cfg:   cfg,
		units: make(map[string]*attention.Unit),
	}, nil
}

// Observe прогоняет кадр через детекторы субъекта и записывает результат в сессию
func (s *SessionService) Observe(ctx context.Context, frame *entity.Frame) ([]entity.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, frame.SubjectID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, ErrSessionStopped
	}

	unit, err := s.unitLocked(frame.SubjectID)
	if err != nil {
		return nil, err
	}
	signals := unit.ProcessFrame(frame)

	at := frame.CapturedAt
	if at.IsZero() {
		at = time.Now()
	}
	session.Record(signals, at)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return signals, nil
}

// Reset перезапускает сессию: базовые линии и окно сглаживания собираются заново
func (s *SessionService) Reset(ctx context.Context, subjectID string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok, err := s.repo.Find(ctx, subjectID)
	if err != nil {
		return entity.Session{}, err
	}
	if !ok {
		return entity.Session{}, ErrSessionNotFound
	}

	if unit, ok := s.units[subjectID]; ok {
		unit.Reset()
	}
	session.Restart()
	if err := s.repo.Save(ctx, session); err != nil {
		return entity.Session{}, err
	}
	return session.Snapshot(), nil
}

// Stop останавливает обработку кадров субъекта до Reset
func (s *SessionService) Stop(ctx context.Context, subjectID string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok, err := s.repo.Find(ctx, subjectID)
	if err != nil {
		return entity.Session{}, err
	}
	if !ok {
		return entity.Session{}, ErrSessionNotFound
	}

	session.Stop()
	if err := s.repo.Save(ctx, session); err != nil {
		return entity.Session{}, err
	}
	return session.Snapshot(), nil
}

// Status возвращает копию сессии субъекта
func (s *SessionService) Status(ctx context.Context, subjectID string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok, err := s.repo.Find(ctx, subjectID)
	if err != nil {
		return entity.Session{}, err
	}
	if !ok {
		return entity.Session{}, ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subjects возвращает всех известных субъектов
func (s *SessionService) Subjects(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

func (s *SessionService) unitLocked(subjectID string) (*attention.Unit, error) {
	if unit, ok := s.units[subjectID]; ok {
		return unit, nil
	}
	unit, err := attention.NewUnit(s.cfg)
	if err != nil {
		return nil, err
	}
	s.units[subjectID] = unit
	return unit, nil
}
