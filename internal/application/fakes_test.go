package app

import (
	"context"
	"errors"
	"io"

	"attention-monitor/internal/domain/entity"
)

type sliceSource struct {
	frames []*entity.Frame
	closed bool
}

func (s *sliceSource) Next(ctx context.Context) (*entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.frames) == 0 {
		return nil, io.EOF
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

type recordingSink struct {
	batches [][]entity.Signal
}

func (r *recordingSink) Publish(ctx context.Context, subjectID string, signals []entity.Signal) error {
	r.batches = append(r.batches, signals)
	return nil
}

type failingSink struct{}

func (failingSink) Publish(ctx context.Context, subjectID string, signals []entity.Signal) error {
	return errors.New("connection refused")
}

func face() entity.Keypoints {
	return entity.Keypoints{
		entity.NoseBridge:     {X: 100, Y: 100},
		entity.NoseTip:        {X: 100, Y: 150},
		entity.BrowInnerLeft:  {X: 80, Y: 95},
		entity.BrowInnerRight: {X: 120, Y: 95},
		entity.JawLeft:        {X: 40, Y: 120},
		entity.JawRight:       {X: 160, Y: 120},
	}
}
