package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"attention-monitor/internal/domain/entity"
	"attention-monitor/internal/domain/port"
)

const maxLineSize = 1 << 20

// JSONLSource читает кадры построчно (JSON Lines) из файла или stdin
type JSONLSource struct {
	scanner        *bufio.Scanner
	closer         io.Closer
	defaultSubject string
	line           int
	log            logrus.FieldLogger
}

// NewJSONLSource создаёт источник поверх произвольного reader
func NewJSONLSource(r io.Reader, defaultSubject string, log logrus.FieldLogger) *JSONLSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	src := &JSONLSource{
		scanner:        scanner,
		defaultSubject: defaultSubject,
		log:            log,
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// OpenJSONLSource открывает файл; "-" означает stdin
func OpenJSONLSource(path, defaultSubject string, log logrus.FieldLogger) (*JSONLSource, error) {
	if path == "-" {
		return NewJSONLSource(io.NopCloser(os.Stdin), defaultSubject, log), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frames file: %w", err)
	}
	return NewJSONLSource(f, defaultSubject, log), nil
}

// Next возвращает следующий корректный кадр. Битые строки пропускаются с предупреждением.
func (s *JSONLSource) Next(ctx context.Context) (*entity.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("read frames: %w", err)
			}
			return nil, io.EOF
		}
		s.line++

		data := bytes.TrimSpace(s.scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		frame, err := DecodeFrame(data, s.defaultSubject)
		if err != nil {
			s.log.WithError(err).WithField("line", s.line).Warn("skipping malformed frame")
			continue
		}
		return frame, nil
	}
}

// Close закрывает исходный reader
func (s *JSONLSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var _ port.FrameSource = (*JSONLSource)(nil)
