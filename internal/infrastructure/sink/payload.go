// Package sink доставляет сигналы во внешние системы.
package sink

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"attention-monitor/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SignalMessage сигналы одного кадра в виде, удобном подписчикам
type SignalMessage struct {
	Subject string         `json:"subject"`
	At      time.Time      `json:"at"`
	Signals map[string]int `json:"signals"`
}

func newSignalMessage(subjectID string, signals []entity.Signal, at time.Time) SignalMessage {
	msg := SignalMessage{
		Subject: subjectID,
		At:      at,
		Signals: make(map[string]int, len(signals)),
	}
	for _, s := range signals {
		msg.Signals[string(s.Kind)] = s.Value
	}
	return msg
}

func encodeSignals(subjectID string, signals []entity.Signal, at time.Time) ([]byte, error) {
	return json.Marshal(newSignalMessage(subjectID, signals, at))
}
