package stream

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"attention-monitor/internal/domain/entity"
)

func face68JSON() string {
	parts := make([]string, entity.Dlib68Points)
	for i := range parts {
		parts[i] = fmt.Sprintf("[%d,%d]", i, i+100)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestDecodeFrame_Face68AndLandmarks(t *testing.T) {
	data := `{"subject":"minsu","face68":` + face68JSON() + `,"landmarks":{"left_ear":{"x":5,"y":6}},"faces":[{"x":1,"y":2,"w":3,"h":4}]}`

	frame, err := DecodeFrame([]byte(data), "default")
	require.NoError(t, err)
	require.Equal(t, "minsu", frame.SubjectID)
	require.Equal(t, entity.Point{X: 27, Y: 127}, frame.Keypoints[entity.NoseBridge])
	require.Equal(t, entity.Point{X: 5, Y: 6}, frame.Keypoints[entity.LeftEar])
	require.Equal(t, []entity.FaceBox{{X: 1, Y: 2, Width: 3, Height: 4}}, frame.Faces)
	require.True(t, frame.SubjectPresent())
}

func TestDecodeFrame_NoSubjectDetected(t *testing.T) {
	frame, err := DecodeFrame([]byte(`{}`), "minsu")
	require.NoError(t, err)
	require.Equal(t, "minsu", frame.SubjectID)
	require.False(t, frame.SubjectPresent())
}

func TestDecodeFrame_Errors(t *testing.T) {
	_, err := DecodeFrame([]byte(`{"face68":[[1,2]]}`), "minsu")
	require.Error(t, err)

	_, err = DecodeFrame([]byte(`{}`), "")
	require.Error(t, err)

	_, err = DecodeFrame([]byte(`not json`), "minsu")
	require.Error(t, err)
}

func TestEncodeFrame_RoundTrip(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	in := &entity.Frame{
		SubjectID:  "minsu",
		CapturedAt: at,
		Keypoints:  entity.Keypoints{entity.NoseTip: {X: 1, Y: 2}},
	}
	data, err := EncodeFrame(in)
	require.NoError(t, err)

	out, err := DecodeFrame(data, "")
	require.NoError(t, err)
	require.Equal(t, in.Keypoints, out.Keypoints)
	require.True(t, at.Equal(out.CapturedAt))
}

func TestJSONLSource_SkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"landmarks":{"nose_tip":{"x":1,"y":2}}}`,
		``,
		`{broken`,
		`{"subject":"other"}`,
	}, "\n")
	logger, hook := logtest.NewNullLogger()
	src := NewJSONLSource(strings.NewReader(input), "minsu", logger)
	ctx := context.Background()

	frame, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "minsu", frame.SubjectID)
	require.True(t, frame.SubjectPresent())

	frame, err = src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "other", frame.SubjectID)
	require.False(t, frame.SubjectPresent())
	require.Len(t, hook.AllEntries(), 1)

	_, err = src.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, src.Close())
}

func TestJSONLSource_Cancelled(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	src := NewJSONLSource(strings.NewReader(`{}`), "minsu", logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecodeFrame_HeadPose(t *testing.T) {
	frame, err := DecodeFrame([]byte(`{"subject":"minsu","head_pose":-52}`), "")
	require.NoError(t, err)
	require.Equal(t, &entity.HeadPose{Angle: -52}, frame.HeadPose)

	data, err := EncodeFrame(frame)
	require.NoError(t, err)
	require.Contains(t, string(data), `"head_pose":-52`)

	frame, err = DecodeFrame([]byte(`{"subject":"minsu"}`), "")
	require.NoError(t, err)
	require.Nil(t, frame.HeadPose)
}
