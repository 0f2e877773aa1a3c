package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSink_LevelFollowsUrgency(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewLogSink(logger)

	require.NoError(t, sink.Notify(context.Background(), Notification{Title: "overdue", Urgency: UrgencyHigh, Count: 2}))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "count=2")

	buf.Reset()
	require.NoError(t, sink.Notify(context.Background(), Notification{Title: "soon", Urgency: UrgencyMedium, Count: 1}))
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestFanout_DeliversPastFailures(t *testing.T) {
	var delivered []string
	failing := SinkFunc(func(ctx context.Context, n Notification) error {
		return errors.New("broker down")
	})
	recording := SinkFunc(func(ctx context.Context, n Notification) error {
		delivered = append(delivered, n.Title)
		return nil
	})

	err := Fanout{failing, nil, recording}.Notify(context.Background(), Notification{Title: "t"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, []string{"t"}, delivered)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, Fanout{}.Notify(context.Background(), Notification{}))
}
