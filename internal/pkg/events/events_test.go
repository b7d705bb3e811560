package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagency/internal/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, log: logger.Discard()}

	err := p.Publish(context.Background(), "BK1", BookingEvent{
		Type:        TypeBookingStatusChanged,
		BookingCode: "BK1",
		Status:      "confirmed",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "BK1", string(w.msgs[0].Key))

	var got BookingEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "confirmed", got.Status)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}, log: logger.Discard()}

	err := p.Publish(context.Background(), "BK1", BookingEvent{Type: TypeBookingCreated})
	assert.ErrorContains(t, err, "broker down")
}
