package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	source := &stubSource{messages: []Message{
		{EventID: 1, EventType: "member.joined", AggregateType: "member", AggregateID: 7, DedupeKey: "member:7:member.joined", Payload: json.RawMessage(`{"member_id":7}`)},
		{EventID: 2, EventType: "payment.recorded", AggregateType: "payment", AggregateID: 3, DedupeKey: "payment:3:payment.recorded", Payload: json.RawMessage(`{"payment_id":3}`)},
	}}
	writer := &stubWriter{}
	before := testutil.ToFloat64(deliveredCounter)

	d := NewDispatcher(source, writer, Config{Topic: "gym_record_events"}, nil)
	delivered, err := d.ProcessBatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, delivered)

	require.Equal(t, "gym_record_events", writer.topic)
	require.Len(t, writer.messages, 2)
	require.Equal(t, "member:7", string(writer.messages[0].Key))
	require.JSONEq(t, `{"member_id":7}`, string(writer.messages[0].Value))
	require.Equal(t, "event_type", writer.messages[0].Headers[0].Key)
	require.Equal(t, "member.joined", string(writer.messages[0].Headers[0].Value))

	require.Equal(t, []int64{1, 2}, source.published)
	require.Empty(t, source.failed)
	require.Equal(t, before+2, testutil.ToFloat64(deliveredCounter))
}

func TestProcessBatchMarksFailedOnDeliveryError(t *testing.T) {
	source := &stubSource{messages: []Message{{EventID: 9, EventType: "trainer.added", AggregateType: "trainer", AggregateID: 1}}}
	writer := &stubWriter{err: errors.New("broker down")}

	d := NewDispatcher(source, writer, Config{Topic: "gym_record_events", MaxAttempts: 3}, nil)
	delivered, err := d.ProcessBatch(context.Background())
	require.Error(t, err)
	require.Zero(t, delivered)

	require.Empty(t, source.published)
	require.Equal(t, []int64{9}, source.failed)
	require.Equal(t, "broker down", source.reason)
	require.Equal(t, 3, source.maxAttempts)
}

func TestProcessBatchNoopWhenEmpty(t *testing.T) {
	source := &stubSource{}
	writer := &stubWriter{}

	d := NewDispatcher(source, writer, Config{Topic: "gym_record_events"}, nil)
	delivered, err := d.ProcessBatch(context.Background())
	require.NoError(t, err)
	require.Zero(t, delivered)
	require.Zero(t, writer.calls)
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(&stubSource{}, &stubWriter{}, Config{Topic: "t", PollInterval: 10 * time.Millisecond}, nil)

	go d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

type stubSource struct {
	messages    []Message
	published   []int64
	failed      []int64
	reason      string
	maxAttempts int
}

func (s *stubSource) ClaimOutbox(_ context.Context, limit int, _ time.Duration) ([]Message, error) {
	if len(s.messages) > limit {
		out := s.messages[:limit]
		s.messages = s.messages[limit:]
		return out, nil
	}
	out := s.messages
	s.messages = nil
	return out, nil
}

func (s *stubSource) MarkPublished(_ context.Context, ids []int64) error {
	s.published = append(s.published, ids...)
	return nil
}

func (s *stubSource) MarkFailed(_ context.Context, ids []int64, reason string, maxAttempts int) error {
	s.failed = append(s.failed, ids...)
	s.reason = reason
	s.maxAttempts = maxAttempts
	return nil
}

type stubWriter struct {
	calls    int
	topic    string
	messages []kafka.Message
	err      error
}

func (w *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	w.calls++
	w.topic = topic
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestDrainStopsWhenEmpty(t *testing.T) {
	source := &stubSource{}
	for i := int64(1); i <= 5; i++ {
		source.messages = append(source.messages, Message{EventID: i, AggregateType: "payment", AggregateID: i})
	}
	writer := &stubWriter{}

	d := NewDispatcher(source, writer, Config{Topic: "t", BatchSize: 2}, nil)
	delivered, err := d.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, delivered)
	require.Equal(t, 3, writer.calls)
	require.Equal(t, []int64{1, 2, 3, 4, 5}, source.published)
}

func TestRequeueCountsParkedMessages(t *testing.T) {
	before := testutil.ToFloat64(requeuedCounter)
	n, err := Requeue(context.Background(), stubRequeuer{n: 3}, 10, nil)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, before+3, testutil.ToFloat64(requeuedCounter))

	_, err = Requeue(context.Background(), stubRequeuer{err: errors.New("down")}, 10, nil)
	require.EqualError(t, err, "down")
}

type stubRequeuer struct {
	n   int
	err error
}

func (r stubRequeuer) RequeueParked(context.Context, int) (int, error) { return r.n, r.err }
