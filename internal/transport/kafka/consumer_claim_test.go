package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/service/orders"
	testlog "courier-dispatch/internal/testutil"
)

type fakeSession struct {
	ctx context.Context

	mu     sync.Mutex
	marked int
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(*sarama.ConsumerMessage, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked++
}

func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "" }
func (s *fakeSession) GenerationID() int32                      { return 0 }

func (s *fakeSession) MarkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marked
}

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c fakeClaim) Topic() string              { return "t" }
func (c fakeClaim) Partition() int32           { return 0 }
func (c fakeClaim) InitialOffset() int64       { return 0 }
func (c fakeClaim) HighWaterMarkOffset() int64 { return 0 }
func (c fakeClaim) Messages() <-chan *sarama.ConsumerMessage {
	return c.ch
}

func TestConsumeClaim_BadJSON_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			t.Fatal("handler must not be called")
			return nil
		},
	}
	h := &groupHandler{c: c}

	sess := &fakeSession{ctx: context.Background()}
	msgCh := make(chan *sarama.ConsumerMessage, 1)
	msgCh <- &sarama.ConsumerMessage{Value: []byte("not-json")}
	close(msgCh)

	err := h.ConsumeClaim(sess, fakeClaim{ch: msgCh})
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())

	entries := rec.Entries()
	require.True(t, hasMsg(entries, "kafka bad json"))
}

func TestConsumeClaim_EmptyOrderID_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	calls := 0

	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			calls++
			return nil
		},
	}
	h := &groupHandler{c: c}

	dto := EventDTO{
		OrderID: "   ",
		Status:  "created",
	}
	b, _ := json.Marshal(dto)

	sess := &fakeSession{ctx: context.Background()}
	msgCh := make(chan *sarama.ConsumerMessage, 1)
	msgCh <- &sarama.ConsumerMessage{Value: b}
	close(msgCh)

	err := h.ConsumeClaim(sess, fakeClaim{ch: msgCh})
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())
	require.Equal(t, 0, calls)

	require.True(t, hasMsg(rec.Entries(), "kafka empty order_id"))
}

func TestConsumeClaim_HandlerError_SkipsButMarks(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	sentinel := errors.New("boom")

	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			return sentinel
		},
	}
	h := &groupHandler{c: c}

	dto := EventDTO{OrderID: "o1", Status: "created", CreatedAt: time.Now().UTC()}
	b, _ := json.Marshal(dto)

	sess := &fakeSession{ctx: context.Background()}
	msgCh := make(chan *sarama.ConsumerMessage, 1)
	msgCh <- &sarama.ConsumerMessage{Value: b}
	close(msgCh)

	err := h.ConsumeClaim(sess, fakeClaim{ch: msgCh})
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())
	require.True(t, hasMsg(rec.Entries(), "kafka handle failed, skipping message"))
}

func TestConsumeClaim_Success_Marks(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	calls := 0

	c := &Consumer{
		logger: rec.Logger(),
		handler: func(_ context.Context, ev orders.Event) error {
			calls++
			require.Equal(t, "o1", ev.OrderID)
			return nil
		},
	}
	h := &groupHandler{c: c}

	dto := EventDTO{OrderID: "o1", Status: "created"}
	b, _ := json.Marshal(dto)

	sess := &fakeSession{ctx: context.Background()}
	msgCh := make(chan *sarama.ConsumerMessage, 1)
	msgCh <- &sarama.ConsumerMessage{Value: b}
	close(msgCh)

	err := h.ConsumeClaim(sess, fakeClaim{ch: msgCh})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, sess.MarkedCount())
}

func TestConsumeClaim_PermanentError_Marks(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			return Permanent(errors.New("no payload"))
		},
	}
	h := &groupHandler{c: c}

	b, _ := json.Marshal(EventDTO{OrderID: "o1", Status: "created"})
	sess := &fakeSession{ctx: context.Background()}
	msgCh := make(chan *sarama.ConsumerMessage, 1)
	msgCh <- &sarama.ConsumerMessage{Value: b}
	close(msgCh)

	require.NoError(t, h.ConsumeClaim(sess, fakeClaim{ch: msgCh}))
	require.Equal(t, 1, sess.MarkedCount())
	require.True(t, hasMsg(rec.Entries(), "kafka permanent error, skipping message"))
}

func TestConsumeClaim_ShutdownLeavesMessage(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	c := &Consumer{
		logger: testlog.New().Logger(),
		handler: func(context.Context, orders.Event) error {
			cancel()
			return context.Canceled
		},
	}
	h := &groupHandler{c: c}

	b, _ := json.Marshal(EventDTO{OrderID: "o1", Status: "completed"})
	sess := &fakeSession{ctx: ctx}
	msgCh := make(chan *sarama.ConsumerMessage, 1)
	msgCh <- &sarama.ConsumerMessage{Value: b}
	close(msgCh)

	require.NoError(t, h.ConsumeClaim(sess, fakeClaim{ch: msgCh}))
	require.Zero(t, sess.MarkedCount())
}

func TestConsumeClaim_DispatchPayloadReachesHandler(t *testing.T) {
	t.Parallel()

	var got orders.Event
	c := &Consumer{
		logger: testlog.New().Logger(),
		handler: func(_ context.Context, ev orders.Event) error {
			got = ev
			return nil
		},
	}
	h := &groupHandler{c: c}

	raw := []byte(`{"order_id":"o7","status":"created","dispatch":{"customer":{"id":"u1","latitude":41.3,"longitude":69.2},"product":{"name":"Sut","quantity":2}}}`)
	sess := &fakeSession{ctx: context.Background()}
	msgCh := make(chan *sarama.ConsumerMessage, 1)
	msgCh <- &sarama.ConsumerMessage{Value: raw}
	close(msgCh)

	require.NoError(t, h.ConsumeClaim(sess, fakeClaim{ch: msgCh}))
	require.NotNil(t, got.Dispatch)
	require.Equal(t, "o7", got.Dispatch.OrderID)
	require.Equal(t, 2.0, got.Dispatch.Product.Quantity)
	require.NotNil(t, got.Dispatch.Customer.Location)
}

func hasMsg(entries []testlog.Entry, msg string) bool {
	for _, e := range entries {
		if e.Msg == msg {
			return true
		}
	}
	return false
}
