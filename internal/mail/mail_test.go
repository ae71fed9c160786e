package mail

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func testMessage() Message {
	return Message{FromName: "Book Vault", FromEmail: "no-reply@x.com", To: "ann@x.com", Subject: "Hi", HTML: "<p>hi</p>"}
}

func TestBrevoSender_Send(t *testing.T) {
	var got brevoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key-123", r.Header.Get("api-key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewBrevoSender(BrevoConfig{APIKey: "key-123", URL: srv.URL}, zap.NewNop())
	require.NoError(t, s.Send(context.Background(), testMessage()))

	assert.Equal(t, "no-reply@x.com", got.Sender.Email)
	assert.Equal(t, "Book Vault", got.Sender.Name)
	require.Len(t, got.To, 1)
	assert.Equal(t, "ann@x.com", got.To[0].Email)
	assert.Equal(t, "<p>hi</p>", got.HTMLContent)
}

func TestBrevoSender_ErrorStatusAndBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	s := NewBrevoSender(BrevoConfig{APIKey: "bad", URL: srv.URL, MaxFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		err := s.Send(context.Background(), testMessage())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	}

	err := s.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSenders_RejectIncompleteMessage(t *testing.T) {
	senders := map[string]Sender{
		"brevo": NewBrevoSender(BrevoConfig{APIKey: "k", URL: "http://127.0.0.1:1"}, zap.NewNop()),
		"log":   NewLogSender(zap.NewNop()),
		"queue": NewQueueSender(&fakePublisher{}),
	}
	for name, s := range senders {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Send(context.Background(), Message{To: "ann@x.com"}))
		})
	}
}

type fakePublisher struct {
	published []any
	err       error
}

func (p *fakePublisher) PublishJSON(_ context.Context, v any) error {
	p.published = append(p.published, v)
	return p.err
}

func TestQueueSenderAndWorker(t *testing.T) {
	pub := &fakePublisher{}
	require.NoError(t, NewQueueSender(pub).Send(context.Background(), testMessage()))
	require.Len(t, pub.published, 1)

	body, err := json.Marshal(pub.published[0])
	require.NoError(t, err)

	transport := &recordingSender{}
	worker := NewQueueWorker(transport, zap.NewNop())
	require.NoError(t, worker.Handle(amqp.Delivery{Body: body}))
	require.Len(t, transport.msgs, 1)
	assert.Equal(t, testMessage(), transport.msgs[0])

	assert.Error(t, worker.Handle(amqp.Delivery{Body: []byte("{not json")}))

	transport.err = errors.New("provider down")
	assert.Error(t, worker.Handle(amqp.Delivery{Body: body}))

	pub.err = errors.New("broker gone")
	assert.Error(t, NewQueueSender(pub).Send(context.Background(), testMessage()))
}

func TestNotifier(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, NotifierConfig{
		FromEmail:   "no-reply@x.com",
		FromName:    "Book Vault",
		FrontendURL: "https://books.example.com",
	})

	link := n.VerificationLink("ann@x.com", "abc123")
	assert.Equal(t, "https://books.example.com/models/verifyemail?email=ann%40x.com&token=abc123", link)

	require.NoError(t, n.SendVerificationEmail(context.Background(), "ann@x.com", "Ann", "abc123"))
	require.NoError(t, n.SendPasswordResetOTP(context.Background(), "ann@x.com", "Ann", "654321"))
	require.Len(t, sender.msgs, 2)

	verify := sender.msgs[0]
	assert.Equal(t, "ann@x.com", verify.To)
	assert.Equal(t, "no-reply@x.com", verify.FromEmail)
	assert.Contains(t, verify.Subject, "Ann")
	assert.Contains(t, verify.HTML, "token=abc123")

	reset := sender.msgs[1]
	assert.Contains(t, reset.HTML, "654321")
	assert.Contains(t, reset.HTML, "5 minutes")
	assert.True(t, strings.HasPrefix(reset.Subject, "Reset Your Book Vault Password"))
}

func TestNotifier_EscapesName(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, NotifierConfig{FrontendURL: "https://x"})
	require.NoError(t, n.SendPasswordResetOTP(context.Background(), "a@x.com", "<script>", "111111"))
	assert.NotContains(t, sender.msgs[0].HTML, "<script>")
}
