package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

type fakeTurnSender struct {
	mu      sync.Mutex
	calls   [][]domain.Message
	reply   string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeTurnSender) SendTurn(_ context.Context, messages []domain.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]domain.Message(nil), messages...))
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeTurnSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeHistory struct {
	mu      sync.Mutex
	initial []domain.Message
	saved   [][]domain.Message
	saveErr error
}

func (f *fakeHistory) Save(_ context.Context, _ string, messages []domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, append([]domain.Message(nil), messages...))
	return f.saveErr
}

func (f *fakeHistory) Load(_ context.Context, _ string) ([]domain.Message, error) {
	return f.initial, nil
}

func (f *fakeHistory) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func newTestController(t *testing.T, sender *fakeTurnSender, history *fakeHistory) *sessionController {
	t.Helper()

	c, err := NewSessionController(context.Background(), "session-1", sender, history, nil)
	require.NoError(t, err)
	return c
}

func TestAppend_SuccessAppendsAssistantReply(t *testing.T) {
	sender := &fakeTurnSender{reply: "the answer"}
	c := newTestController(t, sender, &fakeHistory{})

	err := c.Append(context.Background(), domain.NewUserMessage("a question"))

	require.NoError(t, err)
	messages := c.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, domain.MessageRoleAssistant, messages[1].Role)
	assert.Equal(t, "the answer", messages[1].Content)
	assert.Equal(t, domain.SessionStatusIdle, c.Status())
	assert.Nil(t, c.Alert())
}

func TestAppend_SendsEntireHistory(t *testing.T) {
	sender := &fakeTurnSender{reply: "second answer"}
	history := &fakeHistory{initial: []domain.Message{
		{ID: "user-1", Role: domain.MessageRoleUser, Content: "earlier"},
		{ID: "assistant-2", Role: domain.MessageRoleAssistant, Content: "before"},
	}}
	c := newTestController(t, sender, history)

	require.NoError(t, c.Append(context.Background(), domain.NewUserMessage("now")))

	require.Len(t, sender.calls, 1)
	assert.Len(t, sender.calls[0], 3)
	assert.Equal(t, "now", sender.calls[0][2].Content)
}

func TestAppend_FailureClassifiesAndAppendsNothing(t *testing.T) {
	sender := &fakeTurnSender{err: &domain.ProviderError{StatusCode: 429, RawMessage: "rate limit hit"}}
	c := newTestController(t, sender, &fakeHistory{})

	err := c.Append(context.Background(), domain.NewUserMessage("a question"))

	require.Error(t, err)
	assert.Len(t, c.Messages(), 1, "no assistant message on failure")
	assert.Equal(t, domain.SessionStatusIdle, c.Status())

	alert := c.Alert()
	require.NotNil(t, alert)
	assert.Equal(t, "Rate Limit Exceeded", alert.Title)
	assert.Equal(t, domain.ErrorKindRateLimit, alert.Kind)
	assert.True(t, alert.IsRetryable)
}

func TestAppend_WhileSendingAbortsInsteadOfQueueing(t *testing.T) {
	sender := &fakeTurnSender{
		reply:   "late reply",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c := newTestController(t, sender, &fakeHistory{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Append(context.Background(), domain.NewUserMessage("first"))
	}()

	<-sender.started
	assert.Equal(t, domain.SessionStatusSending, c.Status())

	require.NoError(t, c.Append(context.Background(), domain.NewUserMessage("second")))

	assert.Equal(t, 1, sender.callCount(), "no second request issued")
	assert.True(t, c.Aborted())
	assert.Equal(t, domain.SessionStatusIdle, c.Status())

	close(sender.release)
	<-done

	assert.False(t, c.Aborted(), "aborted flag cleared by the next successful send")
}

func TestReload_ResubmitsLastUserMessage(t *testing.T) {
	sender := &fakeTurnSender{reply: "again"}
	history := &fakeHistory{initial: []domain.Message{
		{ID: "user-1", Role: domain.MessageRoleUser, Content: "repeat me"},
	}}
	c := newTestController(t, sender, history)

	require.NoError(t, c.Reload(context.Background()))

	require.Len(t, sender.calls, 1)
	sent := sender.calls[0]
	assert.Equal(t, "repeat me", sent[len(sent)-1].Content)
	assert.Len(t, c.Messages(), 3, "history grows, it is not rewritten")
}

func TestReload_NoUserMessageIsNoop(t *testing.T) {
	sender := &fakeTurnSender{}
	history := &fakeHistory{initial: []domain.Message{
		{ID: "assistant-1", Role: domain.MessageRoleAssistant, Content: "orphan"},
	}}
	c := newTestController(t, sender, history)

	require.NoError(t, c.Reload(context.Background()))

	assert.Equal(t, 0, sender.callCount())
	assert.Len(t, c.Messages(), 1)
}

func TestAbort_IsLocalOnly(t *testing.T) {
	c := newTestController(t, &fakeTurnSender{}, &fakeHistory{})

	c.Abort()

	assert.True(t, c.Aborted())
	assert.Equal(t, domain.SessionStatusIdle, c.Status())
}

func TestAppend_PersistsHistoryAsynchronously(t *testing.T) {
	sender := &fakeTurnSender{reply: "persisted"}
	history := &fakeHistory{}
	c := newTestController(t, sender, history)

	require.NoError(t, c.Append(context.Background(), domain.NewUserMessage("save this")))

	assert.Eventually(t, func() bool {
		return history.saveCount() > 0
	}, time.Second, 10*time.Millisecond)

	history.mu.Lock()
	last := history.saved[len(history.saved)-1]
	history.mu.Unlock()
	assert.Len(t, last, 2, "latest snapshot includes the assistant reply")
}

func TestAppend_PersistFailureDoesNotRollBackState(t *testing.T) {
	sender := &fakeTurnSender{reply: "kept"}
	history := &fakeHistory{saveErr: assert.AnError}

	var mu sync.Mutex
	var notified []string
	c, err := NewSessionController(context.Background(), "session-1", sender, history,
		func(message string) {
			mu.Lock()
			notified = append(notified, message)
			mu.Unlock()
		})
	require.NoError(t, err)

	require.NoError(t, c.Append(context.Background(), domain.NewUserMessage("still here")))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(notified) > 0
	}, time.Second, 10*time.Millisecond)

	assert.Len(t, c.Messages(), 2, "in-memory history is the source of truth")
}
