package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mkraskin/gemini-chat/pkg/domain"
	"github.com/mkraskin/gemini-chat/pkg/logger"
)

// persistInterval coalesces downstream side effects of rapid state changes
// to at most one run per interval; the latest snapshot always wins.
const persistInterval = 50 * time.Millisecond

type TurnSender interface {
	SendTurn(ctx context.Context, messages []domain.Message) (string, error)
}

type HistoryRepository interface {
	Save(ctx context.Context, sessionID string, messages []domain.Message) error
	Load(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// sessionController owns the client-side conversation state machine: the
// message list, the sending/aborted flags and the pending error alert. All
// mutation goes through it.
type sessionController struct {
	mu           sync.Mutex
	sessionID    string
	messages     []domain.Message
	initialCount int
	status       domain.SessionStatus
	aborted      bool
	alert        *domain.ErrorAlert

	turns   TurnSender
	history HistoryRepository
	notify  func(message string)

	persistThrottled func()
}

// NewSessionController hydrates the session from persisted history and
// returns an idle controller.
func NewSessionController(
	ctx context.Context,
	sessionID string,
	turns TurnSender,
	history HistoryRepository,
	notify func(message string),
) (*sessionController, error) {
	messages, err := history.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if notify == nil {
		notify = func(string) {}
	}

	c := &sessionController{
		sessionID:    sessionID,
		messages:     messages,
		initialCount: len(messages),
		status:       domain.SessionStatusIdle,
		turns:        turns,
		history:      history,
		notify:       notify,
	}

	debounced, _ := lo.NewDebounce(persistInterval, c.persistNow)
	c.persistThrottled = debounced

	return c, nil
}

// Append pushes a message and issues one turn with the entire updated
// history. Calling Append while a turn is in flight is interpreted as a
// request to abort the current turn, not to queue a second one.
func (c *sessionController) Append(ctx context.Context, message domain.Message) error {
	c.mu.Lock()
	if c.status == domain.SessionStatusSending {
		c.mu.Unlock()
		c.Abort()
		return nil
	}

	c.messages = append(c.messages, message)
	c.status = domain.SessionStatusSending
	history := append([]domain.Message(nil), c.messages...)
	c.mu.Unlock()

	c.persistThrottled()

	text, err := c.turns.SendTurn(ctx, history)

	c.mu.Lock()
	c.status = domain.SessionStatusIdle
	if err != nil {
		info := describeFailure(err)
		c.alert = &domain.ErrorAlert{
			Title:        alertTitle(info.Kind),
			Description:  info.Message,
			ProviderName: info.ProviderName,
			Kind:         info.Kind,
			IsRetryable:  info.IsRetryable,
		}
		c.mu.Unlock()

		slog.Error("chat request failed",
			"kind", string(info.Kind), "status", info.StatusCode, logger.Err(err))
		return err
	}

	c.aborted = false
	c.messages = append(c.messages, domain.NewAssistantMessage(text))
	c.mu.Unlock()

	c.persistThrottled()
	return nil
}

// Reload re-submits the most recent user message as a fresh turn. The
// message is appended again, so history grows rather than being rewritten.
// No-op when no user message exists.
func (c *sessionController) Reload(ctx context.Context) error {
	c.mu.Lock()
	var lastUser *domain.Message
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == domain.MessageRoleUser {
			lastUser = &c.messages[i]
			break
		}
	}
	if lastUser == nil {
		c.mu.Unlock()
		slog.Debug("no user message found to reload")
		return nil
	}
	message := *lastUser
	c.mu.Unlock()

	return c.Append(ctx, message)
}

// Abort stops waiting for the in-flight turn locally. The backend has no
// cancellation channel, so the remote call keeps running.
func (c *sessionController) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = domain.SessionStatusIdle
	c.aborted = true
	slog.Info("chat response aborted")
}

func (c *sessionController) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]domain.Message(nil), c.messages...)
}

func (c *sessionController) Status() domain.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

func (c *sessionController) Aborted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.aborted
}

func (c *sessionController) Alert() *domain.ErrorAlert {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.alert
}

func (c *sessionController) ClearAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.alert = nil
}

// persistNow snapshots the history and hands it to the persistence
// collaborator asynchronously. Failures never roll back in-memory state;
// they are logged and surfaced through the notifier.
func (c *sessionController) persistNow() {
	c.mu.Lock()
	if len(c.messages) <= c.initialCount {
		c.mu.Unlock()
		return
	}
	snapshot := append([]domain.Message(nil), c.messages...)
	c.mu.Unlock()

	go func() {
		if err := c.history.Save(context.Background(), c.sessionID, snapshot); err != nil {
			slog.Error("persisting chat history", logger.Err(err))
			c.notify("Failed to save chat history: " + err.Error())
		}
	}()
}
