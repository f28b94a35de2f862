package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

type chatHistoryRow struct {
	bun.BaseModel `bun:"table:chat_history"`

	SessionID string          `bun:"session_id,pk"`
	Messages  json.RawMessage `bun:"messages,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

type historyRepository struct {
	db *bun.DB
}

func NewHistoryRepository(db *bun.DB) *historyRepository {
	return &historyRepository{db: db}
}

// Save upserts the full message history of a session. The in-memory list is
// the source of truth for the active session; this is a best-effort snapshot.
func (h *historyRepository) Save(ctx context.Context, sessionID string, messages []domain.Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshaling messages: %w", err)
	}

	row := &chatHistoryRow{
		SessionID: sessionID,
		Messages:  data,
		UpdatedAt: time.Now(),
	}

	if _, err := h.db.NewInsert().
		Model(row).
		On("CONFLICT (session_id) DO UPDATE").
		Set("messages = EXCLUDED.messages").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("saving chat history: %w", err)
	}

	return nil
}

// Load returns the persisted history for a session, or an empty history when
// the session has never been saved.
func (h *historyRepository) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	row := &chatHistoryRow{}

	err := h.db.NewSelect().
		Model(row).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}

	var messages []domain.Message
	if err := json.Unmarshal(row.Messages, &messages); err != nil {
		return nil, fmt.Errorf("unmarshaling messages: %w", err)
	}

	return messages, nil
}
