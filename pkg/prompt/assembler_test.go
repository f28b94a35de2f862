package prompt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

func historyOf(n int) []domain.Message {
	msgs := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		role := domain.MessageRoleUser
		if i%2 == 1 {
			role = domain.MessageRoleAssistant
		}
		msgs = append(msgs, domain.Message{
			ID:      fmt.Sprintf("%s-%d", role, i),
			Role:    role,
			Content: fmt.Sprintf("message %d", i),
		})
	}
	return msgs
}

func TestAssemble_PrependsPreamblePair(t *testing.T) {
	turns := NewAssembler().Assemble(nil)

	require.Len(t, turns, 2)
	assert.Equal(t, domain.ProviderRoleUser, turns[0].Role)
	assert.Equal(t, SystemPrompt, turns[0].Text)
	assert.Equal(t, domain.ProviderRoleModel, turns[1].Role)
	assert.Equal(t, SystemAck, turns[1].Text)
}

func TestAssemble_TruncatesLongHistory(t *testing.T) {
	turns := NewAssembler().Assemble(historyOf(15))

	// Preamble pair plus the last 9 of the first 14 messages; the newest
	// message is answered separately and never part of the history window.
	require.Len(t, turns, 2+9)
	assert.Equal(t, "message 5", turns[2].Text)
	assert.Equal(t, "message 13", turns[len(turns)-1].Text)
}

func TestAssemble_ExcludesNewestMessage(t *testing.T) {
	turns := NewAssembler().Assemble(historyOf(3))

	require.Len(t, turns, 2+2)
	assert.Equal(t, "message 1", turns[len(turns)-1].Text)
}

func TestAssemble_SingleMessageHistoryYieldsPreambleOnly(t *testing.T) {
	turns := NewAssembler().Assemble(historyOf(1))

	assert.Len(t, turns, 2)
}

func TestAssemble_DropsSystemMessages(t *testing.T) {
	history := []domain.Message{
		{ID: "system-0", Role: domain.MessageRoleSystem, Content: "legacy system prompt"},
		{ID: "user-1", Role: domain.MessageRoleUser, Content: "hi"},
		{ID: "assistant-2", Role: domain.MessageRoleAssistant, Content: "hello"},
		{ID: "user-3", Role: domain.MessageRoleUser, Content: "newest"},
	}

	turns := NewAssembler().Assemble(history)

	require.Len(t, turns, 2+2)
	for _, turn := range turns {
		assert.NotEqual(t, "legacy system prompt", turn.Text)
	}
}

func TestAssemble_MapsRoles(t *testing.T) {
	history := []domain.Message{
		{ID: "user-0", Role: domain.MessageRoleUser, Content: "question"},
		{ID: "assistant-1", Role: domain.MessageRoleAssistant, Content: "answer"},
		{ID: "user-2", Role: domain.MessageRoleUser, Content: "newest"},
	}

	turns := NewAssembler().Assemble(history)

	require.Len(t, turns, 4)
	assert.Equal(t, domain.ProviderRoleUser, turns[2].Role)
	assert.Equal(t, domain.ProviderRoleModel, turns[3].Role)
}
