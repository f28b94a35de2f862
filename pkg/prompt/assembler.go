package prompt

import (
	"github.com/samber/lo"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

// historyWindow bounds how many trailing prior messages are sent to the
// model. Older turns are silently truncated, no summarization.
const historyWindow = 10

type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the bounded provider context for a turn: the fixed system
// preamble pair followed by the trailing history window, excluding the newest
// message (the one currently being answered). System-role messages never
// appear as standalone turns; the system prompt enters only via the preamble.
func (a *Assembler) Assemble(history []domain.Message) []domain.ProviderTurn {
	turns := []domain.ProviderTurn{
		{Role: domain.ProviderRoleUser, Text: SystemPrompt},
		{Role: domain.ProviderRoleModel, Text: SystemAck},
	}

	filtered := lo.Filter(history, func(m domain.Message, _ int) bool {
		return m.Role != domain.MessageRoleSystem
	})

	start := len(filtered) - historyWindow
	if start < 0 {
		start = 0
	}
	end := len(filtered) - 1
	if end < start {
		return turns
	}

	for _, m := range filtered[start:end] {
		role := domain.ProviderRoleModel
		if m.Role == domain.MessageRoleUser {
			role = domain.ProviderRoleUser
		}
		turns = append(turns, domain.ProviderTurn{Role: role, Text: m.Content})
	}

	return turns
}
