package domain

import (
	"fmt"
	"time"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

type Message struct {
	ID          string       `json:"id"`
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	RenderParts []RenderPart `json:"renderParts,omitempty"`
}

type Attachment struct {
	Name       string `json:"name"`
	MimeType   string `json:"mimeType"`
	InlineData string `json:"inlineData"`
}

const (
	RenderPartTypeText = "text"
	RenderPartTypeFile = "file"
)

type RenderPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// NewMessageID builds a role-prefixed, monotonic-ish message id.
func NewMessageID(role string) string {
	return fmt.Sprintf("%s-%d", role, time.Now().UnixMilli())
}

func NewUserMessage(content string) Message {
	return Message{
		ID:      NewMessageID(MessageRoleUser),
		Role:    MessageRoleUser,
		Content: content,
		RenderParts: []RenderPart{
			{Type: RenderPartTypeText, Text: content},
		},
	}
}

func NewAssistantMessage(content string) Message {
	return Message{
		ID:      NewMessageID(MessageRoleAssistant),
		Role:    MessageRoleAssistant,
		Content: content,
	}
}
