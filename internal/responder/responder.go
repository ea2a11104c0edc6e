package responder

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"askgate/internal/intent"
	"askgate/internal/models"
)

// Responder turns a query plus conversation history into raw response text.
// Implementations absorb their own backend failures and hand back a
// descriptive in-band string instead, so the returned error is reserved for
// programming mistakes, not backend conditions.
type Responder interface {
	Generate(ctx context.Context, query string, history []models.Message) (string, error)
}

// Registry maps each intent category to the responder that serves it.
type Registry map[intent.Category]Responder

// Resolve returns the responder for a category.
func (r Registry) Resolve(category intent.Category) (Responder, bool) {
	responder, ok := r[category]
	return responder, ok
}

// historyMessages converts stored history into the LLM wire format.
func historyMessages(history []models.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		var role schema.RoleType
		switch msg.Role {
		case models.RoleUser:
			role = schema.User
		case models.RoleAssistant:
			role = schema.Assistant
		case models.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{Role: role, Content: msg.Content})
	}
	return messages
}
