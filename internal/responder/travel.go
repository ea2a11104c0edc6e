package responder

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"askgate/internal/llm"
	"askgate/internal/models"
)

const travelPersonaPrompt = "You are a professional travel agent. " +
	"Engage in a conversational chat style and ask clarifying questions before planning: " +
	"headcount, budget, number of days, travel dates, travel mode, starting city, and preferred activities. " +
	"Once enough information is gathered, provide a structured day-wise itinerary with transport, " +
	"accommodation type, logistics, and cost estimates that respect the user's budget. " +
	"Do not answer non-travel questions."

// TravelResponder forwards the query to the LLM under a travel-agent persona,
// with the prior conversation so clarifying-question exchanges work.
type TravelResponder struct {
	llm llm.Completer
}

func NewTravelResponder(completer llm.Completer) *TravelResponder {
	return &TravelResponder{llm: completer}
}

func (r *TravelResponder) Generate(ctx context.Context, query string, history []models.Message) (string, error) {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, &schema.Message{Role: schema.System, Content: travelPersonaPrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, &schema.Message{Role: schema.User, Content: query})

	answer, err := r.llm.Chat(ctx, messages)
	if err != nil {
		return fmt.Sprintf("Travel assistant error: %v", err), nil
	}
	return answer, nil
}
