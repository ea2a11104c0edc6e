package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"askgate/internal/envelope"
	"askgate/internal/intent"
	"askgate/internal/memory"
	"askgate/internal/models"
	"askgate/internal/responder"
)

// Query is one inbound question bound to a conversation.
type Query struct {
	Text           string
	ConversationID string
}

var (
	ErrEmptyQuery          = errors.New("query text cannot be empty")
	ErrEmptyConversationID = errors.New("conversation id cannot be empty")
)

const defaultMaxConcurrent = 32

// Gateway orchestrates one dispatch: classify, resolve the responder, decode
// the raw result, and maintain the conversation history invariant (text
// answers append exactly one user/assistant pair; image and table results
// leave history untouched).
type Gateway struct {
	store      memory.Store
	responders responder.Registry
	sem        *semaphore.Weighted
}

// New builds the gateway. maxConcurrent bounds simultaneous responder
// invocations, since every responder call is a high-latency backend round
// trip.
func New(store memory.Store, responders responder.Registry, maxConcurrent int) *Gateway {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Gateway{
		store:      store,
		responders: responders,
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Handle serves one query end to end. Same-conversation dispatches are
// serialized by the store's per-key lock; distinct conversations run in
// parallel.
func (g *Gateway) Handle(ctx context.Context, q Query) (envelope.Envelope, error) {
	if strings.TrimSpace(q.Text) == "" {
		return envelope.Envelope{}, ErrEmptyQuery
	}
	if q.ConversationID == "" {
		return envelope.Envelope{}, ErrEmptyConversationID
	}

	release := g.store.Acquire(q.ConversationID)
	defer release()

	history, err := g.store.History(ctx, q.ConversationID)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("load history: %w", err)
	}

	category := intent.Classify(q.Text)
	resp, ok := g.responders.Resolve(category)
	if !ok {
		return envelope.Envelope{}, fmt.Errorf("no responder for category %s", category)
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return envelope.Envelope{}, fmt.Errorf("acquire dispatch slot: %w", err)
	}
	raw, err := resp.Generate(ctx, q.Text, history)
	g.sem.Release(1)
	if err != nil {
		// responders convert backend failures in-band; anything that still
		// escapes is surfaced as a text answer rather than a transport error
		log.Printf("responder %s failed: %v", category, err)
		raw = fmt.Sprintf("Something went wrong answering this question: %v", err)
	}

	env := envelope.Decode(raw)
	if env.Kind != envelope.KindText {
		return env, nil
	}

	env.Body = envelope.CleanText(env.Body)
	now := time.Now().UTC()
	err = g.store.Append(ctx, q.ConversationID,
		models.Message{Role: models.RoleUser, Content: q.Text, CreatedAt: now},
		models.Message{Role: models.RoleAssistant, Content: env.Body, CreatedAt: now},
	)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("append history: %w", err)
	}
	return env, nil
}
