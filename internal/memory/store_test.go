package memory

import (
	"context"
	"sync"
	"testing"

	"askgate/internal/models"
)

func TestInMemoryStoreAppendAndHistory(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	history, err := store.History(ctx, "c1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history))
	}

	err = store.Append(ctx, "c1",
		models.Message{Role: models.RoleUser, Content: "hi"},
		models.Message{Role: models.RoleAssistant, Content: "hello"},
	)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	history, err = store.History(ctx, "c1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Role != models.RoleUser || history[1].Role != models.RoleAssistant {
		t.Fatalf("unexpected roles: %v %v", history[0].Role, history[1].Role)
	}

	// other conversations stay isolated
	other, _ := store.History(ctx, "c2")
	if len(other) != 0 {
		t.Fatalf("expected conversation isolation, got %d entries", len(other))
	}
}

func TestInMemoryStoreHistoryIsCopy(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	_ = store.Append(ctx, "c1", models.Message{Role: models.RoleUser, Content: "original"})

	history, _ := store.History(ctx, "c1")
	history[0].Content = "mutated"

	again, _ := store.History(ctx, "c1")
	if again[0].Content != "original" {
		t.Fatalf("store history was mutated through a returned slice")
	}
}

// Concurrent read-modify-append cycles on the same conversation id must not
// interleave when serialized through Acquire.
func TestInMemoryStoreAcquireSerializes(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	const workers = 8
	const rounds = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				release := store.Acquire("shared")
				history, _ := store.History(ctx, "shared")
				expected := len(history)
				_ = store.Append(ctx, "shared",
					models.Message{Role: models.RoleUser, Content: "q"},
					models.Message{Role: models.RoleAssistant, Content: "a"},
				)
				after, _ := store.History(ctx, "shared")
				if len(after) != expected+2 {
					t.Errorf("interleaved append: had %d, now %d", expected, len(after))
				}
				release()
			}
		}()
	}
	wg.Wait()

	history, _ := store.History(ctx, "shared")
	if len(history) != workers*rounds*2 {
		t.Fatalf("expected %d entries, got %d", workers*rounds*2, len(history))
	}
}
