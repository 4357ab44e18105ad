package session

import (
	"context"
	"testing"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, "user-1", "token-a"); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := store.Save(ctx, "user-1", "token-b"); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := store.Save(ctx, "user-2", "token-c"); err != nil {
		t.Fatalf("save error: %v", err)
	}

	userID, err := store.Find(ctx, "token-a")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %s", userID)
	}

	tokens, err := store.TokensByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("tokens error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(tokens))
	}

	if err := store.DeleteByUser(ctx, "user-1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := store.Find(ctx, "token-a"); err != ErrNotFound {
		t.Fatalf("expected deleted token to be unknown, got %v", err)
	}
	if _, err := store.Find(ctx, "token-b"); err != ErrNotFound {
		t.Fatalf("expected deleted token to be unknown, got %v", err)
	}

	// Other users' sessions are untouched.
	if _, err := store.Find(ctx, "token-c"); err != nil {
		t.Fatalf("expected user-2 session to survive, got %v", err)
	}
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Find(context.Background(), "never-saved"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
