package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandevgo/coworker/internal/core"
)

func newTestDB(t *testing.T) (*ChatRepo, *FactRepo) {
	t.Helper()
	ctx := context.Background()

	db, err := NewDB(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewChatRepo(db), NewFactRepo(db)
}

func TestChatRepo_AddTurnCreatesChat(t *testing.T) {
	ctx := context.Background()
	chats, _ := newTestDB(t)

	if err := chats.AddTurn(ctx, "chat_abc", core.RoleUser, "hello"); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}

	info, err := chats.ChatInfo(ctx, "chat_abc")
	if err != nil {
		t.Fatalf("ChatInfo: %v", err)
	}
	if info.Title != "New Conversation" {
		t.Errorf("expected default title, got %q", info.Title)
	}
}

func TestChatRepo_RecentTurnsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	chats, _ := newTestDB(t)

	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		if err := chats.AddTurn(ctx, "c1", role, c); err != nil {
			t.Fatalf("AddTurn: %v", err)
		}
	}

	turns, err := chats.RecentTurns(ctx, "c1", 3)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	// Most recent three, oldest first
	want := []string{"two", "three", "four"}
	for i, w := range want {
		if turns[i].Content != w {
			t.Errorf("turn %d: expected %q, got %q", i, w, turns[i].Content)
		}
	}
}

func TestChatRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	chats, _ := newTestDB(t)

	if err := chats.CreateChat(ctx, "c1", "Test"); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if err := chats.AddTurn(ctx, "c1", core.RoleUser, "hi"); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}
	if err := chats.AddTurn(ctx, "c1", core.RoleAssistant, "hello"); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}

	if err := chats.DeleteChat(ctx, "c1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	n, err := chats.TurnCount(ctx, "c1")
	if err != nil {
		t.Fatalf("TurnCount: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 turns after cascade delete, got %d", n)
	}
}

func TestChatRepo_DeleteMissingReportsNotFound(t *testing.T) {
	ctx := context.Background()
	chats, _ := newTestDB(t)

	err := chats.DeleteChat(ctx, "nope")
	if err != core.ErrNotFound {
		t.Errorf("expected core.ErrNotFound, got %v", err)
	}
}

func TestChatRepo_AddTurnBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	chats, _ := newTestDB(t)

	if err := chats.CreateChat(ctx, "c1", "Test"); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	before, err := chats.ChatInfo(ctx, "c1")
	if err != nil {
		t.Fatalf("ChatInfo: %v", err)
	}

	if err := chats.AddTurn(ctx, "c1", core.RoleUser, "hi"); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}
	after, err := chats.ChatInfo(ctx, "c1")
	if err != nil {
		t.Fatalf("ChatInfo: %v", err)
	}

	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestChatRepo_ListChatsIncludesLastMessage(t *testing.T) {
	ctx := context.Background()
	chats, _ := newTestDB(t)

	if err := chats.AddTurn(ctx, "c1", core.RoleUser, "first"); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}
	if err := chats.AddTurn(ctx, "c1", core.RoleAssistant, "latest"); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}

	list, err := chats.ListChats(ctx)
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(list))
	}
	if list[0].LastMessage != "latest" {
		t.Errorf("expected last message %q, got %q", "latest", list[0].LastMessage)
	}
}

func TestFactRepo_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	_, facts := newTestDB(t)

	if err := facts.Set(ctx, core.FactName, "Ana"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := facts.Set(ctx, core.FactName, "Sam"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := facts.Get(ctx, core.FactName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || v != "Sam" {
		t.Errorf("expected (Sam, true), got (%q, %v)", v, ok)
	}

	all, err := facts.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected a single fact, got %d", len(all))
	}
}

func TestFactRepo_DeleteReportsExistence(t *testing.T) {
	ctx := context.Background()
	_, facts := newTestDB(t)

	if err := facts.Set(ctx, core.FactAge, "45"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	deleted, err := facts.Delete(ctx, core.FactAge)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("expected delete of existing key to report true")
	}

	deleted, err = facts.Delete(ctx, core.FactAge)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Error("expected delete of missing key to report false")
	}
}
