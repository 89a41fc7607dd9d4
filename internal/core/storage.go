package core

import "context"

// FactRepository is the durable key-to-value map of user facts. At most one
// value is stored per key; writes overwrite. The store serializes conflicting
// writes to the same key.
type FactRepository interface {
	Get(ctx context.Context, key FactKey) (string, bool, error)
	Set(ctx context.Context, key FactKey, value string) error
	All(ctx context.Context) (map[FactKey]string, error)
	Delete(ctx context.Context, key FactKey) (bool, error)
	Clear(ctx context.Context) error
}

// ChatRepository persists chats and their turns. Turns within a chat are
// strictly ordered; appending a turn bumps the chat's updated_at.
type ChatRepository interface {
	CreateChat(ctx context.Context, chatID, title string) error
	AddTurn(ctx context.Context, chatID, role, content string) error
	RecentTurns(ctx context.Context, chatID string, limit int) ([]Turn, error)
	ListChats(ctx context.Context) ([]Chat, error)
	ChatInfo(ctx context.Context, chatID string) (Chat, error)
	DeleteChat(ctx context.Context, chatID string) error
	TurnCount(ctx context.Context, chatID string) (int, error)
}
