package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sandevgo/coworker/pkg/log"
)

// Me fetches the signed-in user's profile. Used to validate a freshly
// supplied token.
func (c *Client) Me(ctx context.Context, sess Session) (User, error) {
	var user User
	if err := c.do(ctx, sess, http.MethodGet, "me", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Chats lists the user's Teams chats.
func (c *Client) Chats(ctx context.Context, sess Session) ([]Chat, error) {
	var result listResponse[Chat]
	if err := c.do(ctx, sess, http.MethodGet, "me/chats", nil, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// ChatMessages fetches the newest messages of one chat.
func (c *Client) ChatMessages(ctx context.Context, sess Session, chatID string, limit int) ([]ChatMessage, error) {
	path := fmt.Sprintf("me/chats/%s/messages?$top=%d&$orderby=%s",
		url.PathEscape(chatID), limit, url.QueryEscape("createdDateTime desc"))

	var result listResponse[ChatMessage]
	if err := c.do(ctx, sess, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// TodaysTeamsMessages collects today's messages across all chats, tags each
// with its chat of origin and returns them newest first. A chat that fails to
// load is skipped rather than failing the whole sweep.
func (c *Client) TodaysTeamsMessages(ctx context.Context, sess Session) ([]ChatMessage, error) {
	chats, err := c.Chats(ctx, sess)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	var all []ChatMessage
	for _, chat := range chats {
		messages, err := c.ChatMessages(ctx, sess, chat.ID, 20)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("chat_id", chat.ID).Msg("failed to load chat messages")
			continue
		}
		for _, msg := range messages {
			if msg.CreatedDateTime.Local().Format("2006-01-02") != today {
				continue
			}
			topic := chat.Topic
			if topic == "" {
				topic = "No topic"
			}
			msg.ChatInfo = &ChatRef{ChatID: chat.ID, Topic: topic, ChatType: chat.ChatType}
			all = append(all, msg)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedDateTime.After(all[j].CreatedDateTime)
	})
	return all, nil
}

// SendChatMessage posts a plain-text message into a Teams chat.
func (c *Client) SendChatMessage(ctx context.Context, sess Session, chatID, text string) error {
	body := map[string]any{
		"body": map[string]string{
			"contentType": "text",
			"content":     text,
		},
	}
	path := fmt.Sprintf("me/chats/%s/messages", url.PathEscape(chatID))
	return c.do(ctx, sess, http.MethodPost, path, body, nil)
}
