package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sandevgo/coworker/pkg/conv"
)

// Messages lists the newest mail in a folder.
func (c *Client) Messages(ctx context.Context, sess Session, folder string, limit int) ([]MailMessage, error) {
	path := fmt.Sprintf("me/mailFolders/%s/messages?$top=%d&$orderby=%s",
		url.PathEscape(folder), limit, url.QueryEscape("receivedDateTime desc"))

	var result listResponse[MailMessage]
	if err := c.do(ctx, sess, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// TodaysMessages lists mail received since local midnight, newest first.
func (c *Client) TodaysMessages(ctx context.Context, sess Session) ([]MailMessage, error) {
	filter := fmt.Sprintf("receivedDateTime ge %sT00:00:00Z", time.Now().Format("2006-01-02"))
	path := fmt.Sprintf("me/messages?$filter=%s&$orderby=%s",
		url.QueryEscape(filter), url.QueryEscape("receivedDateTime desc"))

	var result listResponse[MailMessage]
	if err := c.do(ctx, sess, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// Message fetches one mail including its full body.
func (c *Client) Message(ctx context.Context, sess Session, id string) (MailMessage, error) {
	var msg MailMessage
	path := "me/messages/" + url.PathEscape(id)
	if err := c.do(ctx, sess, http.MethodGet, path, nil, &msg); err != nil {
		return MailMessage{}, err
	}
	return msg, nil
}

// SearchMessages runs a free-text mail search.
func (c *Client) SearchMessages(ctx context.Context, sess Session, query string, limit int) ([]MailMessage, error) {
	path := fmt.Sprintf("me/messages?$search=%s&$top=%d", url.QueryEscape(`"`+query+`"`), limit)

	var result listResponse[MailMessage]
	if err := c.do(ctx, sess, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

func mailPayload(to, cc []string, subject, markdownBody string) map[string]any {
	recipients := func(addrs []string) []map[string]any {
		out := make([]map[string]any, 0, len(addrs))
		for _, a := range addrs {
			out = append(out, map[string]any{"emailAddress": map[string]string{"address": a}})
		}
		return out
	}

	return map[string]any{
		"subject": subject,
		"body": map[string]string{
			"contentType": "HTML",
			"content":     conv.MarkdownToMailHTML([]byte(markdownBody)),
		},
		"toRecipients": recipients(to),
		"ccRecipients": recipients(cc),
	}
}

// SendMail sends a mail. The body is markdown, rendered to sanitized HTML.
func (c *Client) SendMail(ctx context.Context, sess Session, to, cc []string, subject, markdownBody string) error {
	body := map[string]any{"message": mailPayload(to, cc, subject, markdownBody)}
	return c.do(ctx, sess, http.MethodPost, "me/sendMail", body, nil)
}

// CreateDraft stores a mail as a draft instead of sending it.
func (c *Client) CreateDraft(ctx context.Context, sess Session, to, cc []string, subject, markdownBody string) error {
	return c.do(ctx, sess, http.MethodPost, "me/messages", mailPayload(to, cc, subject, markdownBody), nil)
}
