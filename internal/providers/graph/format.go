package graph

import (
	"fmt"
	"strings"

	"github.com/inbucket/html2text"
)

// plainText flattens a message body for prompt building. HTML bodies are
// converted to text; anything else passes through.
func plainText(body ItemBody) string {
	if !strings.EqualFold(body.ContentType, "html") {
		return strings.TrimSpace(body.Content)
	}
	text, err := html2text.FromString(body.Content, html2text.Options{OmitLinks: true, TextOnly: true})
	if err != nil {
		return strings.TrimSpace(body.Content)
	}
	return strings.TrimSpace(text)
}

// FormatChatMessages renders Teams messages as one timestamped line each, for
// feeding into a summarization prompt.
func FormatChatMessages(messages []ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			msg.CreatedDateTime.Format("2006-01-02 15:04"), msg.Sender(), plainText(msg.Body)))
	}
	return strings.Join(lines, "\n")
}

// FormatEmails renders mail headers and previews as blocks separated by "---".
func FormatEmails(emails []MailMessage) string {
	blocks := make([]string, 0, len(emails))
	for _, email := range emails {
		subject := email.Subject
		if subject == "" {
			subject = "No subject"
		}
		blocks = append(blocks, fmt.Sprintf("From: %s\nSubject: %s\nReceived: %s\nPreview: %s\n---",
			email.SenderName(), subject, email.ReceivedDateTime.Format("2006-01-02 15:04"), email.BodyPreview))
	}
	return strings.Join(blocks, "\n")
}
