package graph

import "time"

type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

type Chat struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	ChatType string `json:"chatType"`
}

type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type identity struct {
	DisplayName string `json:"displayName"`
}

type identitySet struct {
	User identity `json:"user"`
}

// ChatRef identifies the chat a message came from, attached when messages
// from several chats are merged into one list.
type ChatRef struct {
	ChatID   string `json:"chat_id"`
	Topic    string `json:"topic"`
	ChatType string `json:"chat_type"`
}

type ChatMessage struct {
	ID              string      `json:"id"`
	CreatedDateTime time.Time   `json:"createdDateTime"`
	From            identitySet `json:"from"`
	Body            ItemBody    `json:"body"`
	ChatInfo        *ChatRef    `json:"chat_info,omitempty"`
}

// Sender returns the display name of the message author, or "Unknown".
func (m ChatMessage) Sender() string {
	if m.From.User.DisplayName == "" {
		return "Unknown"
	}
	return m.From.User.DisplayName
}

type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

type MailMessage struct {
	ID               string      `json:"id"`
	Subject          string      `json:"subject"`
	BodyPreview      string      `json:"bodyPreview"`
	ReceivedDateTime time.Time   `json:"receivedDateTime"`
	Sender           Recipient   `json:"sender"`
	Body             ItemBody    `json:"body"`
	ToRecipients     []Recipient `json:"toRecipients"`
}

// SenderName returns the display name of the mail sender, or "Unknown".
func (m MailMessage) SenderName() string {
	if m.Sender.EmailAddress.Name == "" {
		return "Unknown"
	}
	return m.Sender.EmailAddress.Name
}

type listResponse[T any] struct {
	Value []T `json:"value"`
}
