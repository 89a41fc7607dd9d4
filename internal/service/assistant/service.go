package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/internal/providers/graph"
	"github.com/sandevgo/coworker/pkg/log"
)

// graphAPI is the slice of the Graph client the assistant needs.
type graphAPI interface {
	Chats(ctx context.Context, sess graph.Session) ([]graph.Chat, error)
	TodaysTeamsMessages(ctx context.Context, sess graph.Session) ([]graph.ChatMessage, error)
	TodaysMessages(ctx context.Context, sess graph.Session) ([]graph.MailMessage, error)
}

// Result is the structured outcome of one assistant request.
type Result struct {
	Type           string         `json:"type"`
	Response       string         `json:"response"`
	RequiresAction bool           `json:"requires_action"`
	Actions        []string       `json:"actions,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// Service routes productivity queries: a detected intent is served from
// Microsoft Graph data narrated by the model, anything else is a plain model
// answer.
type Service struct {
	graph    graphAPI
	provider core.ModelProvider
}

func NewService(graphClient graphAPI, provider core.ModelProvider) *Service {
	return &Service{graph: graphClient, provider: provider}
}

// Process answers one assistant query under the caller's Graph session.
// Graph or model failures degrade to an apologetic Result, never an error.
func (s *Service) Process(ctx context.Context, sess graph.Session, query string) Result {
	detected, ok := detectIntent(query)
	if !ok {
		return Result{
			Type:     "regular_ai_response",
			Response: s.narrate(ctx, query),
		}
	}

	log.FromCtx(ctx).Info().Str("intent", string(detected)).Msg("productivity intent detected")

	switch detected {
	case intentTeamsMessagesToday:
		return s.teamsMessagesToday(ctx, sess)
	case intentEmailsToday:
		return s.emailsToday(ctx, sess)
	case intentSendTeamsMessage:
		return s.sendTeamsMessage(ctx, sess, query)
	case intentSendEmail:
		return s.sendEmail(ctx, query)
	case intentSummarizeTeams:
		return s.summarizeTeamsChats(ctx, sess)
	case intentSummarizeEmails:
		return s.summarizeEmails(ctx, sess)
	}
	return errorResult(fmt.Errorf("unhandled intent %q", detected))
}

// narrate asks the model for free text and flattens failures into an apology.
func (s *Service) narrate(ctx context.Context, prompt string) string {
	reply, err := s.provider.Generate(ctx, prompt, core.GenerateOptions{})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("narration failed")
		return fmt.Sprintf("I encountered an error while trying to help you: %v", err)
	}
	return reply.Text
}

func errorResult(err error) Result {
	return Result{
		Type:     "error",
		Response: fmt.Sprintf("I encountered an error while trying to help you: %v", err),
	}
}

func (s *Service) teamsMessagesToday(ctx context.Context, sess graph.Session) Result {
	messages, err := s.graph.TodaysTeamsMessages(ctx, sess)
	if err != nil {
		return errorResult(err)
	}
	if len(messages) == 0 {
		return Result{
			Type:     "teams_messages",
			Response: "You don't have any new Teams messages today.",
			Data:     map[string]any{"messages": []graph.ChatMessage{}},
		}
	}

	recent := messages
	if len(recent) > 10 {
		recent = recent[:10]
	}

	prompt := fmt.Sprintf(`Here are the user's Teams messages from today. Create a friendly, conversational summary:

%s

Make it sound like you're a helpful assistant telling them about their day's messages.
Mention the most important ones and ask if they want to respond to any.`, graph.FormatChatMessages(recent))

	return Result{
		Type:           "teams_messages",
		Response:       s.narrate(ctx, prompt),
		RequiresAction: true,
		Actions:        []string{"respond_to_message", "mark_as_read", "get_more_details"},
		Data: map[string]any{
			"messages":    recent,
			"total_count": len(messages),
		},
	}
}

func (s *Service) emailsToday(ctx context.Context, sess graph.Session) Result {
	emails, err := s.graph.TodaysMessages(ctx, sess)
	if err != nil {
		return errorResult(err)
	}
	if len(emails) == 0 {
		return Result{
			Type:     "outlook_emails",
			Response: "You don't have any new emails today.",
			Data:     map[string]any{"emails": []graph.MailMessage{}},
		}
	}

	recent := emails
	if len(recent) > 10 {
		recent = recent[:10]
	}

	prompt := fmt.Sprintf(`Here are the user's emails from today. Create a helpful summary:

%s

Highlight the most important ones, mention any that need urgent attention,
and ask if they want to respond to any.`, graph.FormatEmails(recent))

	return Result{
		Type:           "outlook_emails",
		Response:       s.narrate(ctx, prompt),
		RequiresAction: true,
		Actions:        []string{"reply_to_email", "compose_email", "mark_as_read"},
		Data: map[string]any{
			"emails":      recent,
			"total_count": len(emails),
		},
	}
}

func (s *Service) sendTeamsMessage(ctx context.Context, sess graph.Session, query string) Result {
	info := extractMessageInfo(query)
	if info.Content == "" {
		return Result{
			Type:           "teams_send",
			Response:       "I'd be happy to help you send a Teams message! What would you like to say and to whom?",
			RequiresAction: true,
			Actions:        []string{"specify_recipient", "compose_message"},
		}
	}

	chats, err := s.graph.Chats(ctx, sess)
	if err != nil {
		return errorResult(err)
	}
	if len(chats) > 10 {
		chats = chats[:10]
	}

	prompt := fmt.Sprintf(`The user wants to send this Teams message: %q

Please help them by:
1. Reviewing if the message is clear and professional
2. Suggesting any improvements
3. Asking if they want to add any context
4. Confirming they want to send it

Be conversational and helpful, like a personal assistant.`, info.Content)

	return Result{
		Type:           "teams_send",
		Response:       s.narrate(ctx, prompt),
		RequiresAction: true,
		Actions:        []string{"confirm_send", "edit_message", "cancel"},
		Data: map[string]any{
			"message":   info.Content,
			"chats":     chats,
			"recipient": info.Recipient,
		},
	}
}

func (s *Service) sendEmail(ctx context.Context, query string) Result {
	info := extractEmailInfo(query)
	if info.Content == "" || info.Subject == "" {
		return Result{
			Type:           "email_send",
			Response:       "I'll help you compose an email! Please provide the recipient, subject, and message content.",
			RequiresAction: true,
			Actions:        []string{"specify_recipient", "add_subject", "compose_body"},
		}
	}

	recipient := info.Recipient
	if recipient == "" {
		recipient = "Not specified"
	}

	prompt := fmt.Sprintf(`The user wants to send this email:
To: %s
Subject: %s
Body: %s

Please review and provide suggestions:
1. Is the tone appropriate?
2. Should they add CC recipients?
3. Any improvements to subject or content?
4. Do they need attachments?
5. Ask if they're ready to send

Be helpful and conversational.`, recipient, info.Subject, info.Content)

	return Result{
		Type:           "email_send",
		Response:       s.narrate(ctx, prompt),
		RequiresAction: true,
		Actions:        []string{"confirm_send", "add_cc", "add_attachment", "edit_email"},
		Data: map[string]any{
			"email": info,
		},
	}
}

func (s *Service) summarizeTeamsChats(ctx context.Context, sess graph.Session) Result {
	messages, err := s.graph.TodaysTeamsMessages(ctx, sess)
	if err != nil {
		return errorResult(err)
	}
	if len(messages) == 0 {
		return Result{
			Type:     "teams_summary",
			Response: "You don't have any Teams messages to summarize today.",
		}
	}

	type chatGroup struct {
		topic    string
		messages []graph.ChatMessage
	}
	var order []string
	groups := make(map[string]*chatGroup)
	for _, msg := range messages {
		if msg.ChatInfo == nil {
			continue
		}
		g, ok := groups[msg.ChatInfo.ChatID]
		if !ok {
			g = &chatGroup{topic: msg.ChatInfo.Topic}
			groups[msg.ChatInfo.ChatID] = g
			order = append(order, msg.ChatInfo.ChatID)
		}
		g.messages = append(g.messages, msg)
	}

	type chatSummary struct {
		Topic        string `json:"chat_topic"`
		Summary      string `json:"summary"`
		MessageCount int    `json:"message_count"`
	}
	var summaries []chatSummary
	var overviewParts []string
	for _, chatID := range order {
		g := groups[chatID]
		prompt := fmt.Sprintf(`Summarize this Teams chat conversation:
Chat: %s

%s

Provide a brief summary of:
1. Main topics discussed
2. Any decisions made
3. Action items`, g.topic, graph.FormatChatMessages(g.messages))

		summary := s.narrate(ctx, prompt)
		summaries = append(summaries, chatSummary{Topic: g.topic, Summary: summary, MessageCount: len(g.messages)})
		overviewParts = append(overviewParts, fmt.Sprintf("Chat: %s\n%s", g.topic, summary))
	}

	overallPrompt := fmt.Sprintf(`Here are summaries of the user's Teams chats today:

%s

Create a friendly overview of their Teams activity today.`, strings.Join(overviewParts, "\n"))

	return Result{
		Type:           "teams_summary",
		Response:       s.narrate(ctx, overallPrompt),
		RequiresAction: true,
		Actions:        []string{"get_chat_details", "respond_to_chat"},
		Data: map[string]any{
			"chat_summaries": summaries,
			"total_messages": len(messages),
		},
	}
}

func (s *Service) summarizeEmails(ctx context.Context, sess graph.Session) Result {
	emails, err := s.graph.TodaysMessages(ctx, sess)
	if err != nil {
		return errorResult(err)
	}
	if len(emails) == 0 {
		return Result{
			Type:     "email_summary",
			Response: "You don't have any emails to summarize today.",
		}
	}

	recent := emails
	if len(recent) > 15 {
		recent = recent[:15]
	}

	prompt := fmt.Sprintf(`Summarize these emails for the user:

%s

Organize by:
1. Most urgent/important emails
2. Emails requiring response
3. FYI/informational emails
4. Overall themes/topics

Be conversational and helpful.`, graph.FormatEmails(recent))

	return Result{
		Type:           "email_summary",
		Response:       s.narrate(ctx, prompt),
		RequiresAction: true,
		Actions:        []string{"reply_to_email", "mark_important", "schedule_response"},
		Data: map[string]any{
			"emails":      recent,
			"total_count": len(emails),
		},
	}
}
