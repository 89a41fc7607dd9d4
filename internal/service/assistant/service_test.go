package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/internal/providers/graph"
)

type fakeGraph struct {
	chats    []graph.Chat
	teams    []graph.ChatMessage
	mail     []graph.MailMessage
	teamsErr error
	mailErr  error
}

func (f *fakeGraph) Chats(_ context.Context, _ graph.Session) ([]graph.Chat, error) {
	return f.chats, nil
}

func (f *fakeGraph) TodaysTeamsMessages(_ context.Context, _ graph.Session) ([]graph.ChatMessage, error) {
	return f.teams, f.teamsErr
}

func (f *fakeGraph) TodaysMessages(_ context.Context, _ graph.Session) ([]graph.MailMessage, error) {
	return f.mail, f.mailErr
}

type echoProvider struct {
	prompts []string
}

func (e *echoProvider) Generate(_ context.Context, prompt string, _ core.GenerateOptions) (core.Reply, error) {
	e.prompts = append(e.prompts, prompt)
	return core.Reply{Text: "narrated", Tag: core.TagOK}, nil
}

func teamsMessage(id, chatID, topic, content string) graph.ChatMessage {
	return graph.ChatMessage{
		ID:              id,
		CreatedDateTime: time.Now(),
		Body:            graph.ItemBody{ContentType: "text", Content: content},
		ChatInfo:        &graph.ChatRef{ChatID: chatID, Topic: topic},
	}
}

func TestProcessPlainQuery(t *testing.T) {
	provider := &echoProvider{}
	svc := NewService(&fakeGraph{}, provider)

	got := svc.Process(context.Background(), graph.Session{}, "what's the capital of France?")

	if got.Type != "regular_ai_response" || got.Response != "narrated" {
		t.Fatalf("result = %+v", got)
	}
	if len(provider.prompts) != 1 || provider.prompts[0] != "what's the capital of France?" {
		t.Errorf("prompts = %v, want the raw query", provider.prompts)
	}
}

func TestProcessTeamsMessagesToday(t *testing.T) {
	provider := &echoProvider{}
	g := &fakeGraph{teams: []graph.ChatMessage{
		teamsMessage("m1", "c1", "standup", "done with the migration"),
	}}
	svc := NewService(g, provider)

	got := svc.Process(context.Background(), graph.Session{Token: "tok"}, "teams messages today")

	if got.Type != "teams_messages" || !got.RequiresAction {
		t.Fatalf("result = %+v", got)
	}
	if got.Data["total_count"] != 1 {
		t.Errorf("total_count = %v", got.Data["total_count"])
	}
	if len(provider.prompts) != 1 || !strings.Contains(provider.prompts[0], "done with the migration") {
		t.Errorf("summary prompt = %v, want message content embedded", provider.prompts)
	}
}

func TestProcessTeamsMessagesTodayEmpty(t *testing.T) {
	provider := &echoProvider{}
	svc := NewService(&fakeGraph{}, provider)

	got := svc.Process(context.Background(), graph.Session{Token: "tok"}, "teams messages today")

	if got.Response != "You don't have any new Teams messages today." {
		t.Fatalf("response = %q", got.Response)
	}
	if len(provider.prompts) != 0 {
		t.Errorf("no model call expected, got %v", provider.prompts)
	}
}

func TestProcessGraphFailure(t *testing.T) {
	svc := NewService(&fakeGraph{mailErr: errors.New("token expired")}, &echoProvider{})

	got := svc.Process(context.Background(), graph.Session{Token: "tok"}, "summarize emails")

	if got.Type != "error" {
		t.Fatalf("result = %+v", got)
	}
	if !strings.Contains(got.Response, "token expired") {
		t.Errorf("response = %q, want failure mentioned", got.Response)
	}
}

func TestProcessSendEmailNeedsDetails(t *testing.T) {
	svc := NewService(&fakeGraph{}, &echoProvider{})

	got := svc.Process(context.Background(), graph.Session{Token: "tok"}, "send email")

	if got.Type != "email_send" || !got.RequiresAction {
		t.Fatalf("result = %+v", got)
	}
	if !strings.Contains(got.Response, "compose an email") {
		t.Errorf("response = %q", got.Response)
	}
}

func TestProcessSummarizeTeamsGroupsByChat(t *testing.T) {
	provider := &echoProvider{}
	g := &fakeGraph{teams: []graph.ChatMessage{
		teamsMessage("m1", "c1", "standup", "a"),
		teamsMessage("m2", "c2", "planning", "b"),
		teamsMessage("m3", "c1", "standup", "c"),
	}}
	svc := NewService(g, provider)

	got := svc.Process(context.Background(), graph.Session{Token: "tok"}, "summarize teams")

	if got.Type != "teams_summary" {
		t.Fatalf("result = %+v", got)
	}
	// One prompt per chat plus the overall one.
	if len(provider.prompts) != 3 {
		t.Fatalf("prompts = %d, want 3", len(provider.prompts))
	}
	if got.Data["total_messages"] != 3 {
		t.Errorf("total_messages = %v", got.Data["total_messages"])
	}
}
