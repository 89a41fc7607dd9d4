package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/coworker/internal/core"
)

// fakeProvider replays scripted replies and records the prompts it saw.
type fakeProvider struct {
	replies []core.Reply
	errs    []error
	calls   []string
	opts    []core.GenerateOptions
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, opts core.GenerateOptions) (core.Reply, error) {
	i := len(f.calls)
	f.calls = append(f.calls, prompt)
	f.opts = append(f.opts, opts)
	if i < len(f.errs) && f.errs[i] != nil {
		return core.Reply{}, f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return core.Reply{Text: "fallback", Tag: core.TagOK}, nil
}

func turns(contents ...string) []core.Turn {
	var out []core.Turn
	role := core.RoleUser
	for _, c := range contents {
		out = append(out, core.Turn{Role: role, Content: c})
		if role == core.RoleUser {
			role = core.RoleAssistant
		} else {
			role = core.RoleUser
		}
	}
	return out
}

func TestRespondWithHistoryAccepted(t *testing.T) {
	provider := &fakeProvider{
		replies: []core.Reply{{Text: "sure", Tag: core.TagOK}},
	}
	p := NewPipeline(provider, 0)

	got := p.Respond(context.Background(), "next question", turns("hi", "hello"))

	if got.Text != "sure" || got.Tag != core.TagOK {
		t.Fatalf("reply = %+v, want ok/sure", got)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(provider.calls))
	}
	want := "User: hi\n\nAssistant: hello\n\nUser: next question"
	if provider.calls[0] != want {
		t.Errorf("transcript = %q, want %q", provider.calls[0], want)
	}
}

func TestRespondEmptyHistorySkipsTranscript(t *testing.T) {
	provider := &fakeProvider{
		replies: []core.Reply{{Text: "direct answer", Tag: core.TagOK}},
	}
	p := NewPipeline(provider, 0)

	got := p.Respond(context.Background(), "what is go?", nil)

	if got.Text != "direct answer" {
		t.Fatalf("reply = %+v", got)
	}
	if len(provider.calls) != 1 || provider.calls[0] != "what is go?" {
		t.Errorf("calls = %v, want single bare prompt", provider.calls)
	}
}

func TestRespondBlockedWithHistoryFallsBack(t *testing.T) {
	blocked := core.Reply{Text: "blocked", Tag: core.TagBlockedSafety}
	provider := &fakeProvider{
		replies: []core.Reply{blocked, {Text: "second try", Tag: core.TagBlockedOther}},
	}
	p := NewPipeline(provider, 0)

	got := p.Respond(context.Background(), "question", turns("a", "b"))

	// The direct strategy's reply is final whatever its tag.
	if got.Text != "second try" || got.Tag != core.TagBlockedOther {
		t.Fatalf("reply = %+v, want the direct attempt returned as-is", got)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(provider.calls))
	}
	if provider.calls[1] != "question" {
		t.Errorf("second call = %q, want bare prompt", provider.calls[1])
	}
}

func TestRespondProviderErrorsProduceText(t *testing.T) {
	provider := &fakeProvider{
		errs: []error{errors.New("quota"), errors.New("quota")},
	}
	p := NewPipeline(provider, 0)

	got := p.Respond(context.Background(), "question", turns("a", "b"))

	if got.Tag != core.TagError {
		t.Fatalf("tag = %q, want %q", got.Tag, core.TagError)
	}
	if !strings.Contains(got.Text, "quota") {
		t.Errorf("text = %q, want the failure mentioned", got.Text)
	}
}

func TestBuildTranscript(t *testing.T) {
	tests := []struct {
		name   string
		turns  []core.Turn
		prompt string
		want   string
	}{
		{
			name:   "no history",
			prompt: "q",
			want:   "",
		},
		{
			name:   "roles rendered",
			turns:  turns("one", "two"),
			prompt: "three",
			want:   "User: one\n\nAssistant: two\n\nUser: three",
		},
		{
			name:   "overlong message skipped",
			turns:  []core.Turn{{Role: core.RoleUser, Content: strings.Repeat("x", 500)}},
			prompt: "q",
			want:   "",
		},
		{
			name:   "blank message skipped",
			turns:  []core.Turn{{Role: core.RoleUser, Content: "   "}, {Role: core.RoleAssistant, Content: "kept"}},
			prompt: "q",
			want:   "Assistant: kept\n\nUser: q",
		},
		{
			name:   "window keeps latest six",
			turns:  turns("1", "2", "3", "4", "5", "6", "7", "8"),
			prompt: "q",
			want:   "User: 3\n\nAssistant: 4\n\nUser: 5\n\nAssistant: 6\n\nUser: 7\n\nAssistant: 8\n\nUser: q",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildTranscript(tt.turns, tt.prompt, 0)
			if got != tt.want {
				t.Errorf("buildTranscript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildTranscriptTokenBudget(t *testing.T) {
	history := turns(
		strings.Repeat("alpha ", 40),
		strings.Repeat("beta ", 40),
		"short answer",
	)

	got := buildTranscript(history, "q", 30)

	if strings.Contains(got, "alpha") {
		t.Errorf("oldest line should be shed first, got %q", got)
	}
	if !strings.HasSuffix(got, "User: q") {
		t.Errorf("prompt line must survive, got %q", got)
	}
}
