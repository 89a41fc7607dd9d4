package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/sandevgo/coworker/internal/core"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name         string
		facts        map[core.FactKey]string
		query        string
		historyEmpty bool
		want         string
	}{
		{
			name:         "first turn includes safe context",
			facts:        map[core.FactKey]string{core.FactName: "Ana"},
			query:        "what's the weather?",
			historyEmpty: true,
			want:         "Context: User's name is Ana. what's the weather?",
		},
		{
			name:  "mid conversation without keywords passes through",
			facts: map[core.FactKey]string{core.FactName: "Ana"},
			query: "what's 2+2",
			want:  "what's 2+2",
		},
		{
			name:  "greeting includes context",
			facts: map[core.FactKey]string{core.FactName: "Ana"},
			query: "hello there",
			want:  "Context: User's name is Ana. hello there",
		},
		{
			name:  "recall query gets indirect framing",
			facts: map[core.FactKey]string{core.FactName: "Ana"},
			query: "do you remember what I told you?",
			want:  "Based on our previous conversations, do you remember what I told you?",
		},
		{
			name:         "no stored facts passes through",
			query:        "hello",
			historyEmpty: true,
			want:         "hello",
		},
		{
			name: "only safe keys are surfaced",
			facts: map[core.FactKey]string{
				core.FactName:       "Ana",
				core.FactLocation:   "Berlin",
				core.FactAge:        "34",
				core.FactWorkplace:  "Acme",
				core.FactProfession: "plumber",
			},
			query:        "hi",
			historyEmpty: true,
			want:         "Context: User's name is Ana, User's profession is plumber. hi",
		},
		{
			name: "overlong values are skipped",
			facts: map[core.FactKey]string{
				core.FactName:      "Ana",
				core.FactInterests: strings.Repeat("x", 120),
			},
			query:        "hey",
			historyEmpty: true,
			want:         "Context: User's name is Ana. hey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeFactRepo()
			for k, v := range tt.facts {
				repo.values[k] = v
			}
			asm := NewAssembler(repo)

			got := asm.Assemble(context.Background(), tt.query, tt.historyEmpty)
			if got != tt.want {
				t.Errorf("Assemble() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssembleFactReadFailure(t *testing.T) {
	repo := newFakeFactRepo()
	repo.getErr = context.DeadlineExceeded
	asm := NewAssembler(repo)

	got := asm.Assemble(context.Background(), "hello", true)
	if got != "hello" {
		t.Errorf("Assemble() = %q, want query unchanged on read failure", got)
	}
}
