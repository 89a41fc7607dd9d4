package chat

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/coworker/internal/core"
)

const (
	// At most this many history turns go into a transcript.
	transcriptTurns = 6
	// Individual messages at or above this length are skipped entirely.
	maxTurnLen = 500
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func tokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

func countTokens(text string) int {
	return len(tokenizer().Encode(text, nil, nil))
}

// buildTranscript renders the most recent history turns plus the current
// prompt as "User:"/"Assistant:" lines joined by blank lines. Empty and
// overlong messages are dropped. When the result exceeds the token budget the
// oldest lines are shed first; the prompt line is never dropped. Returns ""
// when no history line survives, which tells the caller to skip the
// transcript attempt.
func buildTranscript(turns []core.Turn, prompt string, tokenBudget int) string {
	if len(turns) > transcriptTurns {
		turns = turns[len(turns)-transcriptTurns:]
	}

	var lines []string
	for _, t := range turns {
		content := strings.TrimSpace(t.Content)
		if content == "" || len(content) >= maxTurnLen {
			continue
		}
		role := "User"
		if t.Role == core.RoleAssistant {
			role = "Assistant"
		}
		lines = append(lines, role+": "+content)
	}
	if len(lines) == 0 {
		return ""
	}

	lines = append(lines, "User: "+prompt)
	if tokenBudget > 0 {
		for len(lines) > 1 && countTokens(strings.Join(lines, "\n\n")) > tokenBudget {
			lines = lines[1:]
		}
	}
	if len(lines) == 1 {
		return ""
	}
	return strings.Join(lines, "\n\n")
}
