package chat

import (
	"context"
	"fmt"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/pkg/log"
)

// A strategy is one attempt shape in the response pipeline. build returns the
// model input and whether the strategy applies at all; accept decides whether
// its reply ends the run.
type strategy struct {
	name   string
	build  func() (string, bool)
	accept func(core.Reply) bool
}

// Pipeline obtains a model reply for a prompt, trying a bounded ordered list
// of strategies and stopping at the first accepted result.
type Pipeline struct {
	provider    core.ModelProvider
	tokenBudget int
}

func NewPipeline(provider core.ModelProvider, tokenBudget int) *Pipeline {
	return &Pipeline{provider: provider, tokenBudget: tokenBudget}
}

// Respond runs the strategies in order: first the conversation transcript,
// accepted only when the reply is clean, then the bare prompt, accepted
// unconditionally. Provider failures on a non-final strategy fall through to
// the next one; a failure on the last turns into an error-tagged reply. The
// pipeline always produces some text.
func (p *Pipeline) Respond(ctx context.Context, prompt string, history []core.Turn) core.Reply {
	logger := log.FromCtx(ctx)

	strategies := []strategy{
		{
			name: "with_history",
			build: func() (string, bool) {
				transcript := buildTranscript(history, prompt, p.tokenBudget)
				return transcript, transcript != ""
			},
			accept: func(r core.Reply) bool { return r.Tag == core.TagOK },
		},
		{
			name:   "direct",
			build:  func() (string, bool) { return prompt, true },
			accept: func(core.Reply) bool { return true },
		},
	}

	var lastErr error
	for _, s := range strategies {
		input, ok := s.build()
		if !ok {
			continue
		}

		reply, err := p.provider.Generate(ctx, input, core.GenerateOptions{})
		if err != nil {
			logger.Warn().Err(err).Str("strategy", s.name).Msg("model invocation failed")
			lastErr = err
			continue
		}
		if s.accept(reply) {
			return reply
		}
		logger.Info().Str("strategy", s.name).Str("tag", string(reply.Tag)).Msg("reply rejected, falling back")
	}

	return core.Reply{
		Text: fmt.Sprintf("I encountered an error processing your request: %v", lastErr),
		Tag:  core.TagError,
	}
}
