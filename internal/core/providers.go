package core

import "context"

// GenerateOptions tunes a single model invocation.
type GenerateOptions struct {
	// PermissiveSafety relaxes the provider's content filters to
	// block-only-high thresholds. Used by the escalation retry.
	PermissiveSafety bool
	MaxOutputTokens  int32
}

// ModelProvider is the external language model. Generate returns a classified
// reply; the error is reserved for transport, auth and quota failures.
type ModelProvider interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (Reply, error)
}
