package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/pkg/log"
)

var greetingKeywords = []string{
	"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
}

// Queries asking about the user themselves get the recall framing instead of
// a literal context prefix.
var recallKeywords = []string{
	"remember", "know about me", "who am i", "my name", "about me",
}

// Only these kinds are ever surfaced to the model, and only with short
// values. Location, age and manually set keys stay out of prompts.
var contextKeys = []core.FactKey{
	core.FactName,
	core.FactInterests,
	core.FactProfession,
}

const maxContextValueLen = 100

// Assembler decides whether a query gets stored facts attached and in what
// shape.
type Assembler struct {
	facts core.FactRepository
}

func NewAssembler(facts core.FactRepository) *Assembler {
	return &Assembler{facts: facts}
}

// Assemble returns the prompt to send for the given query. Fact context is
// attached only for greetings, memory-recall questions, or the first turn of
// a chat. Recall questions are rephrased indirectly rather than prefixed with
// literal facts, which is less likely to trip provider safety filters.
func (a *Assembler) Assemble(ctx context.Context, query string, historyEmpty bool) string {
	lowered := strings.ToLower(query)

	include := historyEmpty ||
		containsAny(lowered, greetingKeywords) ||
		containsAny(lowered, recallKeywords)
	if !include {
		return query
	}

	prefix := a.contextPrefix(ctx)
	if prefix == "" {
		return query
	}

	if containsAny(lowered, recallKeywords) {
		return "Based on our previous conversations, " + query
	}
	return prefix + query
}

// contextPrefix renders the safe fact subset as a single context clause, or
// "" when nothing usable is stored.
func (a *Assembler) contextPrefix(ctx context.Context) string {
	var clauses []string
	for _, key := range contextKeys {
		value, ok, err := a.facts.Get(ctx, key)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("key", string(key)).Msg("failed to read fact")
			continue
		}
		value = strings.TrimSpace(value)
		if !ok || value == "" || len(value) >= maxContextValueLen {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("User's %s is %s", key, value))
	}
	if len(clauses) == 0 {
		return ""
	}
	return "Context: " + strings.Join(clauses, ", ") + ". "
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
