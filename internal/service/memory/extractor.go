package memory

import (
	"context"
	"strings"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/pkg/log"
)

// Extractor scans user utterances for durable personal facts and upserts them.
// Extraction is best-effort: a pattern that does not match is skipped, a
// captured value that fails validation is discarded, a store failure is logged.
type Extractor struct {
	facts core.FactRepository
}

func NewExtractor(facts core.FactRepository) *Extractor {
	return &Extractor{facts: facts}
}

// ExtractAndStore runs the rule catalogue over the utterance and returns the
// fact keys it wrote. At most one value per kind is written per call.
func (e *Extractor) ExtractAndStore(ctx context.Context, utterance string) []core.FactKey {
	logger := log.FromCtx(ctx)
	lowered := strings.ToLower(utterance)

	var written []core.FactKey
	for _, r := range rules {
		value, ok := matchRule(r, lowered)
		if !ok {
			continue
		}

		if r.accumulate {
			stored, err := e.appendValue(ctx, r.key, value)
			if err != nil {
				logger.Warn().Err(err).Str("key", string(r.key)).Msg("failed to store fact")
				continue
			}
			if stored {
				written = append(written, r.key)
			}
			continue
		}

		if err := e.facts.Set(ctx, r.key, value); err != nil {
			logger.Warn().Err(err).Str("key", string(r.key)).Msg("failed to store fact")
			continue
		}
		logger.Info().Str("key", string(r.key)).Msg("fact extracted")
		written = append(written, r.key)
	}
	return written
}

// matchRule runs the rule's patterns in order and returns the first accepted
// capture.
func matchRule(r rule, lowered string) (string, bool) {
	for _, p := range r.patterns {
		m := p.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			return "", false
		}
		if r.validate != nil && !r.validate(value) {
			// Matched but filtered; the first match per kind still wins.
			return "", false
		}
		if r.transform != nil {
			value = r.transform(value)
		}
		return value, true
	}
	return "", false
}

// appendValue grows a comma-joined list, skipping values already present as a
// case-insensitive substring of the stored list.
func (e *Extractor) appendValue(ctx context.Context, key core.FactKey, value string) (bool, error) {
	existing, _, err := e.facts.Get(ctx, key)
	if err != nil {
		return false, err
	}

	if existing != "" && strings.Contains(strings.ToLower(existing), strings.ToLower(value)) {
		return false, nil
	}

	combined := value
	if existing != "" {
		combined = existing + ", " + value
	}
	if err := e.facts.Set(ctx, key, combined); err != nil {
		return false, err
	}
	log.FromCtx(ctx).Info().Str("key", string(key)).Msg("fact extracted")
	return true, nil
}
