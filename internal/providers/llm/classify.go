package llm

import (
	"strings"

	"google.golang.org/genai"

	"github.com/sandevgo/coworker/internal/core"
)

// Fixed user-facing texts for blocked or empty generations. The pipeline
// relies on the tag, not on these strings, to decide whether to escalate.
const (
	safetyApology     = "I apologize, but I can't provide a response to that request due to safety guidelines. Please try rephrasing your question."
	recitationApology = "I can't provide that response as it may contain copyrighted content. Please try asking in a different way."
	otherApology      = "I'm unable to provide a response to that request. Please try rephrasing your question."
	emptyApology      = "I wasn't able to generate a proper response. Please try rephrasing your question."
)

// classifyResponse maps a raw generation result onto a tagged reply. Blocked
// and empty results come back with an apology text instead of model output.
func classifyResponse(resp *genai.GenerateContentResponse) core.Reply {
	if resp == nil || len(resp.Candidates) == 0 {
		return core.Reply{Text: emptyApology, Tag: core.TagEmpty}
	}

	switch resp.Candidates[0].FinishReason {
	case genai.FinishReasonSafety:
		return core.Reply{Text: safetyApology, Tag: core.TagBlockedSafety}
	case genai.FinishReasonRecitation:
		return core.Reply{Text: recitationApology, Tag: core.TagBlockedRecitation}
	case genai.FinishReasonOther:
		return core.Reply{Text: otherApology, Tag: core.TagBlockedOther}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return core.Reply{Text: emptyApology, Tag: core.TagEmpty}
	}
	return core.Reply{Text: text, Tag: core.TagOK}
}
