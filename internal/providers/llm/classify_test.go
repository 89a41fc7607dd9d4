package llm

import (
	"testing"

	"google.golang.org/genai"

	"github.com/sandevgo/coworker/internal/core"
)

func textResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	cand := &genai.Candidate{FinishReason: reason}
	if text != "" {
		cand.Content = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}
}

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		wantTag  core.Classification
		wantText string
	}{
		{
			name:     "normal completion",
			resp:     textResponse("Paris is the capital of France.", genai.FinishReasonStop),
			wantTag:  core.TagOK,
			wantText: "Paris is the capital of France.",
		},
		{
			name:     "whitespace is trimmed",
			resp:     textResponse("  答え  \n", genai.FinishReasonStop),
			wantTag:  core.TagOK,
			wantText: "答え",
		},
		{
			name:     "safety block",
			resp:     textResponse("", genai.FinishReasonSafety),
			wantTag:  core.TagBlockedSafety,
			wantText: safetyApology,
		},
		{
			name:     "recitation block",
			resp:     textResponse("", genai.FinishReasonRecitation),
			wantTag:  core.TagBlockedRecitation,
			wantText: recitationApology,
		},
		{
			name:     "other block",
			resp:     textResponse("", genai.FinishReasonOther),
			wantTag:  core.TagBlockedOther,
			wantText: otherApology,
		},
		{
			name:     "no candidates",
			resp:     &genai.GenerateContentResponse{},
			wantTag:  core.TagEmpty,
			wantText: emptyApology,
		},
		{
			name:     "nil response",
			resp:     nil,
			wantTag:  core.TagEmpty,
			wantText: emptyApology,
		},
		{
			name:     "stop with empty content",
			resp:     textResponse("", genai.FinishReasonStop),
			wantTag:  core.TagEmpty,
			wantText: emptyApology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyResponse(tt.resp)
			if got.Tag != tt.wantTag {
				t.Errorf("tag = %q, want %q", got.Tag, tt.wantTag)
			}
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestClassificationBlocked(t *testing.T) {
	blocked := []core.Classification{
		core.TagBlockedSafety, core.TagBlockedRecitation, core.TagBlockedOther,
	}
	for _, tag := range blocked {
		if !tag.Blocked() {
			t.Errorf("%q.Blocked() = false, want true", tag)
		}
	}
	for _, tag := range []core.Classification{core.TagOK, core.TagEmpty, core.TagError} {
		if tag.Blocked() {
			t.Errorf("%q.Blocked() = true, want false", tag)
		}
	}
}
