package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/sandevgo/coworker/internal/core"
)

// Gemini talks to the Gemini API through the official SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Relaxed thresholds used when a prompt has already been blocked once. The
// default thresholds stay in place for first attempts.
var permissiveSafety = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
}

func (g *Gemini) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Reply, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
		TopP:        genai.Ptr[float32](1),
		TopK:        genai.Ptr[float32](40),
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.PermissiveSafety {
		config.SafetySettings = permissiveSafety
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return core.Reply{}, fmt.Errorf("generate content: %w", err)
	}
	return classifyResponse(resp), nil
}
