package genimage

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultImageModel = "gemini-2.5-flash-image"

// contentModels is the subset of *genai.Models used here.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates backgrounds with a Gemini image model.
type Gemini struct {
	models contentModels
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrUnavailable)
	}
	if model == "" {
		model = DefaultImageModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %w", ErrUnavailable, err)
	}
	return &Gemini{models: client.Models, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string, size Size) ([]byte, error) {
	resp, err := g.models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, ErrNoImage
}
