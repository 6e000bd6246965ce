package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// generator is the part of *genai.Models the classifier calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini classifies utterances with a Gemini model.
type Gemini struct {
	models     generator
	model      string
	categories []string
}

// GeminiConfig configures NewGemini.
type GeminiConfig struct {
	APIKey     string
	Model      string
	Categories []string
}

// NewGemini creates a Gemini-backed classifier. An empty API key is an
// error rather than a deferred failure on the first call.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key", ErrUnavailable)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating genai client: %w", ErrUnavailable, err)
	}
	return newGemini(client.Models, cfg), nil
}

func newGemini(models generator, cfg GeminiConfig) *Gemini {
	name := cfg.Model
	if name == "" {
		name = DefaultModelName
	}
	return &Gemini{models: models, model: name, categories: cfg.Categories}
}

// Classify implements Classifier.
func (g *Gemini) Classify(ctx context.Context, utterance string, today time.Time) ([]map[string]any, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: utterance}},
		},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: BuildPrompt(g.categories, today)}},
		},
		ResponseMIMEType: "application/json",
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out: %w", ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: generate content: %w", ErrUnavailable, err)
	}

	records, err := ExtractJSON(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("classifying %q: %w", utterance, err)
	}
	return records, nil
}
