package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	text   string
	err    error
	model  string
	prompt string
	input  string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.input = contents[0].Parts[0].Text
	f.prompt = config.SystemInstruction.Parts[0].Text
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}}},
		},
	}, nil
}

var today = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"plain array", `[{"kind": "debt"}, {"kind": "transaction"}]`, 2, false},
		{"json fence", "```json\n[{\"kind\": \"debt\"}]\n```", 1, false},
		{"bare fence", "```\n[{\"kind\": \"debt\"}]\n```", 1, false},
		{"surrounding prose", "Here you go:\n[{\"kind\": \"debt\"}]\nHope that helps.", 1, false},
		{"single object", `{"intent": "debt", "data": {"amount": 5}}`, 1, false},
		{"empty", "   ", 0, true},
		{"fence only", "```", 0, true},
		{"not json", "I could not understand that.", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestGemini_Classify(t *testing.T) {
	fake := &fakeModels{text: "```json\n[{\"kind\": \"transaction\", \"amount\": 150}]\n```"}
	g := newGemini(fake, GeminiConfig{Categories: []string{"Food", "Rent"}})

	got, err := g.Classify(context.Background(), "Lunch 150", today)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "transaction", got[0]["kind"])

	assert.Equal(t, DefaultModelName, fake.model)
	assert.Equal(t, "Lunch 150", fake.input)
	assert.Contains(t, fake.prompt, "  - Food\n")
	assert.Contains(t, fake.prompt, "Today's date is 2025-06-10.")
}

func TestGemini_ClassifyErrors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeModels
	}{
		{"transport failure", &fakeModels{err: errors.New("connection reset")}},
		{"deadline", &fakeModels{err: context.DeadlineExceeded}},
		{"garbage output", &fakeModels{text: "sorry"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(tt.fake, GeminiConfig{Model: "gemini-test"})
			_, err := g.Classify(context.Background(), "Lunch 150", today)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Equal(t, "gemini-test", tt.fake.model)
		})
	}
}

func TestNewGemini_NoKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStatic(t *testing.T) {
	s := Static{{"kind": "debt", "amount": 5.0}}

	got, err := s.Classify(context.Background(), "anything", today)
	require.NoError(t, err)
	got[0]["amount"] = 10.0
	assert.Equal(t, 5.0, s[0]["amount"], "callers cannot mutate the fixture")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Classify(ctx, "anything", today)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBuildPrompt_NoCategories(t *testing.T) {
	p := BuildPrompt(nil, today)
	assert.NotContains(t, p, "Use ONLY the following categories")
	assert.Contains(t, p, `"last working day"`)
}
