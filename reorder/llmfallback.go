package reorder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// LLMReorderer is an alternate C6 backend selected via
// REORDERER_BACKEND=llm: it asks a Gemini model to propose an activity
// visiting order instead of running the learned seq2seq decode. It
// implements the same Reorderer interface as SeqReorderer, grounded on
// fweilun-Ark's internal/ai.GeminiProvider client construction and on
// rmad17-trip-planner's LLMProvider/LLMProviderFactory pluggable-backend
// idiom. The core never depends on this concretely — only through
// Reorderer — so a network failure here degrades exactly like any other
// C6 failure, per §7.
type LLMReorderer struct {
	model *genai.GenerativeModel
	close func()
}

// NewLLMReorderer builds a Gemini-backed reorderer. The caller is
// responsible for invoking Close when done with the process.
func NewLLMReorderer(ctx context.Context, apiKey string) (*LLMReorderer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("construct gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)
	return &LLMReorderer{model: model, close: client.Close}, nil
}

func (r *LLMReorderer) Close() {
	if r.close != nil {
		r.close()
	}
}

// Reorder asks the model for a JSON array permutation of the input ids. If
// the model returns anything that isn't a clean permutation of the input,
// Reorder returns an error so the registry falls back to original order —
// this backend never invents or drops ids.
func (r *LLMReorderer) Reorder(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return ids, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	prompt := fmt.Sprintf(
		"Given these activity ids in arbitrary order: %s\n"+
			"Return ONLY a JSON array containing every id exactly once, reordered "+
			"into a sensible visiting sequence for one day.",
		strings.Join(strIDs, ", "))

	resp, err := r.model.GenerateContent(context.Background(), genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini reorder request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates from gemini reorder request")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	var proposed []string
	if err := json.Unmarshal([]byte(text.String()), &proposed); err != nil {
		return nil, fmt.Errorf("parse gemini reorder response: %w", err)
	}

	input := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		input[id] = true
	}

	out := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, s := range proposed {
		id, err := uuid.Parse(s)
		if err != nil || !input[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) != len(ids) {
		return nil, fmt.Errorf("gemini reorder response was not a full permutation")
	}
	return out, nil
}
