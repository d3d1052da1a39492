package answer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agenthands/medwise/internal/core/common"
	"github.com/agenthands/medwise/internal/core/model"
	"github.com/agenthands/medwise/internal/llm"
	"github.com/agenthands/medwise/internal/metrics"
)

// NoResults is returned without consulting the LLM when the query matched
// nothing.
const NoResults = "I couldn't find any matching information in the drug database."

var (
	ErrEmptyAnswer = errors.New("empty answer")
	ErrUngrounded  = errors.New("answer does not reference any returned value")
)

type Answerer struct {
	LLM     llm.LLMClient
	Prompt  string
	Metrics *metrics.Metrics
}

func NewAnswerer(llmClient llm.LLMClient, prompt string, m *metrics.Metrics) *Answerer {
	return &Answerer{
		LLM:     llmClient,
		Prompt:  prompt,
		Metrics: m,
	}
}

// Answer phrases rows as a natural-language answer to question. The answer
// must mention at least one value from the rows.
func (a *Answerer) Answer(ctx context.Context, question string, rows []model.Row) (string, error) {
	if len(rows) == 0 {
		return NoResults, nil
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode rows: %w", err)
	}

	prompt := fmt.Sprintf(a.Prompt, question, data)

	start := time.Now()
	response, err := a.LLM.Generate(ctx, prompt)
	a.Metrics.ObserveLLM("answer", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	// Prefer the structured form, fall back to the raw text.
	text := strings.TrimSpace(response)
	if result, err := common.ParseJSON[model.GeneratedAnswer](response); err == nil && strings.TrimSpace(result.Answer) != "" {
		text = strings.TrimSpace(result.Answer)
	}

	if text == "" {
		return "", ErrEmptyAnswer
	}
	if !Grounded(text, rows) {
		return "", fmt.Errorf("%w: %q", ErrUngrounded, text)
	}
	return text, nil
}
