// Package translate turns a free-text question into a schema-checked Cypher
// query, runs it and phrases the rows as an answer.
//
// The LLM is treated as an untrusted black box: it only ever sees the fixed
// schema context, and its query is validated against the schema before the
// store sees it. Nothing is retried.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/medwise/internal/config"
	"github.com/agenthands/medwise/internal/core/answer"
	"github.com/agenthands/medwise/internal/core/apperr"
	"github.com/agenthands/medwise/internal/core/common"
	"github.com/agenthands/medwise/internal/core/model"
	"github.com/agenthands/medwise/internal/core/schema"
	"github.com/agenthands/medwise/internal/llm"
	"github.com/agenthands/medwise/internal/metrics"
)

// Translation stages reported in apperr.TranslationError.
const (
	StageGenerate = "generate"
	StageValidate = "validate"
	StageExecute  = "execute"
	StageAnswer   = "answer"
)

type RowExecutor interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]model.Row, error)
}

type Result struct {
	Question string
	Cypher   string
	Rows     []model.Row
	Answer   string
}

type Translator struct {
	LLM      llm.LLMClient
	Schema   *schema.Registry
	Executor RowExecutor
	Answerer *answer.Answerer
	Prompt   string
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func NewTranslator(llmClient llm.LLMClient, reg *schema.Registry, executor RowExecutor, prompts config.Prompts, m *metrics.Metrics, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		LLM:      llmClient,
		Schema:   reg,
		Executor: executor,
		Answerer: answer.NewAnswerer(llmClient, prompts.Answer, m),
		Prompt:   prompts.Cypher,
		Metrics:  m,
		Logger:   logger,
	}
}

// GenerateCypher asks the LLM for a query and validates it against the schema.
func (t *Translator) GenerateCypher(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(t.Prompt, t.Schema.Render(), question)

	start := time.Now()
	response, err := t.LLM.Generate(ctx, prompt)
	t.Metrics.ObserveLLM("cypher", start, err)
	if err != nil {
		return "", &apperr.TranslationError{Stage: StageGenerate, Err: err}
	}

	cypher := extractCypher(response)
	if cypher == "" {
		return "", &apperr.TranslationError{Stage: StageGenerate, Err: errors.New("no query in model response")}
	}

	if err := t.Schema.Validate(cypher); err != nil {
		t.Logger.Warn("Rejected generated query", zap.String("cypher", cypher), zap.Error(err))
		return "", &apperr.TranslationError{Stage: StageValidate, Query: cypher, Err: err}
	}
	return cypher, nil
}

// TranslateAndAnswer runs the whole question pipeline. Every failure is a
// *apperr.TranslationError carrying the underlying cause.
func (t *Translator) TranslateAndAnswer(ctx context.Context, question string) (*Result, error) {
	cypher, err := t.GenerateCypher(ctx, question)
	if err != nil {
		return nil, err
	}
	t.Logger.Debug("Generated Cypher", zap.String("question", question), zap.String("cypher", cypher))

	rows, err := t.Executor.Execute(ctx, cypher, nil)
	if err != nil {
		return nil, &apperr.TranslationError{Stage: StageExecute, Query: cypher, Err: err}
	}

	text, err := t.Answerer.Answer(ctx, question, rows)
	if err != nil {
		return nil, &apperr.TranslationError{Stage: StageAnswer, Query: cypher, Err: err}
	}

	return &Result{
		Question: question,
		Cypher:   cypher,
		Rows:     rows,
		Answer:   text,
	}, nil
}

func extractCypher(response string) string {
	var cypher string
	if result, err := common.ParseJSON[model.GeneratedQuery](response); err == nil && strings.TrimSpace(result.Cypher) != "" {
		cypher = result.Cypher
	} else {
		cypher = common.StripCodeFence(response)
	}
	return strings.TrimSuffix(strings.TrimSpace(cypher), ";")
}
