package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/agenthands/medwise/internal/config"
	"github.com/agenthands/medwise/internal/core/drug"
	"github.com/agenthands/medwise/internal/core/schema"
	"github.com/agenthands/medwise/internal/core/shape"
	"github.com/agenthands/medwise/internal/core/translate"
	"github.com/agenthands/medwise/internal/driver"
	"github.com/agenthands/medwise/internal/llm"
	"github.com/agenthands/medwise/internal/metrics"
)

// MedWise routes free-text questions to the translator and drug names to the
// aggregator. Input is validated before any store or LLM access and every
// result passes through the shaper.
type MedWise struct {
	Driver     driver.GraphDriver
	Executor   *driver.Executor
	Schema     *schema.Registry
	Aggregator *drug.Aggregator
	Translator *translate.Translator
	Logger     *zap.Logger
}

func NewMedWise(d driver.GraphDriver, llmClient llm.LLMClient, reg *schema.Registry, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *MedWise {
	if logger == nil {
		logger = zap.NewNop()
	}
	executor := driver.NewExecutor(d, m, logger)
	return &MedWise{
		Driver:     d,
		Executor:   executor,
		Schema:     reg,
		Aggregator: drug.NewAggregator(executor),
		Translator: translate.NewTranslator(llmClient, reg, executor, cfg.Prompts, m, logger),
		Logger:     logger,
	}
}

func (mw *MedWise) BuildIndices(ctx context.Context) error {
	return mw.Driver.BuildIndices(ctx)
}

// Ask answers a free-text question.
func (mw *MedWise) Ask(ctx context.Context, question string) (shape.AnswerResponse, error) {
	_, resp, err := mw.AskVerbose(ctx, question)
	return resp, err
}

// AskVerbose is Ask that also returns the translator result, including the
// generated Cypher and raw rows.
func (mw *MedWise) AskVerbose(ctx context.Context, question string) (*translate.Result, shape.AnswerResponse, error) {
	q, err := shape.ValidateQuestion(question)
	if err != nil {
		return nil, shape.AnswerResponse{}, err
	}

	res, err := mw.Translator.TranslateAndAnswer(ctx, q)
	if err != nil {
		return nil, shape.AnswerResponse{}, err
	}
	resp, err := shape.Answer(res)
	return res, resp, err
}

// CompareDrug returns the brand / generic / alternatives record for an exact
// brand name.
func (mw *MedWise) CompareDrug(ctx context.Context, drugName string) (shape.DrugResponse, error) {
	name, err := shape.ValidateDrugName(drugName)
	if err != nil {
		return shape.DrugResponse{}, err
	}

	c, err := mw.Aggregator.Lookup(ctx, name)
	if err != nil {
		return shape.DrugResponse{}, err
	}
	return shape.Drug(name, c)
}

func (mw *MedWise) Close(ctx context.Context) error {
	return mw.Driver.Close(ctx)
}
