package driver

import (
	"context"

	"go.uber.org/zap"

	"github.com/agenthands/medwise/internal/core/apperr"
	"github.com/agenthands/medwise/internal/core/model"
	"github.com/agenthands/medwise/internal/metrics"
)

// Executor is the single path from the pipeline to the graph store. It keeps
// the record order the query asked for, returns an empty slice when nothing
// matches and wraps every failure in *apperr.QueryExecutionError. It never
// retries.
type Executor struct {
	Driver  GraphDriver
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

func NewExecutor(d GraphDriver, m *metrics.Metrics, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{Driver: d, Metrics: m, Logger: logger}
}

func (e *Executor) Execute(ctx context.Context, query string, params map[string]any) ([]model.Row, error) {
	result, err := e.Driver.ExecuteQuery(ctx, query, params)
	e.Metrics.ObserveQuery(err)
	if err != nil {
		e.Logger.Debug("Query failed", zap.Error(err))
		return nil, &apperr.QueryExecutionError{Query: query, Err: err}
	}

	rows := make([]model.Row, 0, len(result.Records))
	for _, rec := range result.Records {
		if rec == nil {
			continue
		}
		row := make(model.Row, len(rec.Keys))
		for i, key := range rec.Keys {
			if i < len(rec.Values) {
				row[key] = rec.Values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
