package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/medwise/internal/config"
	"github.com/agenthands/medwise/internal/core/apperr"
	"github.com/agenthands/medwise/internal/core/schema"
	"github.com/agenthands/medwise/internal/driver"
	"github.com/agenthands/medwise/internal/metrics"
)

var comparisonKeys = []string{"brand", "company", "brand_side_effects", "generics"}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func newTestMedWise(d *MockDriver, l *MockLLM) *MedWise {
	return NewMedWise(d, l, schema.MustDefault(), testConfig(), metrics.New(), nil)
}

func tylenolResult() neo4j.EagerResult {
	return neo4j.EagerResult{
		Keys: comparisonKeys,
		Records: []*neo4j.Record{{
			Keys: comparisonKeys,
			Values: []interface{}{
				map[string]interface{}{"name": "Tylenol", "price": 11.49},
				"Kenvue",
				[]interface{}{},
				[]interface{}{
					map[string]interface{}{"name": "Acetaminophen 500mg", "price": 7.50, "retailers": []interface{}{}, "side_effects": []interface{}{}},
					map[string]interface{}{"name": "Acetaminophen Rapid Release", "price": 10.00, "retailers": []interface{}{}, "side_effects": []interface{}{}},
				},
			},
		}},
	}
}

func TestCompareDrug_Tylenol(t *testing.T) {
	d := &MockDriver{MockResult: tylenolResult()}
	mw := newTestMedWise(d, &MockLLM{})

	resp, err := mw.CompareDrug(context.Background(), "Tylenol")
	require.NoError(t, err)

	assert.Equal(t, driver.DrugComparisonQuery, d.QueryExecuted)
	assert.Equal(t, "Tylenol", d.QueryParams["name"])
	assert.Equal(t, 1, d.Calls)

	require.NotNil(t, resp.Generic)
	assert.Equal(t, "Acetaminophen 500mg", resp.Generic.Name)
	require.Len(t, resp.Alternatives, 1)
	assert.Equal(t, "Acetaminophen Rapid Release", resp.Alternatives[0].Name)
	assert.Equal(t, "Kenvue", resp.Brand.Company)
}

func TestCompareDrug_NotFound(t *testing.T) {
	d := &MockDriver{MockResult: neo4j.EagerResult{Keys: comparisonKeys}}
	mw := newTestMedWise(d, &MockLLM{})

	_, err := mw.CompareDrug(context.Background(), "Unknown123")

	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, apperr.ClassNotFound, apperr.Classify(err))
}

func TestCompareDrug_StoreFailure(t *testing.T) {
	d := &MockDriver{Err: errors.New("ServiceUnavailable")}
	mw := newTestMedWise(d, &MockLLM{})

	_, err := mw.CompareDrug(context.Background(), "Tylenol")

	var qe *apperr.QueryExecutionError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, apperr.ClassServer, apperr.Classify(err))
	assert.Equal(t, 1, d.Calls)
}

func TestCompareDrug_Idempotent(t *testing.T) {
	d := &MockDriver{MockResult: tylenolResult()}
	mw := newTestMedWise(d, &MockLLM{})

	first, err := mw.CompareDrug(context.Background(), "Tylenol")
	require.NoError(t, err)
	second, err := mw.CompareDrug(context.Background(), "Tylenol")
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

func TestValidationBeforeAccess(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		d := &MockDriver{MockResult: tylenolResult()}
		l := &MockLLM{Response: `{"cypher": "MATCH (c:Company) RETURN c.name"}`}
		mw := newTestMedWise(d, l)

		_, err := mw.CompareDrug(context.Background(), in)
		var ve *apperr.ValidationError
		assert.True(t, errors.As(err, &ve))

		_, err = mw.Ask(context.Background(), in)
		assert.True(t, errors.As(err, &ve))

		assert.Equal(t, 0, d.Calls, "store must not be touched for %q", in)
		assert.Equal(t, 0, l.Calls, "llm must not be called for %q", in)
	}
}

func TestAsk_CheapestAdvil(t *testing.T) {
	keys := []string{"g.name", "g.price"}
	d := &MockDriver{MockResult: neo4j.EagerResult{
		Keys: keys,
		Records: []*neo4j.Record{
			{Keys: keys, Values: []interface{}{"Equate Ibuprofen 200mg", 3.48}},
		},
	}}
	l := &MockLLM{ResponseQueue: []string{
		`{"cypher": "MATCH (:BrandDrug {name: \"Advil\"})-[:HAS_GENERIC]->(g:GenericDrug) RETURN g.name, g.price ORDER BY g.price ASC LIMIT 1"}`,
		`{"answer": "Equate Ibuprofen 200mg is the cheapest generic alternative to Advil at $3.48."}`,
	}}
	mw := newTestMedWise(d, l)

	res, resp, err := mw.AskVerbose(context.Background(), "What is the cheapest generic alternative to Advil?")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Answer)
	assert.Contains(t, resp.Answer, "Equate Ibuprofen 200mg")
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Equate Ibuprofen 200mg", res.Rows[0]["g.name"])
	assert.Equal(t, res.Cypher, d.QueryExecuted)
}

func TestAsk_TranslationFailureIsServerError(t *testing.T) {
	d := &MockDriver{}
	l := &MockLLM{Response: `{"cypher": "MATCH (a)-(b) RETURN a"}`}
	mw := newTestMedWise(d, l)

	_, err := mw.Ask(context.Background(), "Who makes Advil?")

	var te *apperr.TranslationError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, apperr.ClassServer, apperr.Classify(err))
	assert.Equal(t, 0, d.Calls)
}
