package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/medwise/internal/config"
	"github.com/agenthands/medwise/internal/core/model"
)

type MockLLMClient struct {
	Response   string
	Err        error
	Calls      int
	LastPrompt string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

var advilRows = []model.Row{{"g.name": "Ibuprofen 200mg", "g.price": 4.5}}

func TestAnswer(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"answer": "The cheapest generic for Advil is Ibuprofen 200mg at $4.50."}`}
	a := NewAnswerer(mockLLM, config.DefaultAnswerPrompt, nil)

	got, err := a.Answer(context.Background(), "What is the cheapest generic alternative to Advil?", advilRows)
	require.NoError(t, err)
	assert.Equal(t, "The cheapest generic for Advil is Ibuprofen 200mg at $4.50.", got)
	assert.Contains(t, mockLLM.LastPrompt, "What is the cheapest generic alternative to Advil?")
	assert.Contains(t, mockLLM.LastPrompt, `"g.name": "Ibuprofen 200mg"`)
}

func TestAnswer_PlainText(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "  Ibuprofen 200mg is the cheapest option.  "}
	a := NewAnswerer(mockLLM, "%s %s", nil)

	got, err := a.Answer(context.Background(), "q", advilRows)
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen 200mg is the cheapest option.", got)
}

func TestAnswer_NoRowsSkipsLLM(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "should not be used"}
	a := NewAnswerer(mockLLM, "%s %s", nil)

	got, err := a.Answer(context.Background(), "Who owns Unknown123?", []model.Row{})
	require.NoError(t, err)
	assert.Equal(t, NoResults, got)
	assert.Equal(t, 0, mockLLM.Calls)
}

func TestAnswer_Ungrounded(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"answer": "Try Naproxen, it is the cheapest."}`}
	a := NewAnswerer(mockLLM, "%s %s", nil)

	_, err := a.Answer(context.Background(), "q", advilRows)
	assert.True(t, errors.Is(err, ErrUngrounded))
}

func TestAnswer_Empty(t *testing.T) {
	a := NewAnswerer(&MockLLMClient{Response: "   "}, "%s %s", nil)

	_, err := a.Answer(context.Background(), "q", advilRows)
	assert.True(t, errors.Is(err, ErrEmptyAnswer))
}

func TestAnswer_LLMError(t *testing.T) {
	a := NewAnswerer(&MockLLMClient{Err: errors.New("model offline")}, "%s %s", nil)

	_, err := a.Answer(context.Background(), "q", advilRows)
	assert.ErrorContains(t, err, "model offline")
}

func TestGrounded(t *testing.T) {
	rows := []model.Row{
		{"c.name": "Bayer", "count": int64(3)},
		{"generics": []any{map[string]any{"name": "Loratadine", "price": 7.0}}},
	}

	assert.True(t, Grounded("Claritin is owned by bayer.", rows))
	assert.True(t, Grounded("There are 3 of them.", rows))
	assert.True(t, Grounded("Loratadine costs $7.00", rows))
	assert.False(t, Grounded("I am not sure.", rows))
	assert.False(t, Grounded("anything", []model.Row{{"flag": true}}))
}

func TestGrounded_GraphValues(t *testing.T) {
	node := dbtype.Node{Labels: []string{"GenericDrug"}, Props: map[string]any{"name": "Equate Ibuprofen", "price": 3.48}}
	rows := []model.Row{{"g": node}}

	assert.False(t, Grounded("Hallucinated Pill is cheapest at $0.01.", rows))
	assert.True(t, Grounded("Equate Ibuprofen is the cheapest generic.", rows))
	assert.True(t, Grounded("The cheapest costs $3.48.", rows))

	rel := dbtype.Relationship{Type: "AVAILABLE_AT", Props: map[string]any{"channel": "online"}}
	assert.True(t, Grounded("It is sold online.", []model.Row{{"r": rel}}))

	path := dbtype.Path{
		Nodes: []dbtype.Node{
			{Props: map[string]any{"name": "Advil"}},
			{Props: map[string]any{"name": "Equate Ibuprofen"}},
		},
		Relationships: []dbtype.Relationship{{Type: "HAS_GENERIC"}},
	}
	assert.True(t, Grounded("Advil has a generic.", []model.Row{{"p": path}}))
	assert.False(t, Grounded("No idea.", []model.Row{{"p": path}}))
}

func TestGrounded_WholeNumbers(t *testing.T) {
	rows := []model.Row{{"rank": int64(1)}}

	assert.False(t, Grounded("Brand X is 1st choice.", rows))
	assert.False(t, Grounded("There are 10 of them.", rows))
	assert.True(t, Grounded("There is 1 generic.", rows))

	prices := []model.Row{{"g.price": 7.5}}
	assert.True(t, Grounded("It costs $7.50.", prices))
	assert.False(t, Grounded("It costs $17.50.", prices))
}
