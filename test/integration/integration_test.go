//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/medwise/internal/config"
	"github.com/agenthands/medwise/internal/core"
	"github.com/agenthands/medwise/internal/core/apperr"
	"github.com/agenthands/medwise/internal/core/schema"
	"github.com/agenthands/medwise/internal/driver"
	"github.com/agenthands/medwise/internal/llm"
	"github.com/agenthands/medwise/internal/metrics"
)

const seedCypher = `
MERGE (b:BrandDrug {name: $brand})
SET b.price = 11.49, b.test_run = $run
MERGE (c:Company {name: $company})
SET c.test_run = $run
MERGE (b)-[:OWNED_BY]->(c)
MERGE (se:SideEffect {name: $sideEffect, severity: 'mild'})
SET se.test_run = $run
MERGE (b)-[:HAS_SIDE_EFFECT]->(se)
WITH b
UNWIND $generics AS gen
MERGE (g:GenericDrug {name: gen.name})
SET g.price = gen.price, g.test_run = $run
MERGE (b)-[:HAS_GENERIC]->(g)
MERGE (r:Retailer {name: gen.retailer})
SET r.url = gen.url, r.test_run = $run
MERGE (g)-[:AVAILABLE_AT]->(r)
`

const cleanupCypher = `MATCH (n {test_run: $run}) DETACH DELETE n`

type env struct {
	cfg    *config.Config
	driver *driver.Neo4jDriver
	run    string
	brand  string
}

func setup(t *testing.T) *env {
	t.Helper()
	_ = godotenv.Load("../../.env")

	if os.Getenv("NEO4J_URI") == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}

	cfg, err := config.LoadOrDefault("../../config/config.toml")
	require.NoError(t, err)

	ctx := context.Background()
	d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close(context.Background()) })

	run := uuid.New().String()
	e := &env{cfg: cfg, driver: d, run: run, brand: fmt.Sprintf("Tylenol-%s", run[:8])}

	params := map[string]interface{}{
		"brand":      e.brand,
		"company":    "Kenvue-" + run[:8],
		"run":        run,
		"sideEffect": "Nausea-" + run[:8],
		"generics": []interface{}{
			map[string]interface{}{"name": "Acetaminophen Rapid Release-" + run[:8], "price": 10.00, "retailer": "CVS-" + run[:8], "url": "https://www.cvs.com"},
			map[string]interface{}{"name": "Acetaminophen 500mg-" + run[:8], "price": 7.50, "retailer": "Walmart-" + run[:8], "url": "https://www.walmart.com"},
		},
	}
	_, err = neo4j.ExecuteQuery(ctx, d.Driver, seedCypher, params, neo4j.EagerResultTransformer, dbOpts(cfg)...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = neo4j.ExecuteQuery(context.Background(), d.Driver, cleanupCypher,
			map[string]interface{}{"run": run}, neo4j.EagerResultTransformer, dbOpts(cfg)...)
	})
	return e
}

func dbOpts(cfg *config.Config) []neo4j.ExecuteQueryConfigurationOption {
	if cfg.Neo4j.Database == "" {
		return nil
	}
	return []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithDatabase(cfg.Neo4j.Database)}
}

func TestCompareDrug_Live(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	mw := core.NewMedWise(e.driver, nil, schema.MustDefault(), e.cfg, metrics.New(), nil)
	require.NoError(t, mw.BuildIndices(ctx))

	resp, err := mw.CompareDrug(ctx, e.brand)
	require.NoError(t, err)

	assert.Equal(t, e.brand, resp.Brand.Name)
	assert.InDelta(t, 11.49, resp.Brand.Price, 0.001)
	require.NotNil(t, resp.Generic)
	assert.Equal(t, "Acetaminophen 500mg-"+e.run[:8], resp.Generic.Name)
	require.NotNil(t, resp.Generic.Retailer)
	assert.Equal(t, "Walmart-"+e.run[:8], resp.Generic.Retailer.Name)
	require.Len(t, resp.Brand.SideEffects, 1)
	assert.Equal(t, "Nausea-"+e.run[:8], resp.Brand.SideEffects[0].Name)
	require.Len(t, resp.Alternatives, 1)
	assert.Equal(t, "Acetaminophen Rapid Release-"+e.run[:8], resp.Alternatives[0].Name)

	_, err = mw.CompareDrug(ctx, "Unknown-"+e.run)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestAsk_Live(t *testing.T) {
	e := setup(t)
	if os.Getenv("LLM_PROVIDER") == "" {
		t.Skip("Skipping live translation test: LLM_PROVIDER not set")
	}
	ctx := context.Background()

	llmClient, err := llm.NewClient(ctx, e.cfg.LLM)
	require.NoError(t, err)

	mw := core.NewMedWise(e.driver, llmClient, schema.MustDefault(), e.cfg, metrics.New(), nil)

	res, resp, err := mw.AskVerbose(ctx, fmt.Sprintf("What is the cheapest generic alternative to %s?", e.brand))
	require.NoError(t, err)
	t.Logf("Cypher: %s", res.Cypher)
	t.Logf("Answer: %s", resp.Answer)

	assert.NoError(t, e.cfg.Validate())
	assert.NotEmpty(t, resp.Answer)
}
