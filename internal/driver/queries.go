package driver

const (
	// PriceOrder is the numeric sort key for generics.
	PriceOrder = `toFloat(trim(replace(toString(g.price), '$', ''))) ASC`

	// DrugComparisonQuery gathers everything about one brand drug in a single
	// round trip. Only the first name match is used. Generics are ordered by
	// numeric price before collection so the first element is the cheapest.
	// String prices such as "$4.99" are coerced the same way the aggregator
	// reads them; null and unparseable prices sort last.
	DrugComparisonQuery = `
		MATCH (b:BrandDrug {name: $name})
		WITH b LIMIT 1
		OPTIONAL MATCH (b)-[:OWNED_BY]->(c:Company)
		OPTIONAL MATCH (b)-[:HAS_SIDE_EFFECT]->(bse:SideEffect)
		WITH b,
			head(collect(DISTINCT c.name)) AS company,
			collect(DISTINCT bse {.name, .severity}) AS brand_side_effects
		OPTIONAL MATCH (b)-[:HAS_GENERIC]->(g:GenericDrug)
		OPTIONAL MATCH (g)-[:AVAILABLE_AT]->(r:Retailer)
		OPTIONAL MATCH (g)-[:HAS_SIDE_EFFECT]->(gse:SideEffect)
		WITH b, company, brand_side_effects, g,
			collect(DISTINCT r {.name, .url}) AS retailers,
			collect(DISTINCT gse {.name, .severity}) AS side_effects
		ORDER BY ` + PriceOrder + `
		WITH b, company, brand_side_effects,
			collect(g {.name, .price, .quantity, .dosage, .description, .source,
				retailers: retailers, side_effects: side_effects}) AS generics
		RETURN b {.name, .price, .quantity, .dosage, .description, .source, .retailer} AS brand,
			company, brand_side_effects, generics
	`
)

// IndexQueries are idempotent name indexes for the lookup keys.
var IndexQueries = []string{
	"CREATE INDEX brand_drug_name IF NOT EXISTS FOR (n:BrandDrug) ON (n.name)",
	"CREATE INDEX generic_drug_name IF NOT EXISTS FOR (n:GenericDrug) ON (n.name)",
}
