package model

// GeneratedQuery is the JSON object the Cypher prompt asks the LLM for.
type GeneratedQuery struct {
	Cypher string `json:"cypher"`
}

// GeneratedAnswer is the JSON object the answer prompt asks the LLM for.
type GeneratedAnswer struct {
	Answer string `json:"answer"`
}

// Row is one result record keyed by column alias.
type Row map[string]any
