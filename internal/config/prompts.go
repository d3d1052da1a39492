package config

const DefaultCypherPrompt = `Task: Generate a Cypher statement to query a graph database of medications.
Instructions:
Use only the node labels, relationship types, properties and directions provided in the schema.
Do not use any other relationship types, labels or properties that are not provided.
Every relationship must have a type and a direction.

Schema:
%s

Return a JSON object with a single key "cypher" holding the Cypher statement.
Do not include explanations or apologies.

The question is:
%s`

const DefaultAnswerPrompt = `You are an assistant that answers questions about medications.
Use only the query results below to answer. They are authoritative; never doubt them
or add facts that are not in them. Mention the names and prices exactly as given.

Question:
%s

Query results (JSON):
%s

Return a JSON object with a single key "answer" holding a short, helpful answer.`
