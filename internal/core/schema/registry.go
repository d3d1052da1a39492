// Package schema holds the fixed description of the drug graph: node labels,
// their properties, typed relationship directions and worked query examples.
//
// The Registry is the only context handed to the query translator and the
// reference every generated query is validated against. It is loaded once
// and never mutated, so it is safe for concurrent readers.
package schema

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed drug_schema.yaml
var drugSchemaYAML []byte

type Property struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"`
	Values []string `yaml:"values,omitempty"`
}

type Label struct {
	Name       string     `yaml:"name"`
	Properties []Property `yaml:"properties"`
}

// Relationship is a typed, directed edge. From and To list the labels allowed
// at each end.
type Relationship struct {
	Type string   `yaml:"type"`
	From []string `yaml:"from"`
	To   []string `yaml:"to"`
}

type Example struct {
	Question string `yaml:"question"`
	Cypher   string `yaml:"cypher"`
}

type document struct {
	Version       string         `yaml:"version"`
	Labels        []Label        `yaml:"labels"`
	Relationships []Relationship `yaml:"relationships"`
	Notes         []string       `yaml:"notes"`
	Examples      []Example      `yaml:"examples"`
}

type Registry struct {
	doc      document
	labels   map[string]Label
	rels     map[string]Relationship
	rendered string
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the process-wide drug schema. The embedded document is
// parsed on first use.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(drugSchemaYAML)
	})
	return defaultRegistry, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded schema as a
// programming error.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Parse builds a Registry from a YAML schema document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("schema has no version")
	}

	r := &Registry{
		doc:    doc,
		labels: make(map[string]Label, len(doc.Labels)),
		rels:   make(map[string]Relationship, len(doc.Relationships)),
	}
	for _, l := range doc.Labels {
		r.labels[l.Name] = l
	}
	for _, rel := range doc.Relationships {
		if rel.Type == "" {
			return nil, fmt.Errorf("schema relationship without type")
		}
		for _, end := range append(slices.Clone(rel.From), rel.To...) {
			if _, ok := r.labels[end]; !ok {
				return nil, fmt.Errorf("relationship %s references unknown label %s", rel.Type, end)
			}
		}
		r.rels[rel.Type] = rel
	}
	r.rendered = r.render()
	return r, nil
}

func (r *Registry) Version() string {
	return r.doc.Version
}

func (r *Registry) Labels() []Label {
	out := make([]Label, len(r.doc.Labels))
	for i, l := range r.doc.Labels {
		out[i] = Label{Name: l.Name, Properties: slices.Clone(l.Properties)}
	}
	return out
}

func (r *Registry) Relationships() []Relationship {
	out := make([]Relationship, len(r.doc.Relationships))
	for i, rel := range r.doc.Relationships {
		out[i] = Relationship{Type: rel.Type, From: slices.Clone(rel.From), To: slices.Clone(rel.To)}
	}
	return out
}

func (r *Registry) Examples() []Example {
	return slices.Clone(r.doc.Examples)
}

func (r *Registry) HasLabel(name string) bool {
	_, ok := r.labels[name]
	return ok
}

func (r *Registry) Relationship(relType string) (Relationship, bool) {
	rel, ok := r.rels[relType]
	return rel, ok
}

// Render returns the schema as prompt text: nodes, relationships, notes and
// worked examples.
func (r *Registry) Render() string {
	return r.rendered
}

func (r *Registry) render() string {
	var b strings.Builder
	b.WriteString("Nodes:\n")
	for _, l := range r.doc.Labels {
		props := make([]string, 0, len(l.Properties))
		for _, p := range l.Properties {
			if len(p.Values) > 0 {
				props = append(props, fmt.Sprintf("%s: %s (%s)", p.Name, p.Type, strings.Join(p.Values, "|")))
				continue
			}
			props = append(props, fmt.Sprintf("%s: %s", p.Name, p.Type))
		}
		fmt.Fprintf(&b, "- %s(%s)\n", l.Name, strings.Join(props, ", "))
	}

	b.WriteString("\nRelationships:\n")
	for _, rel := range r.doc.Relationships {
		for _, from := range rel.From {
			for _, to := range rel.To {
				fmt.Fprintf(&b, "- (:%s)-[:%s]->(:%s)\n", from, rel.Type, to)
			}
		}
	}

	if len(r.doc.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, n := range r.doc.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}

	if len(r.doc.Examples) > 0 {
		b.WriteString("\nExamples:\n")
		for _, ex := range r.doc.Examples {
			fmt.Fprintf(&b, "# %s\n%s\n\n", ex.Question, ex.Cypher)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
