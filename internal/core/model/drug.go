package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Sentinel defaults substituted when a graph property is absent.
const (
	Unknown = "unknown"

	DefaultSource = "Neo4j Drug Database"

	BrandDescription       = "Brand name medication"
	GenericDescription     = "Generic alternative"
	AlternativeDescription = "Alternative medication"
)

// Price is a numeric price that may be unknown. An unknown price marshals to
// the "unknown" sentinel, never to zero.
type Price struct {
	Value float64
	Known bool
}

func KnownPrice(v float64) Price {
	return Price{Value: v, Known: true}
}

var UnknownPrice = Price{}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Known || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return json.Marshal(Unknown)
	}
	return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = UnknownPrice
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = KnownPrice(v)
	return nil
}

// Less orders known prices ascending with unknown prices last.
func (p Price) Less(o Price) bool {
	if p.Known != o.Known {
		return p.Known
	}
	return p.Value < o.Value
}

type SideEffect struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

type Retailer struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// DrugProperties is a drug node as stored. Nil fields were absent in the graph.
type DrugProperties struct {
	Name        string
	Price       *float64
	Quantity    *string
	Dosage      *string
	Description *string
	Source      *string
}

type GenericFacts struct {
	DrugProperties
	Retailers   []Retailer
	SideEffects []SideEffect
}

// DrugFacts is everything one traversal returns for a brand drug, before any
// defaults are applied. Generics are in traversal order, cheapest first.
type DrugFacts struct {
	Brand          DrugProperties
	LegacyRetailer *string
	Company        *string
	SideEffects    []SideEffect
	Generics       []GenericFacts
}

type BrandView struct {
	Name        string       `json:"name"`
	Price       float64      `json:"price"`
	Quantity    string       `json:"quantity"`
	Dosage      string       `json:"dosage"`
	Description string       `json:"description"`
	Source      string       `json:"source"`
	Company     string       `json:"company,omitempty"`
	SideEffects []SideEffect `json:"sideEffects"`
	Retailer    *Retailer    `json:"retailer,omitempty"`
}

type GenericView struct {
	Name        string       `json:"name"`
	Price       Price        `json:"price"`
	Quantity    string       `json:"quantity"`
	Dosage      string       `json:"dosage"`
	Description string       `json:"description"`
	Source      string       `json:"source"`
	Retailer    *Retailer    `json:"retailer,omitempty"`
	SideEffects []SideEffect `json:"sideEffects"`
}

// Comparison is the normalized brand / primary generic / alternatives record.
// Generic is nil when the brand has no generics.
type Comparison struct {
	Brand        BrandView     `json:"brand"`
	Generic      *GenericView  `json:"generic"`
	Alternatives []GenericView `json:"alternatives"`
}
