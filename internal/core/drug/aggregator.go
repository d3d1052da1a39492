// Package drug resolves a brand drug name into a normalized comparison of the
// brand, its cheapest generic and the remaining generic alternatives.
package drug

import (
	"cmp"
	"context"
	"slices"

	"github.com/agenthands/medwise/internal/core/common"
	"github.com/agenthands/medwise/internal/core/model"
	"github.com/agenthands/medwise/internal/driver"
)

// RowExecutor is the query capability the aggregator needs.
type RowExecutor interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]model.Row, error)
}

type Aggregator struct {
	Executor RowExecutor
}

func NewAggregator(executor RowExecutor) *Aggregator {
	return &Aggregator{Executor: executor}
}

// Lookup runs one traversal for name and returns the normalized comparison.
// A nil record with a nil error means no BrandDrug has that exact name.
// Executor errors are returned unchanged.
func (a *Aggregator) Lookup(ctx context.Context, name string) (*model.Comparison, error) {
	rows, err := a.Executor.Execute(ctx, driver.DrugComparisonQuery, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	facts := Fold(rows[0])
	return Normalize(facts), nil
}

// Fold reads one traversal row into typed facts without applying defaults.
// Generics come out cheapest first; equal prices keep traversal order.
func Fold(row model.Row) model.DrugFacts {
	brand := common.Map(row["brand"])

	facts := model.DrugFacts{
		Brand:          properties(brand),
		LegacyRetailer: common.OptString(brand, "retailer"),
		Company:        common.OptString(map[string]any(row), "company"),
		SideEffects:    sideEffects(row["brand_side_effects"]),
	}

	for _, g := range common.Maps(row["generics"]) {
		facts.Generics = append(facts.Generics, model.GenericFacts{
			DrugProperties: properties(g),
			Retailers:      retailers(g["retailers"]),
			SideEffects:    sideEffects(g["side_effects"]),
		})
	}
	slices.SortStableFunc(facts.Generics, func(a, b model.GenericFacts) int {
		return comparePrice(a.Price, b.Price)
	})
	return facts
}

// comparePrice orders known prices ascending with unknown prices last.
func comparePrice(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

func properties(m map[string]any) model.DrugProperties {
	return model.DrugProperties{
		Name:        common.String(m, "name"),
		Price:       common.OptFloat(m, "price"),
		Quantity:    common.OptString(m, "quantity"),
		Dosage:      common.OptString(m, "dosage"),
		Description: common.OptString(m, "description"),
		Source:      common.OptString(m, "source"),
	}
}

// sideEffects drops entries without a name and orders the rest by name then
// severity so repeated lookups produce identical output.
func sideEffects(v any) []model.SideEffect {
	out := []model.SideEffect{}
	for _, m := range common.Maps(v) {
		name := common.String(m, "name")
		if name == "" {
			continue
		}
		se := model.SideEffect{Name: name, Severity: common.String(m, "severity")}
		if se.Severity == "" {
			se.Severity = model.Unknown
		}
		if !slices.Contains(out, se) {
			out = append(out, se)
		}
	}
	slices.SortFunc(out, func(a, b model.SideEffect) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Severity, b.Severity)
	})
	return out
}

func retailers(v any) []model.Retailer {
	var out []model.Retailer
	for _, m := range common.Maps(v) {
		name := common.String(m, "name")
		if name == "" {
			continue
		}
		out = append(out, model.Retailer{Name: name, URL: common.String(m, "url")})
	}
	slices.SortFunc(out, func(a, b model.Retailer) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.URL, b.URL)
	})
	return out
}
