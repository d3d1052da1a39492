package drug

import (
	"github.com/agenthands/medwise/internal/core/model"
)

// Normalize applies the comparison shaping rules to folded facts. The first
// generic is the primary generic and the rest are alternatives.
func Normalize(f model.DrugFacts) *model.Comparison {
	c := &model.Comparison{
		Brand:        brandView(f),
		Alternatives: []model.GenericView{},
	}

	if len(f.Generics) == 0 {
		return c
	}

	primary := genericView(f.Generics[0], model.GenericDescription)
	c.Generic = &primary
	for _, g := range f.Generics[1:] {
		c.Alternatives = append(c.Alternatives, genericView(g, model.AlternativeDescription))
	}
	return c
}

func brandView(f model.DrugFacts) model.BrandView {
	b := f.Brand
	v := model.BrandView{
		Name:        b.Name,
		Quantity:    orDefault(b.Quantity, model.Unknown),
		Dosage:      orDefault(b.Dosage, model.Unknown),
		Description: orDefault(b.Description, model.BrandDescription),
		Source:      orDefault(b.Source, model.DefaultSource),
		Company:     orDefault(f.Company, ""),
		SideEffects: nonNil(f.SideEffects),
	}

	// Brand price is often unmodeled, so absent means 0 here and only here.
	// Every other missing price stays unknown.
	if b.Price != nil {
		v.Price = *b.Price
	}

	if f.LegacyRetailer != nil {
		v.Retailer = &model.Retailer{Name: *f.LegacyRetailer}
	}
	return v
}

func genericView(g model.GenericFacts, description string) model.GenericView {
	v := model.GenericView{
		Name:        g.Name,
		Price:       model.UnknownPrice,
		Quantity:    orDefault(g.Quantity, model.Unknown),
		Dosage:      orDefault(g.Dosage, model.Unknown),
		Description: orDefault(g.Description, description),
		Source:      orDefault(g.Source, model.DefaultSource),
		SideEffects: nonNil(g.SideEffects),
	}
	if g.Price != nil {
		v.Price = model.KnownPrice(*g.Price)
	}
	if len(g.Retailers) > 0 {
		r := g.Retailers[0]
		v.Retailer = &r
	}
	return v
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func nonNil(se []model.SideEffect) []model.SideEffect {
	if se == nil {
		return []model.SideEffect{}
	}
	return se
}
