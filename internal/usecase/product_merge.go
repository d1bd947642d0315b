package usecase

import "github.com/chemsearch/backend/internal/domain"

// overlay copies every field present in src onto dst
func overlay(dst, src domain.PartialProduct) domain.PartialProduct {
	setString(&dst.Title, src.Title)
	setString(&dst.URL, src.URL)
	setString(&dst.Supplier, src.Supplier)
	setString(&dst.Description, src.Description)
	setFloat(&dst.Price, src.Price)
	setString(&dst.CurrencyCode, src.CurrencyCode)
	setString(&dst.CurrencySymbol, src.CurrencySymbol)
	setFloat(&dst.USDPrice, src.USDPrice)
	setFloat(&dst.Quantity, src.Quantity)
	setString(&dst.UOM, src.UOM)
	setFloat(&dst.BaseQuantity, src.BaseQuantity)
	if src.Availability != "" {
		dst.Availability = src.Availability
	}
	setString(&dst.CAS, src.CAS)
	setString(&dst.Formula, src.Formula)
	setString(&dst.Grade, src.Grade)
	setString(&dst.SKU, src.SKU)
	setString(&dst.UUID, src.UUID)
	setString(&dst.ID, src.ID)
	setString(&dst.Vendor, src.Vendor)
	setString(&dst.SupplierCountry, src.SupplierCountry)
	if src.SupplierShipping != "" {
		dst.SupplierShipping = src.SupplierShipping
	}
	if src.PaymentMethods != nil {
		dst.PaymentMethods = append([]string(nil), src.PaymentMethods...)
	}
	setFloat(&dst.MatchPercentage, src.MatchPercentage)
	return dst
}

// inheritFromParent fills the fields v leaves empty from the parent.
// The parent's base quantity never carries over since it describes a
// different package size.
func inheritFromParent(parent domain.PartialProduct, v domain.Variant) domain.Variant {
	base := clonePartial(parent)
	base.BaseQuantity = nil
	return overlay(base, clonePartial(v))
}

func setString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func setFloat(dst **float64, src *float64) {
	if src != nil {
		f := *src
		*dst = &f
	}
}

func clonePartial(p domain.PartialProduct) domain.PartialProduct {
	out := p
	out.Price = cloneFloat(p.Price)
	out.USDPrice = cloneFloat(p.USDPrice)
	out.Quantity = cloneFloat(p.Quantity)
	out.BaseQuantity = cloneFloat(p.BaseQuantity)
	out.MatchPercentage = cloneFloat(p.MatchPercentage)
	if p.PaymentMethods != nil {
		out.PaymentMethods = append([]string(nil), p.PaymentMethods...)
	}
	return out
}

func cloneVariant(v domain.Variant) domain.Variant {
	return clonePartial(v)
}

func cloneVariants(vs []domain.Variant) []domain.Variant {
	if vs == nil {
		return nil
	}
	out := make([]domain.Variant, len(vs))
	for i, v := range vs {
		out[i] = cloneVariant(v)
	}
	return out
}

func cloneDraft(d domain.ProductDraft) domain.ProductDraft {
	out := domain.ProductDraft{
		PartialProduct: clonePartial(d.PartialProduct),
		Variants:       cloneVariants(d.Variants),
	}
	if d.Fuzz != nil {
		fuzz := *d.Fuzz
		out.Fuzz = &fuzz
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// toProduct converts a draft that passed IsProduct
func toProduct(d *domain.ProductDraft) *domain.Product {
	p := &domain.Product{
		Title:            d.Title,
		URL:              d.URL,
		Supplier:         d.Supplier,
		Price:            *d.Price,
		CurrencyCode:     d.CurrencyCode,
		CurrencySymbol:   d.CurrencySymbol,
		USDPrice:         *d.USDPrice,
		Quantity:         *d.Quantity,
		UOM:              d.UOM,
		BaseQuantity:     cloneFloat(d.BaseQuantity),
		Availability:     d.Availability,
		Description:      d.Description,
		CAS:              d.CAS,
		Formula:          d.Formula,
		Grade:            d.Grade,
		SKU:              d.SKU,
		UUID:             d.UUID,
		ID:               d.ID,
		Vendor:           d.Vendor,
		SupplierCountry:  d.SupplierCountry,
		SupplierShipping: d.SupplierShipping,
		MatchPercentage:  cloneFloat(d.MatchPercentage),
		Variants:         cloneVariants(d.Variants),
	}
	if d.PaymentMethods != nil {
		p.PaymentMethods = append([]string(nil), d.PaymentMethods...)
	}
	return p
}
