package service

import "github.com/dtroode/codemap-billing/internal/model"

// Catalog is the set of configured paid plans.
type Catalog struct {
	offers []model.PlanOffer
}

var baseFeatures = []string{
	"Unlimited context requests",
	"Advanced token optimization",
	"Priority support",
	"Usage analytics",
}

// NewCatalog builds the catalog. Plans without a price id are not offered.
func NewCatalog(monthlyPriceID, yearlyPriceID string) Catalog {
	var c Catalog
	if monthlyPriceID != "" {
		c.offers = append(c.offers, model.PlanOffer{
			Key:      model.PlanMonthly,
			Name:     "Monthly Pro",
			PriceID:  monthlyPriceID,
			Interval: "month",
			Price:    9.99,
			Features: append([]string(nil), baseFeatures...),
		})
	}
	if yearlyPriceID != "" {
		c.offers = append(c.offers, model.PlanOffer{
			Key:      model.PlanYearly,
			Name:     "Yearly Pro",
			PriceID:  yearlyPriceID,
			Interval: model.BillingIntervalYear,
			Price:    99.99,
			Features: append(append([]string(nil), baseFeatures...), "2 months free"),
		})
	}
	return c
}

// Offers returns a copy of the configured plans.
func (c Catalog) Offers() []model.PlanOffer {
	out := make([]model.PlanOffer, len(c.offers))
	copy(out, c.offers)
	return out
}

// Resolve accepts either a price id or a plan key.
func (c Catalog) Resolve(selector string) (model.PlanOffer, bool) {
	for _, o := range c.offers {
		if o.PriceID == selector || string(o.Key) == selector {
			return o, true
		}
	}
	return model.PlanOffer{}, false
}
