package pricing

import (
	"fmt"
	"math"
	"strings"
)

// Product constants for the single-SKU shop.
const (
	ProductName = "Testosterone Booster"
	UnitPrice   = 24.99
	Currency    = "EUR"

	MinQuantity = 1
	MaxQuantity = 20
)

// Address is a free-text shipping destination. Country is matched
// case-insensitively against the zone sets; no other validation applies here.
type Address struct {
	Country    string `json:"country" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Street     string `json:"street" validate:"required"`
}

// Request is the inbound pricing payload shared with the checkout endpoints.
type Request struct {
	Quantity int     `json:"quantity" validate:"required,gte=1,lte=20"`
	Address  Address `json:"address" validate:"required"`
}

// Quote aggregates the computed pricing components. Monetary values are
// rounded to 2 decimal places.
type Quote struct {
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Total        float64 `json:"total"`
	ShippingRule string  `json:"shipping_rule"`
}

// QuantityError reports a quantity outside the orderable range.
type QuantityError struct {
	Quantity int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("quantity %d outside [%d,%d]", e.Quantity, MinQuantity, MaxQuantity)
}

// shippingRule pairs a destination/quantity predicate with its outcome.
// Rules are evaluated in order and the first match wins, so branch order
// carries meaning: domestic rules precede the EU bloc, which precedes the
// international catch-all.
type shippingRule struct {
	Applies     func(quantity int, addr Address) bool
	Cost        float64
	Description string
}

// Engine computes order totals from an ordered shipping rule table.
type Engine struct {
	unitPrice float64
	rules     []shippingRule
}

// NewEngine builds the default engine: Germany is the domestic country with
// Berlin as its capital, the EU member states form the regional bloc, and
// everything else ships at the international rate.
func NewEngine() *Engine {
	domestic := stringSet("germany", "de", "deutschland")
	eu := stringSet(
		"austria", "belgium", "bulgaria", "croatia", "cyprus", "czechia", "czech republic",
		"denmark", "estonia", "finland", "france", "germany", "greece", "hungary",
		"ireland", "italy", "latvia", "lithuania", "luxembourg", "malta", "netherlands",
		"poland", "portugal", "romania", "slovakia", "slovenia", "spain", "sweden",
	)

	isDomestic := func(addr Address) bool { return domestic[normalize(addr.Country)] }
	isEU := func(addr Address) bool { return eu[normalize(addr.Country)] }

	return &Engine{
		unitPrice: UnitPrice,
		rules: []shippingRule{
			{
				Applies:     func(_ int, a Address) bool { return isDomestic(a) && normalize(a.City) == "berlin" },
				Cost:        0,
				Description: "Berlin: Free same-day delivery",
			},
			{
				Applies:     func(q int, a Address) bool { return isDomestic(a) && q == 2 },
				Cost:        0,
				Description: "Germany (non-Berlin): Free shipping for exactly 2 bottles",
			},
			{
				Applies:     func(_ int, a Address) bool { return isDomestic(a) },
				Cost:        7.99,
				Description: "Germany (non-Berlin): €7.99 shipping",
			},
			{
				Applies:     func(q int, a Address) bool { return isEU(a) && q == 3 },
				Cost:        0,
				Description: "EU (non-DE): Free shipping for exactly 3 bottles",
			},
			{
				Applies:     func(_ int, a Address) bool { return isEU(a) },
				Cost:        14.99,
				Description: "EU (non-DE): €14.99 shipping",
			},
			{
				Applies:     func(q int, _ Address) bool { return q == 5 },
				Cost:        0,
				Description: "International: Free shipping for exactly 5 bottles",
			},
			{
				Applies:     func(int, Address) bool { return true },
				Cost:        19.99,
				Description: "International: €19.99 shipping",
			},
		},
	}
}

// Quote computes unit price, subtotal, shipping and total for the given
// quantity and destination. It is pure: same inputs, same outputs, no side
// effects. Quantity outside the orderable range fails before any rule runs.
func (e *Engine) Quote(quantity int, addr Address) (Quote, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return Quote{}, &QuantityError{Quantity: quantity}
	}

	cost, rule := e.shipping(quantity, addr)
	subtotal := e.unitPrice * float64(quantity)
	total := subtotal + cost

	return Quote{
		ProductPrice: round2(e.unitPrice),
		Quantity:     quantity,
		Subtotal:     round2(subtotal),
		ShippingCost: round2(cost),
		Total:        round2(total),
		ShippingRule: rule,
	}, nil
}

func (e *Engine) shipping(quantity int, addr Address) (float64, string) {
	for _, r := range e.rules {
		if r.Applies(quantity, addr) {
			return r.Cost, r.Description
		}
	}
	// The table ends with a catch-all, so this is unreachable.
	return 0, ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func stringSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// round2 rounds half away from zero to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
