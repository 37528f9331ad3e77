package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sarigama-yerra/checkout-api/internal/paypal"
	"github.com/sarigama-yerra/checkout-api/internal/pricing"
)

const purchaseReference = "TESTOSTERONE-BOOSTER"

// Gateway abstracts the payment provider operations the checkout flow needs.
type Gateway interface {
	CreateOrder(ctx context.Context, order paypal.OrderRequest) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (json.RawMessage, error)
}

// CreateOrderResponse is returned once the provider has accepted an order.
// The order id is provider-issued and opaque; nothing is stored locally.
type CreateOrderResponse struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}

// CaptureOrderRequest identifies a previously created order to capture.
type CaptureOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// Service mediates between the pricing engine and the payment provider.
// It holds no order state: create and capture are independent, caller-driven
// calls against the provider.
type Service struct {
	Engine  *pricing.Engine
	Gateway Gateway
	Log     zerolog.Logger
}

// CreateOrder recomputes pricing for the request and submits a provider
// order carrying the full amount breakdown and shipping address.
func (s *Service) CreateOrder(ctx context.Context, req pricing.Request) (CreateOrderResponse, error) {
	quote, err := s.Engine.Quote(req.Quantity, req.Address)
	if err != nil {
		return CreateOrderResponse{}, err
	}

	order := buildOrder(quote, req.Address)
	orderID, err := s.Gateway.CreateOrder(ctx, order)
	if err != nil {
		return CreateOrderResponse{}, err
	}

	s.Log.Info().Str("order_id", orderID).Float64("total", quote.Total).Msg("paypal order created")
	return CreateOrderResponse{OrderID: orderID, Total: quote.Total}, nil
}

// CaptureOrder captures a provider order by id and relays the provider's
// capture response verbatim. A failed capture after a successful create is
// not reconciled; the order stays created upstream.
func (s *Service) CaptureOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	result, err := s.Gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("order_id", orderID).Msg("paypal order captured")
	return result, nil
}

func buildOrder(quote pricing.Quote, addr pricing.Address) paypal.OrderRequest {
	return paypal.OrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypal.PurchaseUnit{{
			ReferenceID: purchaseReference,
			Description: pricing.ProductName,
			Amount: paypal.Amount{
				CurrencyCode: pricing.Currency,
				Value:        money(quote.Total),
				Breakdown: &paypal.Breakdown{
					ItemTotal: &paypal.Money{CurrencyCode: pricing.Currency, Value: money(quote.Subtotal)},
					Shipping:  &paypal.Money{CurrencyCode: pricing.Currency, Value: money(quote.ShippingCost)},
				},
			},
			Items: []paypal.Item{{
				Name:       pricing.ProductName,
				Quantity:   fmt.Sprintf("%d", quote.Quantity),
				UnitAmount: paypal.Money{CurrencyCode: pricing.Currency, Value: money(quote.ProductPrice)},
				Category:   "PHYSICAL_GOODS",
			}},
			Shipping: &paypal.Shipping{
				Address: paypal.ShippingAddress{
					AddressLine1: addr.Street,
					AdminArea2:   addr.City,
					PostalCode:   addr.PostalCode,
					CountryCode:  countryCode(addr.Country),
				},
			},
		}},
		ApplicationContext: paypal.ApplicationContext{
			ShippingPreference: "SET_PROVIDED_ADDRESS",
			UserAction:         "PAY_NOW",
		},
	}
}

// countryCode derives a 2-letter country code by truncating and uppercasing
// the free-text country. Callers must supply country values whose first two
// characters are the correct ISO code ("Germany" -> "GE" is wrong, "DE" and
// "Deutschland" are not equivalent here); this is a documented input
// contract carried over from the upstream payload shape, not auto-corrected.
func countryCode(country string) string {
	runes := []rune(strings.TrimSpace(country))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
