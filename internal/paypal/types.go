package paypal

// Wire types for the PayPal Orders v2 API. Only the fields this backend
// sends or reads are modelled.

// OrderRequest is the payload submitted to POST /v2/checkout/orders.
type OrderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

// PurchaseUnit describes a single unit of goods with its amount breakdown
// and shipping destination.
type PurchaseUnit struct {
	ReferenceID string    `json:"reference_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Amount      Amount    `json:"amount"`
	Items       []Item    `json:"items,omitempty"`
	Shipping    *Shipping `json:"shipping,omitempty"`
}

// Amount is a currency/value pair, optionally with a component breakdown.
type Amount struct {
	CurrencyCode string     `json:"currency_code"`
	Value        string     `json:"value"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
}

// Breakdown splits an order amount into its item and shipping components.
type Breakdown struct {
	ItemTotal *Money `json:"item_total,omitempty"`
	Shipping  *Money `json:"shipping,omitempty"`
}

// Money is a plain currency/value pair.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Item is a line item within a purchase unit.
type Item struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	UnitAmount Money  `json:"unit_amount"`
	Category   string `json:"category,omitempty"`
}

// Shipping carries the buyer's shipping address.
type Shipping struct {
	Address ShippingAddress `json:"address"`
}

// ShippingAddress follows PayPal's portable address format.
type ShippingAddress struct {
	AddressLine1 string `json:"address_line_1"`
	AdminArea2   string `json:"admin_area_2"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
}

// ApplicationContext pins the checkout experience: the buyer pays
// immediately and cannot change the provided shipping address.
type ApplicationContext struct {
	ShippingPreference string `json:"shipping_preference"`
	UserAction         string `json:"user_action"`
}

// orderResponse is the subset of the order-creation response this backend reads.
type orderResponse struct {
	ID string `json:"id"`
}

// tokenResponse is the subset of the OAuth token response this backend reads.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}
