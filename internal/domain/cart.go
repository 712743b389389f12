package domain

const (
	// Line quantities accepted by the storefront. Values outside this
	// range never reach the commerce platform.
	MinLineQuantity = 1
	MaxLineQuantity = 10
)

// Money is an amount as the commerce platform reports it: a decimal
// string plus an ISO 4217 currency code. It is passed through, never
// computed on.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// CartLine is a single line of a remote cart.
type CartLine struct {
	ID            string `json:"id"`
	Quantity      int    `json:"quantity"`
	MerchandiseID string `json:"merchandise_id"`
	Title         string `json:"title"`
	ProductTitle  string `json:"product_title"`
	ImageURL      string `json:"image_url,omitempty"`
	UnitPrice     Money  `json:"unit_price"`
}

// CartSnapshot is a read-only, point-in-time view of a remote cart.
// It is replaced wholesale after every mutation, never patched locally.
type CartSnapshot struct {
	ID          string     `json:"id"`
	CheckoutURL string     `json:"checkout_url,omitempty"`
	Lines       []CartLine `json:"lines"`
	Subtotal    Money      `json:"subtotal"`
	Total       Money      `json:"total"`
}

// EmptyCart is the snapshot used when no cart identifier is persisted
// or the remote cart has expired.
func EmptyCart(id string) *CartSnapshot {
	return &CartSnapshot{ID: id, Lines: []CartLine{}}
}

// IsEmpty reports whether the snapshot carries no lines.
func (s *CartSnapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// LineInput names merchandise to add to a cart.
type LineInput struct {
	MerchandiseID string `json:"merchandise_id"`
	Quantity      int    `json:"quantity"`
}

// ClampQuantity forces q into [MinLineQuantity, MaxLineQuantity].
func ClampQuantity(q int) int {
	if q < MinLineQuantity {
		return MinLineQuantity
	}
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}

// ValidQuantity reports whether q may be sent to the platform as-is.
func ValidQuantity(q int) bool {
	return q >= MinLineQuantity && q <= MaxLineQuantity
}
