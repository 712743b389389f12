package domain

import "time"

// OrderItem is a single line of a platform order, as delivered by the
// orders/* webhooks.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	VariantID int64   `json:"variant_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,string"`
	SKU       string  `json:"sku,omitempty"`
}

// Order is the local projection of a platform order, kept up to date
// from the orders/create and orders/updated webhooks.
type Order struct {
	ID              int64
	OrderNumber     int64
	Email           string
	TotalPrice      float64
	Currency        string
	FinancialStatus string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CatalogVariant mirrors a variant row of the local catalog projection.
type CatalogVariant struct {
	ID                int64
	Title             string
	Price             float64
	SKU               string
	InventoryItemID   int64
	InventoryQuantity int
}

// CatalogProduct is the local projection of a platform product, fed by
// the products/* and inventory_levels/update webhooks.
type CatalogProduct struct {
	ID        int64
	Title     string
	Handle    string
	Status    string
	Variants  []CatalogVariant
	UpdatedAt time.Time
}
