package domain

// ProductVariant is a purchasable variant of a product.
// CompareAtPrice is optional; nil means the variant is not discounted.
type ProductVariant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Price            Money  `json:"price"`
	CompareAtPrice   *Money `json:"compare_at_price,omitempty"`
	AvailableForSale bool   `json:"available_for_sale"`
}

// ProductImage is a catalog image reference.
type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Product is a catalog product as returned by the commerce platform,
// flattened out of the GraphQL connection shapes at the gateway boundary.
type Product struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Handle          string           `json:"handle"`
	Description     string           `json:"description,omitempty"`
	DescriptionHTML string           `json:"description_html,omitempty"`
	MinPrice        Money            `json:"min_price"`
	Variants        []ProductVariant `json:"variants,omitempty"`
	Images          []ProductImage   `json:"images,omitempty"`
}
