package shopify

import (
	"fmt"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

// Wire shapes of the storefront GraphQL API. Connections (edges/nodes)
// are flattened into domain values here; nothing past this package sees
// them.

type moneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m moneyV2) toDomain() domain.Money {
	return domain.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type imageConnection struct {
	Edges []struct {
		Node imageNode `json:"node"`
	} `json:"edges"`
}

func (c imageConnection) toDomain() []domain.ProductImage {
	if len(c.Edges) == 0 {
		return nil
	}
	images := make([]domain.ProductImage, 0, len(c.Edges))
	for _, e := range c.Edges {
		images = append(images, domain.ProductImage{URL: e.Node.URL, AltText: e.Node.AltText})
	}
	return images
}

type variantNode struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	PriceV2          moneyV2  `json:"priceV2"`
	CompareAtPriceV2 *moneyV2 `json:"compareAtPriceV2"`
	AvailableForSale bool     `json:"availableForSale"`
}

func (v variantNode) toDomain() domain.ProductVariant {
	out := domain.ProductVariant{
		ID:               v.ID,
		Title:            v.Title,
		Price:            v.PriceV2.toDomain(),
		AvailableForSale: v.AvailableForSale,
	}
	if v.CompareAtPriceV2 != nil {
		cmp := v.CompareAtPriceV2.toDomain()
		out.CompareAtPrice = &cmp
	}
	return out
}

type productNode struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Handle          string `json:"handle"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"descriptionHtml"`
	PriceRange      struct {
		MinVariantPrice moneyV2 `json:"minVariantPrice"`
	} `json:"priceRange"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Images imageConnection `json:"images"`
}

func (p productNode) toDomain() (*domain.Product, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("product missing id")
	}
	out := &domain.Product{
		ID:              p.ID,
		Title:           p.Title,
		Handle:          p.Handle,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		MinPrice:        p.PriceRange.MinVariantPrice.toDomain(),
		Images:          p.Images.toDomain(),
	}
	for _, e := range p.Variants.Edges {
		out.Variants = append(out.Variants, e.Node.toDomain())
	}
	return out, nil
}

type cartLineNode struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise struct {
		ID      string  `json:"id"`
		Title   string  `json:"title"`
		PriceV2 moneyV2 `json:"priceV2"`
		Product struct {
			Title  string          `json:"title"`
			Images imageConnection `json:"images"`
		} `json:"product"`
	} `json:"merchandise"`
}

type cartPayload struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Edges []struct {
			Node cartLineNode `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
	Cost struct {
		TotalAmount    moneyV2 `json:"totalAmount"`
		SubtotalAmount moneyV2 `json:"subtotalAmount"`
	} `json:"cost"`
}

// toSnapshot validates the payload and flattens it into a CartSnapshot.
func (p *cartPayload) toSnapshot() (*domain.CartSnapshot, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("cart payload missing id")
	}

	snap := &domain.CartSnapshot{
		ID:          p.ID,
		CheckoutURL: p.CheckoutURL,
		Lines:       []domain.CartLine{},
		Subtotal:    p.Cost.SubtotalAmount.toDomain(),
		Total:       p.Cost.TotalAmount.toDomain(),
	}

	for _, e := range p.Lines.Edges {
		n := e.Node
		if n.ID == "" {
			return nil, fmt.Errorf("cart %s: line missing id", p.ID)
		}
		line := domain.CartLine{
			ID:            n.ID,
			Quantity:      n.Quantity,
			MerchandiseID: n.Merchandise.ID,
			Title:         n.Merchandise.Title,
			ProductTitle:  n.Merchandise.Product.Title,
			UnitPrice:     n.Merchandise.PriceV2.toDomain(),
		}
		if imgs := n.Merchandise.Product.Images.toDomain(); len(imgs) > 0 {
			line.ImageURL = imgs[0].URL
		}
		snap.Lines = append(snap.Lines, line)
	}

	return snap, nil
}

type customerNode struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c customerNode) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}
