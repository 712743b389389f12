package shopify

import (
	"context"

	"github.com/machinebox/graphql"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

// ListProducts fetches the first n catalog products.
func (c *Client) ListProducts(ctx context.Context, first int) ([]domain.Product, error) {
	if first <= 0 {
		first = 20
	}
	req := graphql.NewRequest(`
		query GetProducts($first: Int!) {
			products(first: $first) {
				edges {
					node {
						id
						title
						handle
						description
						priceRange {
							minVariantPrice {
								amount
								currencyCode
							}
						}
						images(first: 1) {
							edges {
								node {
									url
									altText
								}
							}
						}
					}
				}
			}
		}`)
	req.Var("first", first)

	var resp struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(resp.Products.Edges))
	for _, e := range resp.Products.Edges {
		p, err := e.Node.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// ProductByHandle fetches one product with its variants and images.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	req := graphql.NewRequest(`
		query GetProductByHandle($handle: String!) {
			productByHandle(handle: $handle) {
				id
				title
				handle
				description
				descriptionHtml
				priceRange {
					minVariantPrice {
						amount
						currencyCode
					}
				}
				variants(first: 10) {
					edges {
						node {
							id
							title
							priceV2 {
								amount
								currencyCode
							}
							compareAtPriceV2 {
								amount
								currencyCode
							}
							availableForSale
						}
					}
				}
				images(first: 5) {
					edges {
						node {
							url
							altText
						}
					}
				}
			}
		}`)
	req.Var("handle", handle)

	var resp struct {
		ProductByHandle *productNode `json:"productByHandle"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.ProductByHandle == nil {
		return nil, ErrProductNotFound
	}
	return resp.ProductByHandle.toDomain()
}
