package shopify

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

const cartFields = `
	id
	checkoutUrl
	lines(first: 50) {
		edges {
			node {
				id
				quantity
				merchandise {
					... on ProductVariant {
						id
						title
						priceV2 {
							amount
							currencyCode
						}
						product {
							title
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
			}
		}
	}
	cost {
		totalAmount {
			amount
			currencyCode
		}
		subtotalAmount {
			amount
			currencyCode
		}
	}`

// CreateCart creates a fresh, empty remote cart and returns its snapshot.
func (c *Client) CreateCart(ctx context.Context) (*domain.CartSnapshot, error) {
	req := graphql.NewRequest(`
		mutation CreateCart {
			cartCreate {
				cart {` + cartFields + `}
				userErrors {
					field
					message
				}
			}
		}`)

	var resp struct {
		CartCreate struct {
			Cart       *cartPayload `json:"cart"`
			UserErrors []UserError  `json:"userErrors"`
		} `json:"cartCreate"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if err := firstUserError(resp.CartCreate.UserErrors); err != nil {
		return nil, err
	}
	if resp.CartCreate.Cart == nil {
		return nil, fmt.Errorf("cart missing from response")
	}
	return resp.CartCreate.Cart.toSnapshot()
}

// AddCartLines adds one or more merchandise lines in a single round trip.
func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []domain.LineInput) error {
	req := graphql.NewRequest(`
		mutation AddCartLines($cartId: ID!, $lines: [CartLineInput!]!) {
			cartLinesAdd(cartId: $cartId, lines: $lines) {
				cart {
					id
				}
				userErrors {
					field
					message
				}
			}
		}`)
	req.Var("cartId", cartID)

	inputs := make([]map[string]interface{}, 0, len(lines))
	for _, l := range lines {
		inputs = append(inputs, map[string]interface{}{
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		})
	}
	req.Var("lines", inputs)

	var resp struct {
		CartLinesAdd struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartLinesAdd"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return err
	}
	return firstUserError(resp.CartLinesAdd.UserErrors)
}

// UpdateCartLine changes the quantity of an existing cart line.
func (c *Client) UpdateCartLine(ctx context.Context, cartID, lineID string, quantity int) error {
	req := graphql.NewRequest(`
		mutation UpdateCartLine($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
			cartLinesUpdate(cartId: $cartId, lines: $lines) {
				cart {
					id
				}
				userErrors {
					field
					message
				}
			}
		}`)
	req.Var("cartId", cartID)
	req.Var("lines", []map[string]interface{}{
		{"id": lineID, "quantity": quantity},
	})

	var resp struct {
		CartLinesUpdate struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartLinesUpdate"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return err
	}
	return firstUserError(resp.CartLinesUpdate.UserErrors)
}

// RemoveCartLines removes one or more lines from the cart.
func (c *Client) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) error {
	req := graphql.NewRequest(`
		mutation RemoveCartLines($cartId: ID!, $lineIds: [ID!]!) {
			cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
				cart {
					id
				}
				userErrors {
					field
					message
				}
			}
		}`)
	req.Var("cartId", cartID)
	req.Var("lineIds", lineIDs)

	var resp struct {
		CartLinesRemove struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartLinesRemove"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return err
	}
	return firstUserError(resp.CartLinesRemove.UserErrors)
}

// GetCart fetches the current snapshot of the cart. A null cart in the
// response means the platform expired or dropped it; that is reported as
// ErrCartNotFound, never as a transport failure.
func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.CartSnapshot, error) {
	req := graphql.NewRequest(`
		query GetCart($cartId: ID!) {
			cart(id: $cartId) {` + cartFields + `}
		}`)
	req.Var("cartId", cartID)

	var resp struct {
		Cart *cartPayload `json:"cart"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Cart == nil {
		return nil, ErrCartNotFound
	}
	return resp.Cart.toSnapshot()
}
