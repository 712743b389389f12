package shopify

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

// CreateAccessToken exchanges credentials for a customer access token.
// Invalid credentials come back as a DomainError carrying the platform's
// message verbatim.
func (c *Client) CreateAccessToken(ctx context.Context, email, password string) (string, error) {
	req := graphql.NewRequest(`
		mutation CustomerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
			customerAccessTokenCreate(input: $input) {
				customerAccessToken {
					accessToken
					expiresAt
				}
				customerUserErrors {
					code
					field
					message
				}
			}
		}`)
	req.Var("input", map[string]interface{}{
		"email":    email,
		"password": password,
	})

	var resp struct {
		CustomerAccessTokenCreate struct {
			CustomerAccessToken *struct {
				AccessToken string `json:"accessToken"`
				ExpiresAt   string `json:"expiresAt"`
			} `json:"customerAccessToken"`
			CustomerUserErrors []UserError `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return "", err
	}
	if err := firstUserError(resp.CustomerAccessTokenCreate.CustomerUserErrors); err != nil {
		return "", err
	}
	if resp.CustomerAccessTokenCreate.CustomerAccessToken == nil {
		return "", fmt.Errorf("access token missing from response")
	}
	return resp.CustomerAccessTokenCreate.CustomerAccessToken.AccessToken, nil
}

// GetCustomer resolves the customer behind an access token.
func (c *Client) GetCustomer(ctx context.Context, accessToken string) (*domain.Customer, error) {
	req := graphql.NewRequest(`
		query GetCustomer($customerAccessToken: String!) {
			customer(customerAccessToken: $customerAccessToken) {
				id
				email
				firstName
				lastName
			}
		}`)
	req.Var("customerAccessToken", accessToken)

	var resp struct {
		Customer *customerNode `json:"customer"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Customer == nil {
		return nil, fmt.Errorf("customer not found for access token")
	}
	return resp.Customer.toDomain(), nil
}

// CreateCustomer registers a new customer account.
func (c *Client) CreateCustomer(ctx context.Context, input domain.RegisterInput) (*domain.Customer, error) {
	req := graphql.NewRequest(`
		mutation CustomerCreate($input: CustomerCreateInput!) {
			customerCreate(input: $input) {
				customer {
					id
					email
					firstName
					lastName
				}
				customerUserErrors {
					code
					field
					message
				}
			}
		}`)
	req.Var("input", map[string]interface{}{
		"email":     input.Email,
		"password":  input.Password,
		"firstName": input.FirstName,
		"lastName":  input.LastName,
	})

	var resp struct {
		CustomerCreate struct {
			Customer           *customerNode `json:"customer"`
			CustomerUserErrors []UserError   `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if err := firstUserError(resp.CustomerCreate.CustomerUserErrors); err != nil {
		return nil, err
	}
	if resp.CustomerCreate.Customer == nil {
		return nil, fmt.Errorf("customer missing from response")
	}
	return resp.CustomerCreate.Customer.toDomain(), nil
}
