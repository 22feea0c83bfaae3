package gatekeeper

import (
	"context"
	"fmt"
	"net/http"
)

const (
	whoamiPath  = "/accounts/whoami"
	profilePath = "/accounts/me/profile"
)

// Account is the remote account snapshot for an authenticated user.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountProfile is the remote profile snapshot for an account.
type AccountProfile struct {
	AccountID string `json:"account_id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// WhoAmI fetches the account of the current user.
func (c *Client) WhoAmI(ctx context.Context) (*Account, error) {
	req, err := c.NewUserRequest(ctx, http.MethodGet, whoamiPath, nil)
	if err != nil {
		return nil, fmt.Errorf("gatekeeper: whoami: %w", err)
	}

	var account Account
	if err := c.doJSON(req, &account); err != nil {
		return nil, fmt.Errorf("gatekeeper: whoami: %w", err)
	}
	return &account, nil
}

// GetAccountProfile fetches the profile of the current user's account.
func (c *Client) GetAccountProfile(ctx context.Context) (*AccountProfile, error) {
	req, err := c.NewUserRequest(ctx, http.MethodGet, profilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("gatekeeper: account profile: %w", err)
	}

	var profile AccountProfile
	if err := c.doJSON(req, &profile); err != nil {
		return nil, fmt.Errorf("gatekeeper: account profile: %w", err)
	}
	return &profile, nil
}
