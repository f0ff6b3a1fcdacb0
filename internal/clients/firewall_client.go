package clients

import (
	"context"
	"net/http"
	"net/url"

	"gridconsole/internal/models"
)

// FirewallClient talks to the firewall endpoints of the training backend.
type FirewallClient struct {
	base *BaseClient
}

// NewFirewallClient returns client.
func NewFirewallClient(baseURL string, httpClient HTTPDoer) *FirewallClient {
	return &FirewallClient{base: NewBaseClient(baseURL, httpClient)}
}

// ListRules fetches all firewall rules.
func (c *FirewallClient) ListRules(ctx context.Context) ([]models.FirewallRule, error) {
	var rules []models.FirewallRule
	if err := c.base.DoJSON(ctx, http.MethodGet, "/api/firewall/rules", nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateRule adds a new rule.
func (c *FirewallClient) CreateRule(ctx context.Context, rule models.FirewallRule) error {
	return c.base.DoJSON(ctx, http.MethodPost, "/api/firewall/rules", rule, nil)
}

// UpdateRule replaces the rule with the given id.
func (c *FirewallClient) UpdateRule(ctx context.Context, id string, rule models.FirewallRule) error {
	return c.base.DoJSON(ctx, http.MethodPut, "/api/firewall/rules/"+url.PathEscape(id), rule, nil)
}

// DeleteRule removes the rule with the given id.
func (c *FirewallClient) DeleteRule(ctx context.Context, id string) error {
	return c.base.DoJSON(ctx, http.MethodDelete, "/api/firewall/rules/"+url.PathEscape(id), nil, nil)
}

// Status fetches the aggregate firewall status.
func (c *FirewallClient) Status(ctx context.Context) (models.FirewallStatus, error) {
	var status models.FirewallStatus
	if err := c.base.DoJSON(ctx, http.MethodGet, "/api/firewall/status", nil, &status); err != nil {
		return models.FirewallStatus{}, err
	}
	return status, nil
}

// SetIPS toggles intrusion prevention.
func (c *FirewallClient) SetIPS(ctx context.Context, enabled bool) error {
	body := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}
	return c.base.DoJSON(ctx, http.MethodPut, "/api/firewall/ips", body, nil)
}

// Login authenticates against the firewall.
func (c *FirewallClient) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	var result models.LoginResult
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.base.DoJSON(ctx, http.MethodPost, "/api/firewall/login", req, &result); err != nil {
		return models.LoginResult{}, err
	}
	return result, nil
}

// Logout ends the firewall session.
func (c *FirewallClient) Logout(ctx context.Context) error {
	return c.base.DoJSON(ctx, http.MethodPost, "/api/firewall/logout", nil, nil)
}
