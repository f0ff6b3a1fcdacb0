package views

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"gridconsole/internal/clients"
	"gridconsole/internal/models"
	"gridconsole/internal/session"
	"gridconsole/internal/telemetry"
	"gridconsole/internal/ui"
)

// FirewallAPI is the slice of the backend client the firewall panel needs.
type FirewallAPI interface {
	ListRules(ctx context.Context) ([]models.FirewallRule, error)
	CreateRule(ctx context.Context, rule models.FirewallRule) error
	UpdateRule(ctx context.Context, id string, rule models.FirewallRule) error
	DeleteRule(ctx context.Context, id string) error
	Status(ctx context.Context) (models.FirewallStatus, error)
	SetIPS(ctx context.Context, enabled bool) error
	Login(ctx context.Context, username, password string) (models.LoginResult, error)
	Logout(ctx context.Context) error
}

// FirewallView owns the firewall rule table, the status header and the
// add/edit workflow. The rule cache is transient: the backend owns the
// rules and every mutation triggers a reload.
type FirewallView struct {
	api      FirewallAPI
	access   *session.AccessState
	notifier ui.Notifier
	confirm  ui.Confirmer
	logger   *zap.Logger
	metrics  telemetry.Collector

	mu            sync.Mutex
	rules         []models.FirewallRule
	status        *models.FirewallStatus
	editingRuleID string
	editingRule   *models.FirewallRule
}

// NewFirewallView builds the view.
func NewFirewallView(api FirewallAPI, access *session.AccessState, notifier ui.Notifier, confirm ui.Confirmer, logger *zap.Logger, metrics telemetry.Collector) *FirewallView {
	if metrics == nil {
		metrics = telemetry.Noop()
	}
	if confirm == nil {
		confirm = ui.AutoConfirm{}
	}
	return &FirewallView{
		api:      api,
		access:   access,
		notifier: notifier,
		confirm:  confirm,
		logger:   logger,
		metrics:  metrics,
	}
}

// LoadRules fetches and caches the rule table.
func (v *FirewallView) LoadRules(ctx context.Context) error {
	rules, err := v.api.ListRules(ctx)
	if err != nil {
		return v.fail(err, "Error loading firewall rules")
	}
	v.mu.Lock()
	v.rules = rules
	v.mu.Unlock()
	return nil
}

// LoadStatus fetches the aggregate status and synchronizes the access
// flags the rest of the console reads.
func (v *FirewallView) LoadStatus(ctx context.Context) error {
	status, err := v.api.Status(ctx)
	if err != nil {
		return v.fail(err, "Error loading firewall status")
	}

	v.access.SetFirewallCompromised(status.Compromised)
	v.access.SetFirewallAuthenticated(status.Authenticated)

	v.mu.Lock()
	v.status = &status
	v.mu.Unlock()
	return nil
}

// CheckAuth refreshes the backend-reported auth flag and returns it. The
// panel controller redirects to the login flow when it comes back false.
func (v *FirewallView) CheckAuth(ctx context.Context) (bool, error) {
	status, err := v.api.Status(ctx)
	if err != nil {
		v.metrics.IncRequestError("firewall")
		v.logger.Error("firewall auth check failed", zap.Error(err))
		return false, err
	}
	v.access.SetFirewallAuthenticated(status.Authenticated)
	return status.Authenticated, nil
}

// BeginAdd resets the editor for a new rule.
func (v *FirewallView) BeginAdd() {
	v.mu.Lock()
	v.editingRuleID = ""
	v.editingRule = nil
	v.mu.Unlock()
}

// BeginEdit re-fetches the full rule list to locate one rule by id (the
// backend has no single-rule fetch) and arms the editor with it.
func (v *FirewallView) BeginEdit(ctx context.Context, ruleID string) (models.FirewallRule, error) {
	rules, err := v.api.ListRules(ctx)
	if err != nil {
		return models.FirewallRule{}, v.fail(err, "Error loading rule")
	}

	for _, rule := range rules {
		if rule.ID == ruleID {
			v.mu.Lock()
			v.rules = rules
			v.editingRuleID = ruleID
			edit := rule
			v.editingRule = &edit
			v.mu.Unlock()
			return rule, nil
		}
	}

	v.notifier.Notify(ui.LevelError, "Rule not found")
	return models.FirewallRule{}, errors.New("views: rule not found")
}

// Save creates or updates depending on whether an edit is in progress,
// closes the editor and reloads the table.
func (v *FirewallView) Save(ctx context.Context, rule models.FirewallRule) error {
	v.mu.Lock()
	editingID := v.editingRuleID
	v.mu.Unlock()

	var err error
	successMessage := "Rule added successfully"
	if editingID != "" {
		err = v.api.UpdateRule(ctx, editingID, rule)
		successMessage = "Rule updated successfully"
	} else {
		err = v.api.CreateRule(ctx, rule)
	}

	if err != nil {
		return v.fail(err, saveErrorMessage(err))
	}

	v.notifier.Notify(ui.LevelSuccess, successMessage)
	v.BeginAdd()
	return v.LoadRules(ctx)
}

// Delete confirms with the operator, deletes and reloads.
func (v *FirewallView) Delete(ctx context.Context, ruleID string) error {
	if !v.confirm.Confirm("Are you sure you want to delete this rule?") {
		return nil
	}

	if err := v.api.DeleteRule(ctx, ruleID); err != nil {
		return v.fail(err, "Failed to delete rule")
	}

	v.notifier.Notify(ui.LevelSuccess, "Rule deleted successfully")
	return v.LoadRules(ctx)
}

// ToggleIPS flips intrusion prevention and reloads the status header.
func (v *FirewallView) ToggleIPS(ctx context.Context, enabled bool) error {
	if err := v.api.SetIPS(ctx, enabled); err != nil {
		return v.fail(err, "Failed to toggle IPS")
	}

	if enabled {
		v.notifier.Notify(ui.LevelSuccess, "IPS enabled")
	} else {
		v.notifier.Notify(ui.LevelSuccess, "IPS disabled")
	}
	return v.LoadStatus(ctx)
}

// Login authenticates against the firewall and refreshes the status.
func (v *FirewallView) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	result, err := v.api.Login(ctx, username, password)
	if err != nil {
		return models.LoginResult{}, v.fail(err, "Error logging in")
	}

	if result.Success {
		v.access.SetFirewallAuthenticated(true)
		v.notifier.Notify(ui.LevelSuccess, result.Message)
		return result, v.LoadStatus(ctx)
	}

	v.notifier.Notify(ui.LevelError, result.Message)
	return result, nil
}

// Logout ends the firewall session.
func (v *FirewallView) Logout(ctx context.Context) error {
	if err := v.api.Logout(ctx); err != nil {
		return v.fail(err, "Error logging out")
	}
	v.access.SetFirewallAuthenticated(false)
	v.notifier.Notify(ui.LevelSuccess, "Logged out")
	return v.LoadStatus(ctx)
}

// FirewallSnapshot is the rendered state of the firewall panel.
type FirewallSnapshot struct {
	Rules         []models.FirewallRule  `json:"rules"`
	Status        *models.FirewallStatus `json:"status,omitempty"`
	EditingRuleID string                 `json:"editing_rule_id,omitempty"`
	EditingRule   *models.FirewallRule   `json:"editing_rule,omitempty"`
}

// Snapshot returns a copy of the panel state.
func (v *FirewallView) Snapshot() FirewallSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := FirewallSnapshot{EditingRuleID: v.editingRuleID}
	snap.Rules = make([]models.FirewallRule, len(v.rules))
	copy(snap.Rules, v.rules)
	if v.status != nil {
		status := *v.status
		snap.Status = &status
	}
	if v.editingRule != nil {
		rule := *v.editingRule
		snap.EditingRule = &rule
	}
	return snap
}

func (v *FirewallView) fail(err error, message string) error {
	v.metrics.IncRequestError("firewall")
	v.logger.Error("firewall request failed", zap.Error(err))
	v.notifier.Notify(ui.LevelError, message)
	return err
}

// saveErrorMessage prefers the backend's structured detail over the
// generic save failure string.
func saveErrorMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to save rule"
}
