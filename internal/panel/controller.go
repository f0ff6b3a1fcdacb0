package panel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Loader refreshes one panel's data.
type Loader func(ctx context.Context) error

// Controller toggles visibility among mutually exclusive panels and
// triggers each panel's loader on activation. A periodic ticker re-runs
// the active panel's loader as a polling refresh, independent of the push
// channel; renders are idempotent full replacements so the duplicate
// triggers are harmless.
type Controller struct {
	mu     sync.Mutex
	panels map[string]Loader
	order  []string
	active string

	interval time.Duration
	logger   *zap.Logger

	// The firewall panel additionally verifies the backend session and
	// redirects to the login flow when unauthenticated.
	authPanel string
	authCheck func(ctx context.Context) (bool, error)
	redirect  func(target string)
}

// NewController builds a controller polling at interval.
func NewController(interval time.Duration, logger *zap.Logger) *Controller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Controller{
		panels:   make(map[string]Loader),
		interval: interval,
		logger:   logger,
	}
}

// Register adds a panel. The first registered panel is the default.
func (c *Controller) Register(name string, load Loader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.panels[name]; !exists {
		c.order = append(c.order, name)
	}
	c.panels[name] = load
}

// SetAuthGuard arms the auth-status check for one panel.
func (c *Controller) SetAuthGuard(panelName string, check func(ctx context.Context) (bool, error), redirect func(target string)) {
	c.mu.Lock()
	c.authPanel = panelName
	c.authCheck = check
	c.redirect = redirect
	c.mu.Unlock()
}

// Show deactivates all panels, activates the requested one and runs its
// loader.
func (c *Controller) Show(ctx context.Context, name string) error {
	c.mu.Lock()
	load, ok := c.panels[name]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("panel: unknown panel %q", name)
	}
	c.active = name
	authPanel, authCheck, redirect := c.authPanel, c.authCheck, c.redirect
	c.mu.Unlock()

	err := load(ctx)

	if name == authPanel && authCheck != nil {
		authenticated, checkErr := authCheck(ctx)
		if checkErr == nil && !authenticated && redirect != nil {
			c.logger.Info("panel requires authentication, redirecting", zap.String("panel", name))
			redirect("/firewall-login")
		}
	}

	return err
}

// ShowDefault activates the first registered panel.
func (c *Controller) ShowDefault(ctx context.Context) error {
	c.mu.Lock()
	if len(c.order) == 0 {
		c.mu.Unlock()
		return fmt.Errorf("panel: no panels registered")
	}
	name := c.order[0]
	c.mu.Unlock()
	return c.Show(ctx, name)
}

// Active returns the currently shown panel name.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Names returns the registered panel names in registration order.
func (c *Controller) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Run polls the active panel's loader until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.pollActive(ctx)
		}
	}
}

func (c *Controller) pollActive(ctx context.Context) {
	c.mu.Lock()
	load, ok := c.panels[c.active]
	name := c.active
	c.mu.Unlock()
	if !ok {
		return
	}

	if err := load(ctx); err != nil {
		c.logger.Debug("panel poll refresh failed", zap.String("panel", name), zap.Error(err))
	}
}
