package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gridconsole/internal/clients"
	"gridconsole/internal/config"
	"gridconsole/internal/livechannel"
	"gridconsole/internal/mapview"
	"gridconsole/internal/panel"
	"gridconsole/internal/session"
	"gridconsole/internal/telemetry"
	"gridconsole/internal/ui"
	"gridconsole/internal/views"
	"gridconsole/internal/web"
)

// App wires console dependencies.
type App struct {
	cfg     *config.Config
	server  *web.Server
	channel *livechannel.Client
	panels  *panel.Controller
	logger  *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	metrics, err := telemetry.NewPrometheusCollector(registry)
	if err != nil {
		return nil, err
	}

	httpClient := clients.NewDefaultHTTPClient(cfg.BackendTimeout())
	firewallClient := clients.NewFirewallClient(cfg.Backend.URL, httpClient)
	scadaClient := clients.NewScadaClient(cfg.Backend.URL, httpClient)
	mapClient := clients.NewMapClient(cfg.Backend.URL, httpClient)

	access := session.NewAccessState()
	conn := session.NewConnectionState()

	feed := ui.NewFeed(50)
	notifier := ui.MultiNotifier{feed, ui.NewLogNotifier(logger)}
	redirector := ui.NewRedirector()

	firewallView := views.NewFirewallView(firewallClient, access, notifier, ui.AutoConfirm{}, logger, metrics)
	deviceView := views.NewDeviceView(scadaClient, access, notifier, ui.AcceptDefault{}, redirector.Redirect, logger, metrics)

	gridMap := mapview.NewMap()
	mapView := mapview.NewView(gridMap, logger, metrics)
	tiles := mapview.NewTileManager(gridMap, onlineProbe(), cfg.TileWatchdog(), notifier, logger)

	refreshMap := func(ctx context.Context) error {
		snapshot, err := mapClient.Snapshot(ctx)
		if err != nil {
			metrics.IncRequestError("map")
			logger.Error("map snapshot fetch failed", zap.Error(err))
			return err
		}
		tiles.Setup()
		mapView.Refresh(snapshot.Stations, snapshot.Connections)
		return nil
	}

	panels := panel.NewController(cfg.PollInterval(), logger)
	panels.Register("firewall", func(ctx context.Context) error {
		if err := firewallView.LoadStatus(ctx); err != nil {
			return err
		}
		return firewallView.LoadRules(ctx)
	})
	panels.Register("scada", deviceView.LoadStatus)
	panels.Register("map", refreshMap)
	panels.SetAuthGuard("firewall", firewallView.CheckAuth, redirector.Redirect)

	channelURL, err := cfg.ChannelURL()
	if err != nil {
		return nil, err
	}
	channel := livechannel.NewClient(channelURL, nil, cfg.ReconnectDelay(), logger, metrics)
	channel.OnStateChange(conn.SetConnected)
	registerPushHandlers(channel, cfg, firewallView, deviceView, access, notifier)

	var tokens *web.TokenService
	if cfg.Console.Auth.Secret != "" {
		tokens = web.NewTokenService(
			cfg.Console.Auth.Secret,
			cfg.Console.Auth.Username,
			cfg.Console.Auth.PasswordHash,
			cfg.TokenTTL(),
		)
	}

	handlers := &web.Handlers{
		Panels:     panels,
		Firewall:   firewallView,
		Devices:    deviceView,
		Map:        mapView,
		Tiles:      tiles,
		Feed:       feed,
		Redirector: redirector,
		Conn:       conn,
		Access:     access,
		Tokens:     tokens,
		Logger:     logger,
		RefreshMap: refreshMap,
	}

	router := web.NewRouter(web.RouterDeps{
		Handlers: handlers,
		TilesDir: cfg.Console.TilesDir,
		Registry: registry,
	})

	server := web.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		web.RecoveryMiddleware(logger),
		web.LoggingMiddleware(logger),
	)

	return &App{
		cfg:     cfg,
		server:  server,
		channel: channel,
		panels:  panels,
		logger:  logger,
	}, nil
}

// Run serves the console UI, keeps the push channel alive and polls the
// active panel until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.panels.ShowDefault(ctx); err != nil {
		a.logger.Warn("initial panel load failed", zap.Error(err))
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return a.server.Run(ctx) })
	group.Go(func() error { return a.channel.Run(ctx) })
	group.Go(func() error { return a.panels.Run(ctx) })
	return group.Wait()
}

// registerPushHandlers maps backend push messages onto view refreshes.
// Handlers run on the channel read loop, so they get their own deadline.
func registerPushHandlers(channel *livechannel.Client, cfg *config.Config, firewall *views.FirewallView, devices *views.DeviceView, access *session.AccessState, notifier ui.Notifier) {
	withTimeout := func(fn func(ctx context.Context) error) {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		_ = fn(ctx)
	}

	channel.Register(livechannel.TypeFirewallUpdated, func(json.RawMessage) {
		withTimeout(firewall.LoadRules)
		withTimeout(firewall.LoadStatus)
	})
	channel.Register(livechannel.TypeFirewallCompromised, func(json.RawMessage) {
		access.SetFirewallCompromised(true)
		notifier.Notify(ui.LevelSuccess, "Firewall compromised! Access granted.")
		withTimeout(firewall.LoadStatus)
	})
	channel.Register(livechannel.TypeScadaUpdate, func(json.RawMessage) {
		withTimeout(devices.LoadStatus)
	})
	channel.Register(livechannel.TypeScadaCompromised, func(json.RawMessage) {
		access.SetScadaAccessGranted(true)
		notifier.Notify(ui.LevelSuccess, "SCADA system compromised!")
		withTimeout(devices.LoadStatus)
	})
}

// onlineProbe reports whether the public tile server is reachable. It
// stands in for the browser's navigator.onLine flag when the console
// decides between live and offline basemaps.
func onlineProbe() func() bool {
	client := &http.Client{Timeout: 2 * time.Second}
	return func() bool {
		req, err := http.NewRequest(http.MethodHead, "https://tile.openstreetmap.org/0/0/0.png", nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode < 500
	}
}
