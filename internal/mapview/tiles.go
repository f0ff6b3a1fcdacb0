package mapview

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"gridconsole/internal/ui"
)

// Tile source templates. The offline set is served by the console itself
// from a local directory.
const (
	onlineTileTemplate  = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	offlineTileTemplate = "/tiles/{z}/{x}/{y}.png"
)

// TileManager owns the Online/Offline basemap state machine. Both tile
// layers are constructed once and swapped by attaching/detaching from the
// map, never recreated.
type TileManager struct {
	mu sync.Mutex

	m        *Map
	online   *TileLayer
	offline  *TileLayer
	notifier ui.Notifier
	logger   *zap.Logger

	// networkOnline is the connectivity probe standing in for
	// navigator.onLine.
	networkOnline func() bool
	watchdog      time.Duration

	started      bool
	usingOffline bool
	warned       bool
	tilesLoaded  int
	watchGen     int
}

// NewTileManager builds the manager with both tile sources pre-constructed.
func NewTileManager(m *Map, networkOnline func() bool, watchdog time.Duration, notifier ui.Notifier, logger *zap.Logger) *TileManager {
	if networkOnline == nil {
		networkOnline = func() bool { return true }
	}
	if watchdog <= 0 {
		watchdog = 4 * time.Second
	}
	return &TileManager{
		m: m,
		online: &TileLayer{
			Name:        "online",
			URLTemplate: onlineTileTemplate,
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
			MinZoom:     6,
			MaxZoom:     19,
		},
		offline: &TileLayer{
			Name:          "offline",
			URLTemplate:   offlineTileTemplate,
			Attribution:   "Offline Map Tiles",
			MinZoom:       6,
			MaxZoom:       19,
			MaxNativeZoom: 10,
			NoWrap:        true,
		},
		notifier:      notifier,
		logger:        logger,
		networkOnline: networkOnline,
		watchdog:      watchdog,
	}
}

// Setup picks the tile source from the connectivity probe. Switching to
// online tiles arms a watchdog: if no tile has loaded by the deadline, the
// manager falls back to the offline set. Safe to call on every map
// refresh: while online tiles are already active the call is a no-op, so
// the loaded-tile count survives poll-driven refreshes.
func (t *TileManager) Setup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.useOnlineLocked() {
		t.armWatchdogLocked()
	}
}

// HandleNetworkOnline attempts a switch back to online tiles. If the probe
// still reports offline the manager stays on the offline set.
func (t *TileManager) HandleNetworkOnline() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.useOnlineLocked() {
		t.armWatchdogLocked()
	}
}

// HandleNetworkOffline forces the offline set.
func (t *TileManager) HandleNetworkOffline() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.useOfflineLocked("network-offline")
}

// RecordTileLoad counts one successfully loaded online tile.
func (t *TileManager) RecordTileLoad() {
	t.mu.Lock()
	t.tilesLoaded++
	t.mu.Unlock()
}

// RecordTileError reacts to a failed online tile by falling back.
func (t *TileManager) RecordTileError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.usingOffline {
		return
	}
	t.logger.Warn("online tile load failed, switching to offline tiles")
	t.useOfflineLocked("tileerror")
}

// UsingOffline reports the current state.
func (t *TileManager) UsingOffline() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usingOffline
}

// Active returns the currently attached tile layer.
func (t *TileManager) Active() *TileLayer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.usingOffline {
		return t.offline
	}
	return t.online
}

// useOnlineLocked switches to the online set and reports whether a switch
// actually happened. The loaded-tile counter is only reset on a real
// offline-to-online transition.
func (t *TileManager) useOnlineLocked() bool {
	if !t.networkOnline() {
		t.useOfflineLocked("network-offline")
		return false
	}
	if t.started && !t.usingOffline {
		return false
	}

	if t.m.HasLayer(t.offline) {
		t.m.RemoveLayer(t.offline)
	}
	if !t.m.HasLayer(t.online) {
		t.m.AddLayer(t.online)
	}

	if t.usingOffline {
		t.logger.Info("reconnected, restoring online tiles")
		if t.notifier != nil {
			t.notifier.Notify(ui.LevelSuccess, "Reconnected. Using live OpenStreetMap tiles.")
		}
	}

	t.started = true
	t.usingOffline = false
	t.warned = false
	t.tilesLoaded = 0
	return true
}

// armWatchdogLocked schedules the no-tiles-loaded fallback for the current
// online stint. A stint counter keeps a timer from an earlier stint from
// firing into a later one.
func (t *TileManager) armWatchdogLocked() {
	t.watchGen++
	gen := t.watchGen
	time.AfterFunc(t.watchdog, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if gen != t.watchGen || t.usingOffline {
			return
		}
		if t.tilesLoaded == 0 {
			t.useOfflineLocked("online-timeout")
		}
	})
}

func (t *TileManager) useOfflineLocked(reason string) {
	if t.m.HasLayer(t.online) {
		t.m.RemoveLayer(t.online)
	}
	if !t.m.HasLayer(t.offline) {
		t.m.AddLayer(t.offline)
	}

	if !t.usingOffline {
		t.logger.Warn("using offline map tiles", zap.String("reason", reason))
		if t.notifier != nil && !t.warned {
			t.notifier.Notify(ui.LevelWarning, "Using offline basemap tiles (no internet connection).")
			t.warned = true
		}
	}

	t.usingOffline = true
}
