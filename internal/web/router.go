package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Handlers *Handlers
	TilesDir string
	Registry *prometheus.Registry
}

// NewRouter wires the console HTTP routes. Mutating endpoints go through
// the auth middleware, which passes everything when console auth is off.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	h := deps.Handlers

	guarded := func(handler http.HandlerFunc) http.Handler {
		return authMiddleware(h.Tokens)(handler)
	}

	mux.Handle("/", method(http.MethodGet, http.HandlerFunc(h.Dashboard)))
	mux.Handle("/console/state", method(http.MethodGet, http.HandlerFunc(h.State)))
	mux.Handle("/console/map", method(http.MethodGet, http.HandlerFunc(h.MapState)))

	mux.Handle("/console/login", method(http.MethodPost, http.HandlerFunc(h.ConsoleLogin)))

	mux.Handle("/console/panel", method(http.MethodPost, guarded(h.ShowPanel)))
	mux.Handle("/console/firewall/rules", method(http.MethodPost, guarded(h.SaveRule)))
	mux.Handle("/console/firewall/rules/", method(http.MethodDelete, guarded(h.DeleteRule)))
	mux.Handle("/console/firewall/edit", method(http.MethodPost, guarded(h.EditRule)))
	mux.Handle("/console/firewall/add", method(http.MethodPost, guarded(h.AddRule)))
	mux.Handle("/console/firewall/ips", method(http.MethodPost, guarded(h.ToggleIPS)))
	mux.Handle("/console/firewall/login", method(http.MethodPost, guarded(h.FirewallLogin)))
	mux.Handle("/console/firewall/logout", method(http.MethodPost, guarded(h.FirewallLogout)))
	mux.Handle("/console/scada/details", method(http.MethodPost, guarded(h.ShowDevice)))
	mux.Handle("/console/scada/close", method(http.MethodPost, guarded(h.CloseDevice)))
	mux.Handle("/console/scada/command", method(http.MethodPost, guarded(h.DeviceCommand)))
	mux.Handle("/console/map/toggle", method(http.MethodPost, guarded(h.ToggleOverlay)))
	mux.Handle("/console/map/refresh", method(http.MethodPost, guarded(h.MapRefresh)))
	mux.Handle("/console/map/tiles/event", method(http.MethodPost, http.HandlerFunc(h.TileEvent)))

	if deps.TilesDir != "" {
		mux.Handle("/tiles/", http.StripPrefix("/tiles/", http.FileServer(http.Dir(deps.TilesDir))))
	}

	if deps.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
