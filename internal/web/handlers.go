package web

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gridconsole/internal/mapview"
	"gridconsole/internal/models"
	"gridconsole/internal/panel"
	"gridconsole/internal/session"
	"gridconsole/internal/ui"
	"gridconsole/internal/views"
)

// Handlers exposes the console state and relays UI actions to the views.
type Handlers struct {
	Panels     *panel.Controller
	Firewall   *views.FirewallView
	Devices    *views.DeviceView
	Map        *mapview.View
	Tiles      *mapview.TileManager
	Feed       *ui.Feed
	Redirector *ui.Redirector
	Conn       *session.ConnectionState
	Access     *session.AccessState
	Tokens     *TokenService
	Logger     *zap.Logger

	// RefreshMap triggers the map panel loader (fetch + full rebuild).
	RefreshMap func(ctx context.Context) error
}

// MapRefresh forces a map snapshot fetch and overlay rebuild.
func (h *Handlers) MapRefresh(w http.ResponseWriter, r *http.Request) {
	if h.RefreshMap == nil {
		writeError(w, http.StatusNotFound, "map refresh unavailable")
		return
	}
	if err := h.RefreshMap(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// StateResponse is the console's full presentation state.
type StateResponse struct {
	ActivePanel   string                 `json:"active_panel"`
	Panels        []string               `json:"panels"`
	Connected     bool                   `json:"connected"`
	Access        session.Flags          `json:"access"`
	Redirect      string                 `json:"redirect,omitempty"`
	Notifications []ui.Notification      `json:"notifications"`
	Firewall      views.FirewallSnapshot `json:"firewall"`
	Scada         views.DeviceSnapshot   `json:"scada"`
}

// State reports the aggregated console state for the UI poll.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	resp := StateResponse{
		ActivePanel:   h.Panels.Active(),
		Panels:        h.Panels.Names(),
		Connected:     h.Conn.Connected(),
		Access:        h.Access.Snapshot(),
		Redirect:      h.Redirector.Consume(),
		Notifications: h.Feed.Recent(),
		Firewall:      h.Firewall.Snapshot(),
		Scada:         h.Devices.Snapshot(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// MapStateResponse is the rendered map: tile source plus all overlay
// categories in layering order.
type MapStateResponse struct {
	TileSource   string                     `json:"tile_source"`
	TileTemplate string                     `json:"tile_template"`
	UsingOffline bool                       `json:"using_offline"`
	Categories   []mapview.CategorySnapshot `json:"categories"`
}

// MapState reports the map panel state.
func (h *Handlers) MapState(w http.ResponseWriter, r *http.Request) {
	active := h.Tiles.Active()
	writeJSON(w, http.StatusOK, MapStateResponse{
		TileSource:   active.Name,
		TileTemplate: active.URLTemplate,
		UsingOffline: h.Tiles.UsingOffline(),
		Categories:   h.Map.Snapshot(),
	})
}

// ShowPanel activates a panel.
func (h *Handlers) ShowPanel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Panels.Show(r.Context(), req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": req.Name})
}

// SaveRule creates or updates a rule depending on the editor state.
func (h *Handlers) SaveRule(w http.ResponseWriter, r *http.Request) {
	var rule models.FirewallRule
	if err := decodeBody(r, &rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Firewall.Save(r.Context(), rule); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// EditRule arms the editor with the rule located by id.
func (h *Handlers) EditRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rule, err := h.Firewall.BeginEdit(r.Context(), req.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// AddRule resets the editor for a new rule.
func (h *Handlers) AddRule(w http.ResponseWriter, r *http.Request) {
	h.Firewall.BeginAdd()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// DeleteRule removes the rule whose id trails the path.
func (h *Handlers) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/console/firewall/rules/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "rule id required")
		return
	}
	if err := h.Firewall.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ToggleIPS flips intrusion prevention.
func (h *Handlers) ToggleIPS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Firewall.ToggleIPS(r.Context(), req.Enabled); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

// FirewallLogin forwards operator credentials to the backend firewall.
func (h *Handlers) FirewallLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.Firewall.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// FirewallLogout ends the backend firewall session.
func (h *Handlers) FirewallLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Firewall.Logout(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ConsoleLogin issues a console session token.
func (h *Handlers) ConsoleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Tokens == nil {
		writeError(w, http.StatusNotFound, "console auth disabled")
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.Tokens.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ShowDevice opens the device detail view by id.
func (h *Handlers) ShowDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Devices.ShowDetailsByID(r.Context(), req.ID); err != nil {
		status := http.StatusBadGateway
		if err == views.ErrAccessDenied {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// CloseDevice clears the detail view.
func (h *Handlers) CloseDevice(w http.ResponseWriter, r *http.Request) {
	h.Devices.CloseDetails()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// DeviceCommand posts a control command for the current device.
func (h *Handlers) DeviceCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command    string                 `json:"command"`
		Parameters map[string]interface{} `json:"parameters"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Devices.ExecuteCommand(r.Context(), req.Command, req.Parameters); err != nil {
		status := http.StatusBadGateway
		if err == views.ErrAccessDenied {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ToggleOverlay flips one overlay category's visibility.
func (h *Handlers) ToggleOverlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
		Visible  bool   `json:"visible"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.Map.Toggle(mapview.Category(req.Category), req.Visible)
	writeJSON(w, http.StatusOK, map[string]bool{"visible": req.Visible})
}

// TileEvent relays browser-side tile and connectivity events into the
// tile-source state machine.
func (h *Handlers) TileEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Event string `json:"event"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Event {
	case "online":
		h.Tiles.HandleNetworkOnline()
	case "offline":
		h.Tiles.HandleNetworkOffline()
	case "tileload":
		h.Tiles.RecordTileLoad()
	case "tileerror":
		h.Tiles.RecordTileError()
	default:
		writeError(w, http.StatusBadRequest, "unknown tile event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"using_offline": h.Tiles.UsingOffline()})
}
