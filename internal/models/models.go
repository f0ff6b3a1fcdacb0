package models

import "strings"

// Station type categories reported by the backend. The simulation mixes
// plain grid equipment with defense assets that the console renders as
// power grid stations.
const (
	TypePowerStation = "power_station"
	TypePLC          = "PLC"
	TypeRTU          = "RTU"
	TypeScadaServer  = "SCADA_SERVER"
	TypeS400         = "S400"
	TypeDrone        = "DRONE"
	TypeAutonomous   = "AUTONOMOUS"
	TypeRadar        = "RADAR"
	TypeMissile      = "MISSILE"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Metrics carries the optional electrical readings of a station.
type Metrics struct {
	Voltage     *float64 `json:"voltage,omitempty"`
	Load        *float64 `json:"load,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Credentials is the credential pair leaked on compromised devices.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Station is a map asset as returned by GET /api/map.
type Station struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	City        string    `json:"city,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
	PowerStatus string    `json:"power_status,omitempty"`
	Readiness   *float64  `json:"readiness,omitempty"`
}

// Connection links two stations for rendering. Type selects the line style;
// anything other than the military/network categories is a power grid line.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

const (
	ConnectionMilitary = "military_connection"
	ConnectionNetwork  = "network_connection"
)

// Device is a SCADA device card as returned by GET /api/scada/devices.
// Metrics sit directly on the device here, unlike the map payload.
type Device struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Type            string       `json:"type"`
	Status          string       `json:"status"`
	City            string       `json:"city,omitempty"`
	Voltage         *float64     `json:"voltage,omitempty"`
	Load            *float64     `json:"load,omitempty"`
	Temperature     *float64     `json:"temperature,omitempty"`
	Vulnerabilities []string     `json:"vulnerabilities,omitempty"`
	Credentials     *Credentials `json:"credentials,omitempty"`
}

// FirewallRule is a single filtering rule, CRUD-owned by the backend.
type FirewallRule struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Service     string `json:"service"`
	Action      string `json:"action"`
	Enabled     bool   `json:"enabled"`
}

// FirewallStatus aggregates the firewall panel header fields.
type FirewallStatus struct {
	Compromised   bool   `json:"compromised"`
	Authenticated bool   `json:"authenticated"`
	IPSEnabled    bool   `json:"ips_enabled"`
	RuleCount     int    `json:"rule_count"`
	DefaultPolicy string `json:"default_policy"`
}

// GridStatus summarizes the simulated power grid.
type GridStatus struct {
	TotalCapacity  float64 `json:"total_capacity"`
	CurrentLoad    float64 `json:"current_load"`
	Frequency      float64 `json:"frequency"`
	GridStability  string  `json:"grid_stability"`
	StationsOnline int     `json:"stations_online"`
	StationsTotal  int     `json:"stations_total"`
}

// ScadaStatus wraps GET /api/scada/status.
type ScadaStatus struct {
	GridStatus GridStatus `json:"grid_status"`
}

// CommandRequest is posted to /api/scada/command.
type CommandRequest struct {
	DeviceID   string                 `json:"device_id"`
	Command    string                 `json:"command"`
	Parameters map[string]interface{} `json:"parameters"`
}

// Command result statuses. Anything else is treated as a generic failure.
const (
	CommandSuccess = "success"
	CommandBlocked = "blocked"
)

// CommandResult is the backend's verdict on a device command.
type CommandResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MapSnapshot is the GET /api/map payload.
type MapSnapshot struct {
	Stations    []Station    `json:"stations"`
	Connections []Connection `json:"connections"`
}

// LoginRequest is posted to /api/firewall/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult reports the firewall authentication outcome, including the
// lockout countdown the backend enforces after repeated failures.
type LoginResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	Authenticated     bool   `json:"authenticated"`
	Locked            bool   `json:"locked"`
	AttemptsRemaining int    `json:"attempts_remaining"`
}

// IsDefenseType reports whether the station type is one of the defense
// asset categories that get renamed for display.
func IsDefenseType(stationType string) bool {
	switch stationType {
	case TypeS400, TypeDrone, TypeAutonomous, TypeRadar, TypeMissile:
		return true
	}
	return false
}

// DisplayType maps defense categories to the neutral power-station label.
func DisplayType(stationType string) string {
	if IsDefenseType(stationType) {
		return "POWER_STATION"
	}
	return stationType
}

// DisplayName converts defense asset names into power grid station names,
// preferring the city, then well-known name fragments.
func DisplayName(name, stationType, city string) string {
	if !IsDefenseType(stationType) {
		return name
	}
	for _, c := range []string{"Jammu", "Srinagar", "Pathankot"} {
		if strings.Contains(city, c) {
			return c + " Power Grid Station"
		}
	}
	switch {
	case strings.Contains(name, "Alpha"):
		return "Power Grid Station Alpha"
	case strings.Contains(name, "Bravo"):
		return "Power Grid Station Bravo"
	case strings.Contains(name, "Jammu"):
		return "Jammu Power Grid Station"
	case strings.Contains(name, "Srinagar"):
		return "Srinagar Power Grid Station"
	case strings.Contains(name, "Pathankot"):
		return "Pathankot Power Grid Station"
	}
	return "Power Grid Station"
}
