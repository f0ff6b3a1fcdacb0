package mapview

import (
	"fmt"

	"gridconsole/internal/models"
)

// Fixed geography of the training scenario. The grid circle and the static
// zones cover the Jammu & Kashmir region the simulation is set in.
var (
	gridCenter     = LatLng{Lat: 32.7266, Lon: 74.8570}
	srinagarCenter = LatLng{Lat: 34.0837, Lon: 74.7973}
	pathankotDepot = LatLng{Lat: 32.2643, Lon: 75.6421}

	borderCoordinates = []LatLng{
		{32.0, 74.5}, {32.2, 74.6}, {32.4, 74.7}, {32.6, 74.8},
		{32.8, 74.9}, {33.0, 75.0}, {33.2, 75.1}, {33.4, 75.2},
		{33.6, 75.3}, {33.8, 75.4}, {34.0, 75.5}, {34.2, 75.6},
	}

	threatLocations = []struct {
		At   LatLng
		Kind string
	}{
		{LatLng{32.5, 75.0}, "SUSPICIOUS ACTIVITY"},
		{LatLng{33.0, 74.8}, "NETWORK SCAN"},
	}
)

// Coverage radii in meters per defense station category.
const (
	gridRadiusMeters     = 120000
	droneRadiusMeters    = 50000
	s400RadiusMeters     = 400000
	radarRadiusMeters    = 200000
	missileRadiusMeters  = 300000
	securityZoneMeters   = 10000
	healthAlertMeters    = 5000
	emergencyZoneMeters  = 25000
	maintenanceZoneMeter = 15000
)

func stationIndex(stations []models.Station) map[string]models.Station {
	idx := make(map[string]models.Station, len(stations))
	for _, s := range stations {
		idx[s.ID] = s
	}
	return idx
}

func located(s models.Station) bool {
	return s.Location != nil && s.Location.Lat != 0
}

func stationLatLng(s models.Station) LatLng {
	return LatLng{Lat: s.Location.Lat, Lon: s.Location.Lon}
}

func buildGridRadius() []Layer {
	popup := `<div class="overlay-popup"><h3>Network Grid Coverage Area</h3>` +
		`<p><b>Radius:</b> 120 km</p>` +
		`<p><b>Coverage:</b> Jammu &amp; Kashmir Region</p>` +
		`<p class="critical">CRITICAL INFRASTRUCTURE ZONE</p></div>`
	circle := NewCircle(gridCenter, gridRadiusMeters, PathStyle{
		Color: "#ff4444", FillColor: "#ff4444", FillOpacity: 0.15,
		Weight: 3, DashArray: "10, 5", Opacity: 0.8,
	}, popup)
	return []Layer{circle}
}

func buildDroneZones(stations []models.Station) []Layer {
	var layers []Layer
	for _, s := range stations {
		if s.Type != models.TypeDrone || !located(s) {
			continue
		}
		popup := fmt.Sprintf(`<div class="overlay-popup"><h3>Drone Activity Zone</h3>`+
			`<p><b>Drone:</b> %s</p>`+
			`<p><b>Operational Radius:</b> 50 km</p>`+
			`<p><b>Status:</b> %s</p>`+
			`<p class="warning">RESTRICTED AIRSPACE</p></div>`, s.Name, s.Status)
		layers = append(layers, NewCircle(stationLatLng(s), droneRadiusMeters, PathStyle{
			Color: "#0066ff", FillColor: "#0066ff", FillOpacity: 0.1,
			Weight: 2, DashArray: "20, 10, 5, 10", Opacity: 0.9,
		}, popup))
	}
	return layers
}

func buildS400Coverage(stations []models.Station) []Layer {
	var layers []Layer
	for _, s := range stations {
		if s.Type != models.TypeS400 || !located(s) {
			continue
		}
		popup := fmt.Sprintf(`<div class="overlay-popup"><h3>S-400 Air Defense Zone</h3>`+
			`<p><b>System:</b> %s</p>`+
			`<p><b>Coverage Radius:</b> 400 km</p></div>`, s.Name)
		layers = append(layers, NewCircle(stationLatLng(s), s400RadiusMeters, PathStyle{
			Color: "#ff00ff", FillColor: "#ff00ff", FillOpacity: 0.08,
			Weight: 3, DashArray: "25, 15, 5, 15", Opacity: 0.9,
		}, popup))
	}
	return layers
}

func buildRadarCoverage(stations []models.Station) []Layer {
	var layers []Layer
	for _, s := range stations {
		if s.Type != models.TypeRadar || !located(s) {
			continue
		}
		popup := fmt.Sprintf(`<div class="overlay-popup"><h3>Radar Coverage Zone</h3>`+
			`<p><b>System:</b> %s</p>`+
			`<p><b>Coverage Radius:</b> 200 km</p></div>`, s.Name)
		layers = append(layers, NewCircle(stationLatLng(s), radarRadiusMeters, PathStyle{
			Color: "#00ffff", FillColor: "#00ffff", FillOpacity: 0.1,
			Weight: 2, DashArray: "15, 10, 3, 10", Opacity: 0.85,
		}, popup))
	}
	return layers
}

func buildMissileRange(stations []models.Station) []Layer {
	var layers []Layer
	for _, s := range stations {
		if s.Type != models.TypeMissile || !located(s) {
			continue
		}
		popup := fmt.Sprintf(`<div class="overlay-popup"><h3>Missile Range Zone</h3>`+
			`<p><b>System:</b> %s</p>`+
			`<p><b>Range:</b> 300 km</p></div>`, s.Name)
		layers = append(layers, NewCircle(stationLatLng(s), missileRadiusMeters, PathStyle{
			Color: "#ff6600", FillColor: "#ff6600", FillOpacity: 0.12,
			Weight: 3, DashArray: "20, 10, 5, 10", Opacity: 0.9,
		}, popup))
	}
	return layers
}

func buildBorderLines() []Layer {
	line := NewPolyline(borderCoordinates, PathStyle{
		Color: "#ff0000", Weight: 4, Opacity: 0.8, DashArray: "10, 5",
	}, "<b>Defense Perimeter Line</b><br>Border Region")
	return []Layer{line}
}

func buildSecurityZones(stations []models.Station) []Layer {
	var layers []Layer
	for _, s := range stations {
		switch s.Type {
		case models.TypePowerStation, models.TypeScadaServer, models.TypeMissile, models.TypeS400:
		default:
			continue
		}
		if !located(s) {
			continue
		}
		layers = append(layers, NewCircle(stationLatLng(s), securityZoneMeters, PathStyle{
			Color: "#ff0000", FillColor: "#ff0000", FillOpacity: 0.15,
			Weight: 2, DashArray: "5, 5",
		}, ""))
	}
	return layers
}

func buildThreatIndicators() []Layer {
	var layers []Layer
	for _, threat := range threatLocations {
		popup := fmt.Sprintf(`<div class="overlay-popup"><h3>THREAT DETECTED</h3>`+
			`<p><b>Type:</b> %s</p>`+
			`<p><b>Status:</b> Under Investigation</p></div>`, threat.Kind)
		layers = append(layers, NewMarker(threat.At, Icon{
			HTML:   `<div class="threat-dot"></div>`,
			Width:  20,
			Height: 20,
			Class:  "threat-indicator",
		}, popup))
	}
	return layers
}

func buildOperationalZones() []Layer {
	zones := []struct {
		Center LatLng
		Name   string
		Radius float64
		Color  string
		Dash   string
		Note   string
	}{
		{gridCenter, "Jammu Emergency Zone", emergencyZoneMeters, "#ffff00", "8, 4", "Emergency Response Zone"},
		{srinagarCenter, "Srinagar Emergency Zone", emergencyZoneMeters, "#ffff00", "8, 4", "Emergency Response Zone"},
		{pathankotDepot, "Pathankot Maintenance Zone", maintenanceZoneMeter, "#ff8800", "6, 6", "Scheduled Maintenance"},
	}

	var layers []Layer
	for _, z := range zones {
		popup := fmt.Sprintf("<b>%s</b><br>%s", z.Name, z.Note)
		layers = append(layers, NewCircle(z.Center, z.Radius, PathStyle{
			Color: z.Color, FillColor: z.Color, FillOpacity: 0.1,
			Weight: 2, DashArray: z.Dash,
		}, popup))
	}
	return layers
}

func buildTrafficPulses(stations []models.Station, connections []models.Connection) []Layer {
	idx := stationIndex(stations)
	var layers []Layer
	for _, conn := range connections {
		if conn.Type != models.ConnectionMilitary && conn.Type != models.ConnectionNetwork {
			continue
		}
		from, okFrom := idx[conn.From]
		to, okTo := idx[conn.To]
		if !okFrom || !okTo || !located(from) || !located(to) {
			continue
		}
		mid := LatLng{
			Lat: (from.Location.Lat + to.Location.Lat) / 2,
			Lon: (from.Location.Lon + to.Location.Lon) / 2,
		}
		color := "#00ff88"
		if conn.Type == models.ConnectionMilitary {
			color = "#0066ff"
		}
		popup := fmt.Sprintf("<b>Active Connection</b><br>%s &#8596; %s", from.Name, to.Name)
		layers = append(layers, NewMarker(mid, Icon{
			HTML:   fmt.Sprintf(`<div class="traffic-dot" style="background:%s"></div>`, color),
			Width:  12,
			Height: 12,
			Class:  "traffic-indicator",
		}, popup))
	}
	return layers
}

func buildHealthAlerts(stations []models.Station) []Layer {
	var layers []Layer
	for _, s := range stations {
		if !located(s) {
			continue
		}
		score := HealthScore(s)
		if score >= alertThreshold {
			continue
		}
		color := "#ff8800"
		severity := "WARNING"
		if score < criticalThreshold {
			color = "#ff0000"
			severity = "CRITICAL"
		}
		popup := fmt.Sprintf(`<div class="overlay-popup"><h3>Health Alert</h3>`+
			`<p><b>Device:</b> %s</p>`+
			`<p><b>Health Score:</b> %d%%</p>`+
			`<p><b>Status:</b> %s</p></div>`, s.Name, score, severity)
		layers = append(layers, NewCircle(stationLatLng(s), healthAlertMeters, PathStyle{
			Color: color, FillColor: color, FillOpacity: 0.2,
			Weight: 2, DashArray: "3, 3",
		}, popup))
	}
	return layers
}

func buildConnectionLines(stations []models.Station, connections []models.Connection) []Layer {
	idx := stationIndex(stations)
	var layers []Layer
	for _, conn := range connections {
		from, okFrom := idx[conn.From]
		to, okTo := idx[conn.To]
		if !okFrom || !okTo || !located(from) || !located(to) {
			continue
		}

		var style PathStyle
		var label string
		switch conn.Type {
		case models.ConnectionMilitary:
			style = PathStyle{Color: "#0066ff", Weight: 6, DashArray: "15, 10", Opacity: 0.9}
			label = "Military SCADA Connection"
		case models.ConnectionNetwork:
			style = PathStyle{Color: "#00ff88", Weight: 4, DashArray: "8, 4", Opacity: 0.7}
			label = "Network Connection"
		default:
			style = PathStyle{Color: "#ffdd00", Weight: 5, DashArray: "12, 6", Opacity: 0.9}
			label = "Power Grid Line"
		}

		popup := fmt.Sprintf("<b>%s</b><br>From: %s<br>To: %s", label, from.Name, to.Name)
		layers = append(layers, NewPolyline([]LatLng{stationLatLng(from), stationLatLng(to)}, style, popup))
	}
	return layers
}

func markerIcon(stationType string) Icon {
	switch stationType {
	case models.TypePLC:
		return Icon{Image: "/static/images/plc.jpg", Width: 70, Height: 70, Class: "power-station-icon"}
	case models.TypeRTU:
		return Icon{Image: "/static/images/rtu.jpg", Width: 70, Height: 70, Class: "power-station-icon"}
	default:
		// Defense assets render with the power station icon as well.
		return Icon{Image: "/static/images/power_station.jpg", Width: 80, Height: 80, Class: "power-station-icon"}
	}
}

func buildStationMarkers(stations []models.Station) []Layer {
	var layers []Layer
	for _, s := range stations {
		if !located(s) || s.Location.Lon == 0 {
			continue
		}

		displayName := models.DisplayName(s.Name, s.Type, s.City)
		popup := stationPopup(s, displayName)
		layers = append(layers, NewMarker(stationLatLng(s), markerIcon(s.Type), popup))

		if s.Status == models.StatusOnline {
			ringColor := "#00ff00"
			if s.Type == models.TypeMissile || s.Type == models.TypeS400 {
				ringColor = "#ff0000"
			}
			ring := NewMarker(stationLatLng(s), Icon{
				HTML:  fmt.Sprintf(`<div class="pulse-ring" style="border-color:%s"></div>`, ringColor),
				Class: "status-indicator-pulse",
			}, "")
			ring.ZIndexOffset = -1000
			layers = append(layers, ring)
		}
	}
	return layers
}

func stationPopup(s models.Station, displayName string) string {
	popup := fmt.Sprintf(`<div class="overlay-popup"><h3>%s</h3>`+
		`<p><b>Type:</b> %s</p>`+
		`<p><b>Status:</b> %s</p>`, displayName, models.DisplayType(s.Type), s.Status)
	if s.City != "" {
		popup += fmt.Sprintf(`<p><b>Location:</b> %s</p>`, s.City)
	}
	popup += `<p class="highlight">POWER GRID STATION</p>`
	if models.IsDefenseType(s.Type) {
		if s.PowerStatus != "" {
			popup += fmt.Sprintf(`<p><b>Power Status:</b> %s</p>`, s.PowerStatus)
		}
		if s.Readiness != nil {
			popup += fmt.Sprintf(`<p><b>Operational Status:</b> %.1f%%</p>`, *s.Readiness*100)
		}
		popup += `<p class="warning">CRITICAL INFRASTRUCTURE</p>`
	} else if s.Metrics != nil {
		if s.Metrics.Voltage != nil {
			popup += fmt.Sprintf(`<p><b>Voltage:</b> %.1fV</p>`, *s.Metrics.Voltage)
		}
		if s.Metrics.Load != nil {
			popup += fmt.Sprintf(`<p><b>Load:</b> %.1f%%</p>`, *s.Metrics.Load*100)
		}
	}
	popup += fmt.Sprintf(`<p class="detail-link" data-station="%s">View Details</p></div>`, s.ID)
	return popup
}
