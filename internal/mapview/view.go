package mapview

import (
	"sync"

	"go.uber.org/zap"

	"gridconsole/internal/models"
	"gridconsole/internal/telemetry"
)

// Category identifies an overlay group with its own show/hide toggle.
type Category string

const (
	CategoryGridRadius       Category = "grid_radius"
	CategoryDroneRadius      Category = "drone_radius"
	CategoryS400Coverage     Category = "s400_coverage"
	CategoryRadarCoverage    Category = "radar_coverage"
	CategoryMissileRange     Category = "missile_range"
	CategorySecurityZones    Category = "security_zones"
	CategoryThreatIndicators Category = "threat_indicators"
	CategoryBorderLines      Category = "border_lines"
	CategoryOperationalZones Category = "operational_zones"
	CategoryTrafficPulses    Category = "traffic_pulses"
	CategoryHealthAlerts     Category = "health_alerts"
	CategoryConnections      Category = "connections"
	CategoryMarkers          Category = "markers"
)

// categoryOrder is the fixed layering order of a rebuild.
var categoryOrder = []Category{
	CategoryGridRadius,
	CategoryDroneRadius,
	CategoryS400Coverage,
	CategoryRadarCoverage,
	CategoryMissileRange,
	CategoryBorderLines,
	CategorySecurityZones,
	CategoryThreatIndicators,
	CategoryOperationalZones,
	CategoryTrafficPulses,
	CategoryHealthAlerts,
	CategoryConnections,
	CategoryMarkers,
}

// Categories returns the overlay categories in layering order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// View owns the overlay registries of the map panel. Refresh is a full
// rebuild: the attached overlay set is always a pure function of the
// latest stations/connections input, never an accumulation.
type View struct {
	mu       sync.Mutex
	m        *Map
	overlays map[Category][]Layer
	visible  map[Category]bool
	logger   *zap.Logger
	metrics  telemetry.Collector
}

// NewView builds a view drawing onto m.
func NewView(m *Map, logger *zap.Logger, metrics telemetry.Collector) *View {
	if metrics == nil {
		metrics = telemetry.Noop()
	}
	return &View{
		m:        m,
		overlays: make(map[Category][]Layer),
		visible:  make(map[Category]bool),
		logger:   logger,
		metrics:  metrics,
	}
}

// Refresh tears down every previously created overlay and reconstructs all
// categories from the given snapshot, attaching everything. Toggles reset
// to visible, matching a fresh render.
func (v *View) Refresh(stations []models.Station, connections []models.Connection) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, layers := range v.overlays {
		for _, l := range layers {
			v.m.RemoveLayer(l)
		}
	}

	v.overlays = map[Category][]Layer{
		CategoryGridRadius:       buildGridRadius(),
		CategoryDroneRadius:      buildDroneZones(stations),
		CategoryS400Coverage:     buildS400Coverage(stations),
		CategoryRadarCoverage:    buildRadarCoverage(stations),
		CategoryMissileRange:     buildMissileRange(stations),
		CategoryBorderLines:      buildBorderLines(),
		CategorySecurityZones:    buildSecurityZones(stations),
		CategoryThreatIndicators: buildThreatIndicators(),
		CategoryOperationalZones: buildOperationalZones(),
		CategoryTrafficPulses:    buildTrafficPulses(stations, connections),
		CategoryHealthAlerts:     buildHealthAlerts(stations),
		CategoryConnections:      buildConnectionLines(stations, connections),
		CategoryMarkers:          buildStationMarkers(stations),
	}

	for _, cat := range categoryOrder {
		v.visible[cat] = true
		for _, l := range v.overlays[cat] {
			v.m.AddLayer(l)
		}
	}

	v.metrics.IncMapRefresh()
	v.logger.Debug("map overlays rebuilt",
		zap.Int("stations", len(stations)),
		zap.Int("connections", len(connections)),
		zap.Int("layers", v.m.Len()))
}

// Toggle attaches or detaches a category's stored overlays without
// rebuilding them.
func (v *View) Toggle(category Category, show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.visible[category] = show
	for _, l := range v.overlays[category] {
		if show {
			v.m.AddLayer(l)
		} else {
			v.m.RemoveLayer(l)
		}
	}
}

// Visible reports the toggle state of a category.
func (v *View) Visible(category Category) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible[category]
}

// CategoryCount returns how many overlays a category currently holds.
func (v *View) CategoryCount(category Category) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.overlays[category])
}

// LayerSnapshot is the serialized form of one overlay for the console page.
type LayerSnapshot struct {
	Kind   string    `json:"kind"`
	Center *LatLng   `json:"center,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	Points []LatLng  `json:"points,omitempty"`
	At     *LatLng   `json:"at,omitempty"`
	Icon   *Icon     `json:"icon,omitempty"`
	Style  PathStyle `json:"style"`
	Popup  string    `json:"popup,omitempty"`
}

// CategorySnapshot groups a category's overlays with its toggle state.
type CategorySnapshot struct {
	Category Category        `json:"category"`
	Visible  bool            `json:"visible"`
	Layers   []LayerSnapshot `json:"layers"`
}

// Snapshot serializes all categories in layering order.
func (v *View) Snapshot() []CategorySnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]CategorySnapshot, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		snap := CategorySnapshot{Category: cat, Visible: v.visible[cat]}
		for _, l := range v.overlays[cat] {
			snap.Layers = append(snap.Layers, describeLayer(l))
		}
		out = append(out, snap)
	}
	return out
}

func describeLayer(l Layer) LayerSnapshot {
	switch layer := l.(type) {
	case *Circle:
		center := layer.Center
		return LayerSnapshot{Kind: "circle", Center: &center, Radius: layer.Radius, Style: layer.Style, Popup: layer.Popup()}
	case *Polyline:
		return LayerSnapshot{Kind: "polyline", Points: layer.Points, Style: layer.Style, Popup: layer.Popup()}
	case *Marker:
		at := layer.At
		icon := layer.Icon
		return LayerSnapshot{Kind: "marker", At: &at, Icon: &icon, Popup: layer.Popup()}
	default:
		return LayerSnapshot{Kind: "unknown"}
	}
}
