package mapview

import "sync"

// LatLng is a map coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PathStyle mirrors the stroke/fill options of a drawn map primitive.
type PathStyle struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fill_color,omitempty"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
	Opacity     float64 `json:"opacity"`
	Weight      int     `json:"weight"`
	DashArray   string  `json:"dash_array,omitempty"`
}

// Layer is any object that can be attached to the map. Popup HTML is built
// once at creation time and never re-evaluated.
type Layer interface {
	Popup() string
}

// Circle is a fixed-radius overlay circle.
type Circle struct {
	Center LatLng
	Radius float64 // meters
	Style  PathStyle
	popup  string
}

// NewCircle builds a circle with its popup bound at creation.
func NewCircle(center LatLng, radius float64, style PathStyle, popup string) *Circle {
	return &Circle{Center: center, Radius: radius, Style: style, popup: popup}
}

func (c *Circle) Popup() string { return c.popup }

// Polyline is a styled line through two or more points.
type Polyline struct {
	Points []LatLng
	Style  PathStyle
	popup  string
}

// NewPolyline builds a polyline with its popup bound at creation.
func NewPolyline(points []LatLng, style PathStyle, popup string) *Polyline {
	return &Polyline{Points: points, Style: style, popup: popup}
}

func (p *Polyline) Popup() string { return p.popup }

// Icon describes a marker's visual. Either an image icon or an inline
// HTML (div) icon, matching the two marker flavors of the original UI.
type Icon struct {
	Image  string `json:"image,omitempty"`
	HTML   string `json:"html,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Class  string `json:"class,omitempty"`
}

// Marker is a point marker.
type Marker struct {
	At           LatLng
	Icon         Icon
	ZIndexOffset int
	popup        string
}

// NewMarker builds a marker with its popup bound at creation.
func NewMarker(at LatLng, icon Icon, popup string) *Marker {
	return &Marker{At: at, Icon: icon, popup: popup}
}

func (m *Marker) Popup() string { return m.popup }

// TileLayer is a basemap source. Both sources are constructed once and
// swapped by attaching/detaching, never recreated.
type TileLayer struct {
	Name        string
	URLTemplate string
	Attribution string
	MinZoom     int
	MaxZoom     int
	// MaxNativeZoom caps the zoom the offline tile set was rendered at.
	MaxNativeZoom int
	NoWrap        bool
}

func (t *TileLayer) Popup() string { return "" }

// Map is the overlay registry standing in for the map widget. Everything
// rendered is a Layer attached here; toggles and refreshes work purely in
// terms of attach/detach.
type Map struct {
	mu     sync.Mutex
	layers map[Layer]struct{}
}

// NewMap returns an empty registry.
func NewMap() *Map {
	return &Map{layers: make(map[Layer]struct{})}
}

// AddLayer attaches a layer. Adding an attached layer is a no-op.
func (m *Map) AddLayer(l Layer) {
	m.mu.Lock()
	m.layers[l] = struct{}{}
	m.mu.Unlock()
}

// RemoveLayer detaches a layer. Removing a detached layer is a no-op.
func (m *Map) RemoveLayer(l Layer) {
	m.mu.Lock()
	delete(m.layers, l)
	m.mu.Unlock()
}

// HasLayer reports whether the layer is currently attached.
func (m *Map) HasLayer(l Layer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.layers[l]
	return ok
}

// Len returns the number of attached layers.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.layers)
}
