package mapview

import "gridconsole/internal/models"

// Health alert thresholds. Stations scoring below alertThreshold get a
// health circle; below criticalThreshold the circle turns red.
const (
	alertThreshold    = 70
	criticalThreshold = 50
)

// HealthScore computes the simplified station health score: 100, minus 20
// when load exceeds 0.9, minus 15 when voltage falls outside 200-250 V,
// and 0 when the station is offline.
func HealthScore(station models.Station) int {
	if station.Status == models.StatusOffline {
		return 0
	}
	score := 100
	if station.Metrics != nil {
		if station.Metrics.Load != nil && *station.Metrics.Load > 0.9 {
			score -= 20
		}
		if station.Metrics.Voltage != nil && (*station.Metrics.Voltage < 200 || *station.Metrics.Voltage > 250) {
			score -= 15
		}
	}
	return score
}
