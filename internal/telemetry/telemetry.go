package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Collector captures console health events. Implementations must be cheap
// because the hooks run inline with refresh paths.
type Collector interface {
	IncChannelReconnect()
	SetChannelConnected(connected bool)
	IncRequestError(component string)
	IncMapRefresh()
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncChannelReconnect()     {}
func (noopCollector) SetChannelConnected(bool) {}
func (noopCollector) IncRequestError(string)   {}
func (noopCollector) IncMapRefresh()           {}

// PrometheusCollector exposes console counters via Prometheus.
type PrometheusCollector struct {
	reconnects    prometheus.Counter
	connected     prometheus.Gauge
	requestErrors *prometheus.CounterVec
	mapRefreshes  prometheus.Counter
}

// NewPrometheusCollector registers the console metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grid_console_channel_reconnects_total",
			Help: "Number of live channel reconnect attempts.",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "grid_console_channel_connected",
			Help: "Whether the live channel is currently connected.",
		}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grid_console_request_errors_total",
			Help: "Number of failed backend requests per console component.",
		}, []string{"component"}),
		mapRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grid_console_map_refreshes_total",
			Help: "Number of full map overlay rebuilds.",
		}),
	}

	for _, col := range []prometheus.Collector{c.reconnects, c.connected, c.requestErrors, c.mapRefreshes} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *PrometheusCollector) IncChannelReconnect() {
	c.reconnects.Inc()
}

func (c *PrometheusCollector) SetChannelConnected(connected bool) {
	if connected {
		c.connected.Set(1)
	} else {
		c.connected.Set(0)
	}
}

func (c *PrometheusCollector) IncRequestError(component string) {
	c.requestErrors.WithLabelValues(component).Inc()
}

func (c *PrometheusCollector) IncMapRefresh() {
	c.mapRefreshes.Inc()
}
