package livechannel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gridconsole/internal/telemetry"
)

// Message types pushed by the backend. Anything else is ignored.
const (
	TypeFirewallUpdated     = "firewall_updated"
	TypeFirewallCompromised = "firewall_compromised"
	TypeScadaUpdate         = "scada_update"
	TypeScadaCompromised    = "scada_compromised"
)

// HandlerFunc consumes one pushed message's payload. Handlers run on the
// read loop, so messages are handled strictly in receipt order.
type HandlerFunc func(payload json.RawMessage)

// Conn is the subset of *websocket.Conn the client reads from.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens the push channel. Abstracted for tests.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials with gorilla's default dialer.
type WebsocketDialer struct{}

// DialContext opens the websocket connection.
func (WebsocketDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Client owns the single persistent push connection. On any close or dial
// failure it schedules exactly one retry after a fixed delay and keeps
// retrying forever; this is fire-and-forget notification, not a reliable
// protocol.
type Client struct {
	url        string
	dialer     Dialer
	retryDelay time.Duration
	handlers   map[string]HandlerFunc
	onState    func(connected bool)
	logger     *zap.Logger
	metrics    telemetry.Collector
}

// NewClient builds the channel client. Run must be called to connect.
func NewClient(url string, dialer Dialer, retryDelay time.Duration, logger *zap.Logger, metrics telemetry.Collector) *Client {
	if dialer == nil {
		dialer = WebsocketDialer{}
	}
	if retryDelay <= 0 {
		retryDelay = 3 * time.Second
	}
	if metrics == nil {
		metrics = telemetry.Noop()
	}
	return &Client{
		url:        url,
		dialer:     dialer,
		retryDelay: retryDelay,
		handlers:   make(map[string]HandlerFunc),
		logger:     logger,
		metrics:    metrics,
	}
}

// Register attaches a handler to a message type. Not safe to call
// concurrently with Run.
func (c *Client) Register(messageType string, handler HandlerFunc) {
	c.handlers[messageType] = handler
}

// OnStateChange sets the connection indicator callback.
func (c *Client) OnStateChange(fn func(connected bool)) {
	c.onState = fn
}

// Run connects and keeps reconnecting until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	for {
		conn, err := c.dialer.DialContext(ctx, c.url)
		if err != nil {
			c.logger.Warn("live channel dial failed", zap.String("url", c.url), zap.Error(err))
		} else {
			c.logger.Info("live channel connected", zap.String("url", c.url))
			c.setConnected(true)
			c.readLoop(ctx, conn)
			c.setConnected(false)
			c.logger.Info("live channel disconnected", zap.String("url", c.url))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.metrics.IncChannelReconnect()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-connCtx.Done()
		_ = conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Info("live channel read closed", zap.Error(err))
			}
			return
		}
		c.dispatch(message)
	}
}

func (c *Client) dispatch(raw []byte) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.logger.Warn("live channel message unparseable", zap.Error(err))
		return
	}

	handler, ok := c.handlers[envelope.Type]
	if !ok {
		c.logger.Debug("live channel message ignored", zap.String("type", envelope.Type))
		return
	}
	handler(raw)
}

func (c *Client) setConnected(connected bool) {
	c.metrics.SetChannelConnected(connected)
	if c.onState != nil {
		c.onState(connected)
	}
}
