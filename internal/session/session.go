package session

import "sync"

// AccessState holds the client-side access gate flags. The gate is cosmetic
// UX mirrored from the backend; authoritative enforcement stays server-side.
// Guarded by a mutex because the live channel, the poll ticker and the
// console HTTP handlers all touch it.
type AccessState struct {
	mu sync.Mutex

	firewallCompromised   bool
	scadaAccessGranted    bool
	firewallAuthenticated bool
}

// NewAccessState returns a state with every gate closed.
func NewAccessState() *AccessState {
	return &AccessState{}
}

// Flags is a point-in-time copy of the gate flags.
type Flags struct {
	FirewallCompromised   bool `json:"firewall_compromised"`
	ScadaAccessGranted    bool `json:"scada_access_granted"`
	FirewallAuthenticated bool `json:"firewall_authenticated"`
}

// Snapshot returns a copy of the current flags.
func (s *AccessState) Snapshot() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Flags{
		FirewallCompromised:   s.firewallCompromised,
		ScadaAccessGranted:    s.scadaAccessGranted,
		FirewallAuthenticated: s.firewallAuthenticated,
	}
}

// Granted reports whether any of the three gates is open.
func (s *AccessState) Granted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firewallCompromised || s.scadaAccessGranted || s.firewallAuthenticated
}

// SetFirewallCompromised flips the compromised gate.
func (s *AccessState) SetFirewallCompromised(v bool) {
	s.mu.Lock()
	s.firewallCompromised = v
	s.mu.Unlock()
}

// SetScadaAccessGranted flips the SCADA gate.
func (s *AccessState) SetScadaAccessGranted(v bool) {
	s.mu.Lock()
	s.scadaAccessGranted = v
	s.mu.Unlock()
}

// SetFirewallAuthenticated records the backend-reported auth status.
func (s *AccessState) SetFirewallAuthenticated(v bool) {
	s.mu.Lock()
	s.firewallAuthenticated = v
	s.mu.Unlock()
}

// ConnectionState tracks whether the live channel is currently up.
type ConnectionState struct {
	mu        sync.Mutex
	connected bool
}

// NewConnectionState starts disconnected.
func NewConnectionState() *ConnectionState {
	return &ConnectionState{}
}

// SetConnected records a transition of the live channel.
func (c *ConnectionState) SetConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Connected reports the current indicator value.
func (c *ConnectionState) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
