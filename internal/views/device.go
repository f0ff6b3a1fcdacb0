package views

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gridconsole/internal/clients"
	"gridconsole/internal/models"
	"gridconsole/internal/session"
	"gridconsole/internal/telemetry"
	"gridconsole/internal/ui"
)

// ErrAccessDenied is returned when the client-side gate blocks an action.
// The gate is cosmetic UX; the backend enforces the real authorization.
var ErrAccessDenied = errors.New("views: access denied")

// ScadaAPI is the slice of the backend client the device panel needs.
type ScadaAPI interface {
	Status(ctx context.Context) (models.ScadaStatus, error)
	Devices(ctx context.Context) ([]models.Device, error)
	Device(ctx context.Context, id string) (models.Device, error)
	Command(ctx context.Context, req models.CommandRequest) (models.CommandResult, error)
}

// DeviceView owns the SCADA device cards, the grid status header and the
// device detail workflow with its control commands.
type DeviceView struct {
	api      ScadaAPI
	access   *session.AccessState
	notifier ui.Notifier
	prompter ui.NumberPrompter
	redirect func(target string)
	logger   *zap.Logger
	metrics  telemetry.Collector

	mu      sync.Mutex
	grid    *models.GridStatus
	devices []models.Device
	current *models.Device
}

// NewDeviceView builds the view. redirect is invoked when the backend
// answers 403, pointing the operator back at the firewall panel.
func NewDeviceView(api ScadaAPI, access *session.AccessState, notifier ui.Notifier, prompter ui.NumberPrompter, redirect func(target string), logger *zap.Logger, metrics telemetry.Collector) *DeviceView {
	if metrics == nil {
		metrics = telemetry.Noop()
	}
	return &DeviceView{
		api:      api,
		access:   access,
		notifier: notifier,
		prompter: prompter,
		redirect: redirect,
		logger:   logger,
		metrics:  metrics,
	}
}

// LoadStatus performs the grid-status and device-list fetches concurrently
// and renders both together, so the pair never interleaves with a partial
// result.
func (v *DeviceView) LoadStatus(ctx context.Context) error {
	var (
		status  models.ScadaStatus
		devices []models.Device
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status, err = v.api.Status(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		devices, err = v.api.Devices(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if clients.IsAccessDenied(err) {
			v.notifier.Notify(ui.LevelError, "Access denied. Please add a firewall rule to allow access to SCADA portal.")
			if v.redirect != nil {
				v.redirect("firewall")
			}
			return err
		}
		return v.fail(err, "Error loading SCADA status")
	}

	v.mu.Lock()
	grid := status.GridStatus
	v.grid = &grid
	v.devices = devices
	v.mu.Unlock()
	return nil
}

// ShowDetails opens the detail view for a device. Refused unless at least
// one access gate is open.
func (v *DeviceView) ShowDetails(device models.Device) error {
	if !v.access.Granted() {
		v.notifier.Notify(ui.LevelError, "Access denied. Login to firewall first.")
		return ErrAccessDenied
	}

	v.mu.Lock()
	d := device
	v.current = &d
	v.mu.Unlock()
	return nil
}

// ShowDetailsByID fetches the full device record first; this is the path
// taken from a map marker popup, which only knows the station id.
func (v *DeviceView) ShowDetailsByID(ctx context.Context, id string) error {
	device, err := v.api.Device(ctx, id)
	if err != nil {
		return v.fail(err, "Error loading device")
	}
	return v.ShowDetails(device)
}

// CloseDetails clears the current device pointer.
func (v *DeviceView) CloseDetails() {
	v.mu.Lock()
	v.current = nil
	v.mu.Unlock()
}

// Current returns a copy of the currently selected device, if any.
func (v *DeviceView) Current() *models.Device {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return nil
	}
	d := *v.current
	return &d
}

// ExecuteCommand posts a control command for the current device. A nil
// current device is a silent no-op; a closed gate refuses with the same
// notification as ShowDetails.
func (v *DeviceView) ExecuteCommand(ctx context.Context, command string, parameters map[string]interface{}) error {
	current := v.Current()
	if current == nil {
		return nil
	}

	if !v.access.Granted() {
		v.notifier.Notify(ui.LevelError, "Access denied. Login to firewall first.")
		return ErrAccessDenied
	}

	result, err := v.api.Command(ctx, models.CommandRequest{
		DeviceID:   current.ID,
		Command:    command,
		Parameters: parameters,
	})
	if err != nil {
		return v.fail(err, "Error executing command")
	}

	switch result.Status {
	case models.CommandSuccess:
		v.notifier.Notify(ui.LevelSuccess, result.Message)
		v.CloseDetails()
		return v.LoadStatus(ctx)
	case models.CommandBlocked:
		// The backend's denial reason is authoritative.
		v.notifier.Notify(ui.LevelError, result.Message)
		return nil
	default:
		v.notifier.Notify(ui.LevelError, "Command failed")
		return nil
	}
}

// SetVoltage collects a voltage and forwards it as a set_voltage command.
func (v *DeviceView) SetVoltage(ctx context.Context) error {
	current := v.Current()
	if current == nil {
		return nil
	}

	def := 230.0
	if current.Voltage != nil {
		def = *current.Voltage
	}
	voltage, ok := v.prompter.PromptNumber("Enter voltage (V):", def)
	if !ok {
		return nil
	}
	return v.ExecuteCommand(ctx, "set_voltage", map[string]interface{}{"voltage": voltage})
}

// SetLoad collects a 0-100 display value and forwards it as a 0-1
// fraction.
func (v *DeviceView) SetLoad(ctx context.Context) error {
	current := v.Current()
	if current == nil {
		return nil
	}

	def := 50.0
	if current.Load != nil {
		def = *current.Load * 100
	}
	load, ok := v.prompter.PromptNumber("Enter load (0-100%):", def)
	if !ok {
		return nil
	}
	return v.ExecuteCommand(ctx, "set_load", map[string]interface{}{"load": load / 100})
}

// DeviceCard is one rendered device, with defense assets already renamed
// to their power-grid display identity.
type DeviceCard struct {
	models.Device
	DisplayName string   `json:"display_name"`
	DisplayType string   `json:"display_type"`
	Commands    []string `json:"commands"`
}

// deviceCommands lists the control buttons available for a device.
func deviceCommands(d models.Device) []string {
	commands := []string{}
	if d.Type == models.TypePowerStation {
		commands = append(commands, "cut_power")
	}
	commands = append(commands, "shutdown", "restart")
	if d.Voltage != nil {
		commands = append(commands, "set_voltage")
	}
	if d.Load != nil {
		commands = append(commands, "set_load")
	}
	return commands
}

// DeviceSnapshot is the rendered state of the SCADA panel.
type DeviceSnapshot struct {
	Grid    *models.GridStatus `json:"grid,omitempty"`
	Devices []DeviceCard       `json:"devices"`
	Current *DeviceCard        `json:"current,omitempty"`
}

// Snapshot returns a copy of the panel state.
func (v *DeviceView) Snapshot() DeviceSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := DeviceSnapshot{}
	if v.grid != nil {
		grid := *v.grid
		snap.Grid = &grid
	}
	snap.Devices = make([]DeviceCard, 0, len(v.devices))
	for _, d := range v.devices {
		snap.Devices = append(snap.Devices, newDeviceCard(d))
	}
	if v.current != nil {
		card := newDeviceCard(*v.current)
		snap.Current = &card
	}
	return snap
}

func newDeviceCard(d models.Device) DeviceCard {
	return DeviceCard{
		Device:      d,
		DisplayName: models.DisplayName(d.Name, d.Type, d.City),
		DisplayType: models.DisplayType(d.Type),
		Commands:    deviceCommands(d),
	}
}

func (v *DeviceView) fail(err error, message string) error {
	v.metrics.IncRequestError("scada")
	v.logger.Error("scada request failed", zap.Error(err))
	v.notifier.Notify(ui.LevelError, message)
	return err
}
