package views

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"gridconsole/internal/clients"
	"gridconsole/internal/models"
	"gridconsole/internal/session"
)

type fakeScadaAPI struct {
	mu sync.Mutex

	status  models.ScadaStatus
	devices []models.Device

	statusErr  error
	devicesErr error

	commandResult models.CommandResult
	commands      []models.CommandRequest
	statusCalls   int
}

func (f *fakeScadaAPI) Status(context.Context) (models.ScadaStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return models.ScadaStatus{}, f.statusErr
	}
	return f.status, nil
}

func (f *fakeScadaAPI) Devices(context.Context) ([]models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.devicesErr != nil {
		return nil, f.devicesErr
	}
	out := make([]models.Device, len(f.devices))
	copy(out, f.devices)
	return out, nil
}

func (f *fakeScadaAPI) Device(_ context.Context, id string) (models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Device{}, &clients.APIError{StatusCode: 404, Message: "Device not found"}
}

func (f *fakeScadaAPI) Command(_ context.Context, req models.CommandRequest) (models.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, req)
	return f.commandResult, nil
}

type stubPrompter struct {
	value float64
	ok    bool
}

func (p stubPrompter) PromptNumber(string, float64) (float64, bool) { return p.value, p.ok }

type recordingRedirect struct {
	targets []string
}

func (r *recordingRedirect) redirect(target string) { r.targets = append(r.targets, target) }

func newDeviceFixture(api *fakeScadaAPI) (*DeviceView, *session.AccessState, *recordingNotifier, *recordingRedirect) {
	access := session.NewAccessState()
	notes := &recordingNotifier{}
	redirect := &recordingRedirect{}
	view := NewDeviceView(api, access, notes, stubPrompter{value: 75, ok: true}, redirect.redirect, zap.NewNop(), nil)
	return view, access, notes, redirect
}

func testDevice() models.Device {
	return models.Device{
		ID: "plc-1", Name: "Jammu PLC", Type: models.TypePLC, Status: models.StatusOnline,
		Voltage: floatPtr(228), Load: floatPtr(0.6),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestLoadStatusStoresGridAndDevices(t *testing.T) {
	api := &fakeScadaAPI{
		status:  models.ScadaStatus{GridStatus: models.GridStatus{CurrentLoad: 420, TotalCapacity: 800, GridStability: "stable"}},
		devices: []models.Device{testDevice()},
	}
	view, _, _, _ := newDeviceFixture(api)

	if err := view.LoadStatus(context.Background()); err != nil {
		t.Fatalf("load status: %v", err)
	}

	snap := view.Snapshot()
	if snap.Grid == nil || snap.Grid.CurrentLoad != 420 {
		t.Fatalf("expected grid status cached, got %+v", snap.Grid)
	}
	if len(snap.Devices) != 1 || snap.Devices[0].ID != "plc-1" {
		t.Fatalf("expected one device card, got %+v", snap.Devices)
	}
}

func TestLoadStatusAccessDeniedRedirectsToFirewall(t *testing.T) {
	api := &fakeScadaAPI{statusErr: &clients.APIError{StatusCode: 403, Message: "Access denied"}}
	view, _, notes, redirect := newDeviceFixture(api)

	if err := view.LoadStatus(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if !notes.contains("Access denied. Please add a firewall rule to allow access to SCADA portal.") {
		t.Fatalf("missing access-denied notification, got %v", notes.messages)
	}
	if len(redirect.targets) != 1 || redirect.targets[0] != "firewall" {
		t.Fatalf("expected redirect to firewall, got %v", redirect.targets)
	}
}

func TestShowDetailsRefusedWithoutAccess(t *testing.T) {
	api := &fakeScadaAPI{devices: []models.Device{testDevice()}}
	view, _, notes, _ := newDeviceFixture(api)

	if err := view.ShowDetails(testDevice()); err != ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if !notes.contains("Access denied. Login to firewall first.") {
		t.Fatalf("missing gate notification, got %v", notes.messages)
	}
	if view.Current() != nil {
		t.Fatalf("expected no current device")
	}
}

func TestShowDetailsOpensWhenAnyGateIsOpen(t *testing.T) {
	api := &fakeScadaAPI{devices: []models.Device{testDevice()}}
	view, access, _, _ := newDeviceFixture(api)

	access.SetScadaAccessGranted(true)
	if err := view.ShowDetailsByID(context.Background(), "plc-1"); err != nil {
		t.Fatalf("show details: %v", err)
	}
	current := view.Current()
	if current == nil || current.ID != "plc-1" {
		t.Fatalf("expected plc-1 selected, got %+v", current)
	}
}

func TestExecuteCommandWithoutSelectionIsNoop(t *testing.T) {
	api := &fakeScadaAPI{}
	view, access, _, _ := newDeviceFixture(api)
	access.SetFirewallCompromised(true)

	if err := view.ExecuteCommand(context.Background(), "restart", nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(api.commands) != 0 {
		t.Fatalf("expected no command sent, got %v", api.commands)
	}
}

func TestExecuteCommandSuccessClosesDetailsAndReloads(t *testing.T) {
	api := &fakeScadaAPI{
		devices:       []models.Device{testDevice()},
		commandResult: models.CommandResult{Status: models.CommandSuccess, Message: "Device restarted"},
	}
	view, access, notes, _ := newDeviceFixture(api)
	access.SetFirewallAuthenticated(true)

	if err := view.ShowDetails(testDevice()); err != nil {
		t.Fatalf("show details: %v", err)
	}
	before := api.statusCalls
	if err := view.ExecuteCommand(context.Background(), "restart", nil); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(api.commands) != 1 || api.commands[0].Command != "restart" || api.commands[0].DeviceID != "plc-1" {
		t.Fatalf("unexpected command request: %+v", api.commands)
	}
	if !notes.contains("Device restarted") {
		t.Fatalf("missing success notification, got %v", notes.messages)
	}
	if view.Current() != nil {
		t.Fatalf("expected detail view closed after success")
	}
	if api.statusCalls <= before {
		t.Fatalf("expected a status reload after success")
	}
}

func TestExecuteCommandBlockedKeepsDetailsOpen(t *testing.T) {
	api := &fakeScadaAPI{
		commandResult: models.CommandResult{Status: models.CommandBlocked, Message: "Command blocked by firewall"},
	}
	view, access, notes, _ := newDeviceFixture(api)
	access.SetFirewallCompromised(true)

	if err := view.ShowDetails(testDevice()); err != nil {
		t.Fatalf("show details: %v", err)
	}
	if err := view.ExecuteCommand(context.Background(), "cut_power", nil); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !notes.contains("Command blocked by firewall") {
		t.Fatalf("missing blocked notification, got %v", notes.messages)
	}
	if view.Current() == nil {
		t.Fatalf("expected detail view to stay open on blocked command")
	}
}

func TestSetLoadSendsFraction(t *testing.T) {
	api := &fakeScadaAPI{commandResult: models.CommandResult{Status: models.CommandBlocked, Message: "nope"}}
	view, access, _, _ := newDeviceFixture(api)
	access.SetFirewallCompromised(true)

	if err := view.ShowDetails(testDevice()); err != nil {
		t.Fatalf("show details: %v", err)
	}
	if err := view.SetLoad(context.Background()); err != nil {
		t.Fatalf("set load: %v", err)
	}

	if len(api.commands) != 1 {
		t.Fatalf("expected one command, got %d", len(api.commands))
	}
	// The prompter answers 75; the wire value is the 0-1 fraction.
	if got := api.commands[0].Parameters["load"]; got != 0.75 {
		t.Fatalf("expected load 0.75, got %v", got)
	}
}

func TestDeviceCardCommands(t *testing.T) {
	cases := []struct {
		name   string
		device models.Device
		want   []string
	}{
		{
			name:   "power station with metrics",
			device: models.Device{Type: models.TypePowerStation, Voltage: floatPtr(230), Load: floatPtr(0.5)},
			want:   []string{"cut_power", "shutdown", "restart", "set_voltage", "set_load"},
		},
		{
			name:   "plc without metrics",
			device: models.Device{Type: models.TypePLC},
			want:   []string{"shutdown", "restart"},
		},
		{
			name:   "rtu with voltage only",
			device: models.Device{Type: models.TypeRTU, Voltage: floatPtr(230)},
			want:   []string{"shutdown", "restart", "set_voltage"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := newDeviceCard(tc.device)
			got := card.Commands
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestSnapshotRenamesDefenseDevices(t *testing.T) {
	api := &fakeScadaAPI{devices: []models.Device{
		{ID: "s400-1", Name: "Defense Battery Alpha", Type: models.TypeS400, Status: models.StatusOnline},
	}}
	view, _, _, _ := newDeviceFixture(api)

	if err := view.LoadStatus(context.Background()); err != nil {
		t.Fatalf("load status: %v", err)
	}

	snap := view.Snapshot()
	if snap.Devices[0].DisplayName != "Power Grid Station Alpha" {
		t.Fatalf("expected renamed device, got %q", snap.Devices[0].DisplayName)
	}
	if snap.Devices[0].DisplayType != "POWER_STATION" {
		t.Fatalf("expected POWER_STATION display type, got %q", snap.Devices[0].DisplayType)
	}
}
