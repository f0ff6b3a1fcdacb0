package clients

import (
	"context"
	"net/http"
	"net/url"

	"gridconsole/internal/models"
)

// ScadaClient talks to the SCADA endpoints of the training backend.
type ScadaClient struct {
	base *BaseClient
}

// NewScadaClient returns client.
func NewScadaClient(baseURL string, httpClient HTTPDoer) *ScadaClient {
	return &ScadaClient{base: NewBaseClient(baseURL, httpClient)}
}

// Status fetches the grid status wrapper.
func (c *ScadaClient) Status(ctx context.Context) (models.ScadaStatus, error) {
	var status models.ScadaStatus
	if err := c.base.DoJSON(ctx, http.MethodGet, "/api/scada/status", nil, &status); err != nil {
		return models.ScadaStatus{}, err
	}
	return status, nil
}

// Devices fetches the SCADA device list.
func (c *ScadaClient) Devices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := c.base.DoJSON(ctx, http.MethodGet, "/api/scada/devices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Device fetches one device's full detail.
func (c *ScadaClient) Device(ctx context.Context, id string) (models.Device, error) {
	var device models.Device
	if err := c.base.DoJSON(ctx, http.MethodGet, "/api/devices/"+url.PathEscape(id), nil, &device); err != nil {
		return models.Device{}, err
	}
	return device, nil
}

// Command posts a device command and returns the backend's verdict.
func (c *ScadaClient) Command(ctx context.Context, req models.CommandRequest) (models.CommandResult, error) {
	var result models.CommandResult
	if err := c.base.DoJSON(ctx, http.MethodPost, "/api/scada/command", req, &result); err != nil {
		return models.CommandResult{}, err
	}
	return result, nil
}
