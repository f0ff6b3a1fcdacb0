package clients

import (
	"context"
	"net/http"

	"gridconsole/internal/models"
)

// MapClient fetches the station/connection snapshot for the map panel.
type MapClient struct {
	base *BaseClient
}

// NewMapClient returns client.
func NewMapClient(baseURL string, httpClient HTTPDoer) *MapClient {
	return &MapClient{base: NewBaseClient(baseURL, httpClient)}
}

// Snapshot fetches the current stations and connections.
func (c *MapClient) Snapshot(ctx context.Context) (models.MapSnapshot, error) {
	var snapshot models.MapSnapshot
	if err := c.base.DoJSON(ctx, http.MethodGet, "/api/map", nil, &snapshot); err != nil {
		return models.MapSnapshot{}, err
	}
	return snapshot, nil
}
