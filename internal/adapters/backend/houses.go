package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

// ListHouses fetches the full listing collection. The remote API has no
// pagination; screens always render from a complete fetch.
func (c *Client) ListHouses(ctx context.Context) ([]model.House, error) {
	var houses []model.House
	if err := c.do(ctx, http.MethodGet, "/houses", nil, &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// GetHouse fetches one listing by id.
func (c *Client) GetHouse(ctx context.Context, id string) (model.House, error) {
	var house model.House
	if err := c.do(ctx, http.MethodGet, "/houses/"+url.PathEscape(id), nil, &house); err != nil {
		return model.House{}, err
	}
	return house, nil
}

// CreateHouse creates a listing and returns the stored record.
func (c *Client) CreateHouse(ctx context.Context, req model.CreateHouseRequest) (model.House, error) {
	var house model.House
	if err := c.do(ctx, http.MethodPost, "/houses", req, &house); err != nil {
		return model.House{}, err
	}
	return house, nil
}

// UpdateHouse replaces a listing and returns the stored record.
func (c *Client) UpdateHouse(ctx context.Context, id string, req model.UpdateHouseRequest) (model.House, error) {
	var house model.House
	if err := c.do(ctx, http.MethodPut, "/houses/"+url.PathEscape(id), req, &house); err != nil {
		return model.House{}, err
	}
	return house, nil
}

// DeleteHouse removes a listing.
func (c *Client) DeleteHouse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/houses/"+url.PathEscape(id), nil, nil)
}
