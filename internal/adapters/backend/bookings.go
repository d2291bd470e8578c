package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

// ListBookings fetches every booking.
func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListBookingsByUser fetches the bookings placed by one user email.
func (c *Client) ListBookingsByUser(ctx context.Context, userEmail string) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(userEmail), nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking creates a booking and returns the stored record.
func (c *Client) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (model.Booking, error) {
	var booking model.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

// SetBookingStatus patches one booking's status and returns the updated record.
func (c *Client) SetBookingStatus(
	ctx context.Context,
	id string,
	status model.BookingStatus,
) (model.Booking, error) {
	req := model.UpdateBookingStatusRequest{Status: status}
	var booking model.Booking
	if err := c.do(ctx, http.MethodPatch, "/bookings/"+url.PathEscape(id), req, &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

// DeleteBooking removes a booking.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, nil)
}
