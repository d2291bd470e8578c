package model

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether the booking status is supported.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseBookingStatus normalizes a status string and reports whether it is supported.
func ParseBookingStatus(value string) (BookingStatus, bool) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Booking is a reservation record owned by the remote API. HouseName is
// denormalized by the API so booking lists render without a per-row house
// fetch.
type Booking struct {
	ID         string        `json:"id"`
	HouseID    string        `json:"houseId"`
	HouseName  string        `json:"houseName"`
	UserEmail  string        `json:"userEmail"`
	CheckIn    time.Time     `json:"checkIn"`
	CheckOut   time.Time     `json:"checkOut"`
	Guests     int           `json:"guests"`
	TotalPrice float64       `json:"totalPrice"`
	Status     BookingStatus `json:"status"`
}

// CreateBookingRequest represents parameters to create a Booking.
type CreateBookingRequest struct {
	HouseID    string    `json:"houseId"    validate:"required"`
	HouseName  string    `json:"houseName"  validate:"required"`
	UserEmail  string    `json:"userEmail"  validate:"required,email"`
	CheckIn    time.Time `json:"checkIn"    validate:"required"`
	CheckOut   time.Time `json:"checkOut"   validate:"required,gtfield=CheckIn"`
	Guests     int       `json:"guests"     validate:"required,min=1,max=20"`
	TotalPrice float64   `json:"totalPrice" validate:"required,gt=0"`
}

// UpdateBookingStatusRequest is the PATCH body for a booking status change.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pending approved rejected cancelled"`
}

// Nights returns the length of the stay in whole nights.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
