package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

type listBookingsOptions struct {
	Status model.BookingStatus
}

type bookingStatusOptions struct {
	ID  string
	Yes bool
}

func runListBookings(cmdCtx *commandContext, args []string) error {
	opts, err := parseListBookingsFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	client, err := connectBackend(cmdCtx)
	if err != nil {
		return err
	}

	bookings, err := client.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}

	if opts.Status != "" {
		filtered := bookings[:0]
		for _, b := range bookings {
			if b.Status == opts.Status {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}

	if len(bookings) == 0 {
		return writeln(os.Stdout, "No bookings found.")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tHouse\tGuest\tCheck-in\tCheck-out\tNights\tTotal\tStatus"); err != nil {
		return fmt.Errorf("write bookings header: %w", err)
	}
	for _, b := range bookings {
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.2f\t%s\n",
			b.ID,
			b.HouseName,
			b.UserEmail,
			b.CheckIn.Format("2006-01-02"),
			b.CheckOut.Format("2006-01-02"),
			b.Nights(),
			b.TotalPrice,
			b.Status,
		); err != nil {
			return fmt.Errorf("write booking row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush bookings table: %w", err)
	}

	return writef(os.Stdout, "\nTotal: %d bookings\n", len(bookings))
}

func runApproveBooking(cmdCtx *commandContext, args []string) error {
	return setBookingStatus(cmdCtx, args, "approve-booking", model.BookingStatusApproved)
}

func runRejectBooking(cmdCtx *commandContext, args []string) error {
	return setBookingStatus(cmdCtx, args, "reject-booking", model.BookingStatusRejected)
}

func setBookingStatus(
	cmdCtx *commandContext,
	args []string,
	name string,
	status model.BookingStatus,
) error {
	opts, err := parseBookingStatusFlags(name, args)
	if err != nil {
		return err
	}

	warning := fmt.Sprintf("This sets booking %q to %q and notifies the guest on next visit.", opts.ID, status)
	if confirmErr := confirmAction(opts.Yes, warning); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	client, err := connectBackend(cmdCtx)
	if err != nil {
		return err
	}

	booking, err := client.SetBookingStatus(ctx, opts.ID, status)
	if err != nil {
		return fmt.Errorf("set booking status: %w", err)
	}

	cmdCtx.Logger.Info("booking status updated",
		"id", booking.ID,
		"house", booking.HouseName,
		"status", booking.Status)
	return writef(os.Stdout, "Booking %s for %s is now %s\n", booking.ID, booking.HouseName, booking.Status)
}

func parseListBookingsFlags(args []string) (listBookingsOptions, error) {
	fs := flag.NewFlagSet("list-bookings", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var rawStatus string
	fs.StringVar(&rawStatus, "status", "", "Only show bookings with this status (pending, approved, rejected, cancelled)")

	if err := fs.Parse(args); err != nil {
		return listBookingsOptions{}, err
	}

	var opts listBookingsOptions
	if strings.TrimSpace(rawStatus) != "" {
		status, ok := model.ParseBookingStatus(rawStatus)
		if !ok {
			return listBookingsOptions{}, fmt.Errorf("unknown booking status %q", rawStatus)
		}
		opts.Status = status
	}

	return opts, nil
}

func parseBookingStatusFlags(name string, args []string) (bookingStatusOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts bookingStatusOptions
	fs.StringVar(&opts.ID, "id", "", "ID of the booking (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return bookingStatusOptions{}, err
	}

	opts.ID = strings.TrimSpace(opts.ID)
	if opts.ID == "" {
		return bookingStatusOptions{}, errors.New("--id is required")
	}

	return opts, nil
}
