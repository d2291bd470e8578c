package httpx

import (
	"context"
	"net/http"
	"sort"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

const errMsgUnableLoadAllBookings = "Unable to load bookings."

// ManageBookings serves the admin booking approval queue.
func (h *UIHandlers) ManageBookings(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[bookingRow, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context) ([]bookingRow, error) {
			bookings, err := h.Bookings.ListBookings(ctx)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to load bookings for admin", "error", err)
				return nil, err
			}
			return toManageBookingRows(bookings), nil
		},
		EnrichData: func(builder *TemplateDataBuilder, items []bookingRow, _ struct{}) {
			pending := 0
			for _, row := range items {
				if row.Status == model.BookingStatusPending {
					pending++
				}
			}
			builder.With("PendingCount", pending)
		},
		PageMeta: PageMeta{
			Title:       "Rentora - Manage Bookings",
			PageTitle:   "Manage Bookings",
			CurrentPage: PageManageBookings,
		},
		ItemsKey:     "Bookings",
		ErrorMessage: errMsgUnableLoadAllBookings,
		ServiceAvailable: func() bool {
			return h.Bookings != nil
		},
		UnavailableMessage: errMsgUnableLoadAllBookings,
	})
}

// toManageBookingRows orders the queue pending-first, then by check-in date.
func toManageBookingRows(bookings []model.Booking) []bookingRow {
	rows := make([]bookingRow, 0, len(bookings))
	for _, booking := range bookings {
		rows = append(rows, bookingRow{Booking: booking})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		iPending := rows[i].Status == model.BookingStatusPending
		jPending := rows[j].Status == model.BookingStatusPending
		if iPending != jPending {
			return iPending
		}
		return rows[i].CheckIn.Before(rows[j].CheckIn)
	})
	return rows
}

// BookingApprove handles POST /manage/bookings/{id}/approve. Exactly one
// status change is issued; the swapped row reflects the server's answer.
func (h *UIHandlers) BookingApprove(w http.ResponseWriter, r *http.Request) {
	h.setBookingStatus(w, r, model.BookingStatusApproved, "Booking approved.")
}

// BookingReject handles POST /manage/bookings/{id}/reject.
func (h *UIHandlers) BookingReject(w http.ResponseWriter, r *http.Request) {
	h.setBookingStatus(w, r, model.BookingStatusRejected, "Booking rejected.")
}

func (h *UIHandlers) setBookingStatus(
	w http.ResponseWriter,
	r *http.Request,
	status model.BookingStatus,
	successMsg string,
) {
	id := r.PathValue("id")
	if id == "" || h.Bookings == nil {
		h.NotFound(w, r)
		return
	}

	updated, err := h.Bookings.SetBookingStatus(r.Context(), id, status)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to set booking status",
			"booking_id", id,
			"status", status,
			"error", err,
		)
		errMsg := processError(err, nil)
		if errMsg == "" {
			errMsg = "Unable to update booking. Please try again."
		}
		if IsHTMX(r) {
			triggerToast(w, errMsg, "error")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, "/manage/bookings", http.StatusSeeOther)
		return
	}

	if IsHTMX(r) {
		triggerToast(w, successMsg, "success")
		h.renderBookingRow(w, r, bookingRow{Booking: updated})
		return
	}
	http.Redirect(w, r, "/manage/bookings", http.StatusSeeOther)
}

// BookingDelete handles deleting a booking record from the admin table.
func (h *UIHandlers) BookingDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.Bookings != nil },
		Delete: func(ctx context.Context, id string) error {
			return h.Bookings.DeleteBooking(ctx, id)
		},
		RedirectPath: "/manage/bookings",
		OnError: func(w http.ResponseWriter, r *http.Request, err error) {
			errMsg := processError(err, nil)
			if errMsg == "" {
				errMsg = "Unable to delete booking. Please try again."
			}
			if IsHTMX(r) {
				triggerToast(w, errMsg, "error")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Redirect(w, r, "/manage/bookings", http.StatusSeeOther)
		},
		OnSuccess: func(w http.ResponseWriter, r *http.Request, _ string) {
			if IsHTMX(r) {
				triggerToast(w, "Booking deleted", "success")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/manage/bookings", http.StatusSeeOther)
		},
	})
}
