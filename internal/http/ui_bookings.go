package httpx

import (
	"bytes"
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/http/validation"
)

const (
	errMsgUnableLoadBookings = "Unable to load your bookings."
	maxBookingGuests         = 20
	maxStayNights            = 90
)

// bookingRow shapes a booking for list rendering.
type bookingRow struct {
	model.Booking
}

// CheckInDisplay formats the check-in date for list rows.
func (b bookingRow) CheckInDisplay() string {
	return b.CheckIn.Format("Jan 2, 2006")
}

// CheckOutDisplay formats the check-out date for list rows.
func (b bookingRow) CheckOutDisplay() string {
	return b.CheckOut.Format("Jan 2, 2006")
}

// StatusClass returns the CSS modifier for the booking's status badge.
func (b bookingRow) StatusClass() string {
	return "status-" + string(b.Status)
}

// CanCancel reports whether the traveller may still cancel this booking.
func (b bookingRow) CanCancel() bool {
	switch b.Status {
	case model.BookingStatusPending, model.BookingStatusApproved:
		return true
	default:
		return false
	}
}

// MyBookings serves the traveller's booking list.
func (h *UIHandlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		h.NotFound(w, r)
		return
	}

	HandleList(ListHandlerOpts[bookingRow, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context) ([]bookingRow, error) {
			bookings, err := h.Bookings.ListBookingsByUser(ctx, session.Email)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to load bookings for user", "error", err)
				return nil, err
			}
			return toBookingRows(bookings), nil
		},
		PageMeta: PageMeta{
			Title:       "Rentora - My Bookings",
			PageTitle:   "My Bookings",
			CurrentPage: PageMyBookings,
		},
		ItemsKey:     "Bookings",
		ErrorMessage: errMsgUnableLoadBookings,
		ServiceAvailable: func() bool {
			return h.Bookings != nil
		},
		UnavailableMessage: errMsgUnableLoadBookings,
	})
}

// toBookingRows shapes bookings for display, newest stay first.
func toBookingRows(bookings []model.Booking) []bookingRow {
	rows := make([]bookingRow, 0, len(bookings))
	for _, booking := range bookings {
		rows = append(rows, bookingRow{Booking: booking})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CheckIn.After(rows[j].CheckIn) })
	return rows
}

// bookingFormData holds the parsed booking request form.
type bookingFormData struct {
	HouseID  string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int

	// Raw values preserved for re-rendering the form on error
	FormCheckIn  string
	FormCheckOut string
	FormGuests   string
}

// parseBookingForm parses and validates the booking request form.
func parseBookingForm(r *http.Request) (bookingFormData, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return bookingFormData{}, map[string]string{"_form": "Invalid form submission."}
	}

	houseID := strings.TrimSpace(r.Form.Get("house_id"))
	checkInStr := strings.TrimSpace(r.Form.Get("check_in"))
	checkOutStr := strings.TrimSpace(r.Form.Get("check_out"))
	guestsStr := strings.TrimSpace(r.Form.Get("guests"))

	errs := validation.New().
		Validate("house_id", houseID, validation.Required("Listing", 255)).
		Validate("check_in", checkInStr, validation.Date("Check-in date", dateLayoutISO)).
		Validate("check_out", checkOutStr, validation.Date("Check-out date", dateLayoutISO)).
		Errors()

	form := bookingFormData{
		HouseID:      houseID,
		FormCheckIn:  checkInStr,
		FormCheckOut: checkOutStr,
		FormGuests:   guestsStr,
	}

	guests, guestsErr := strconv.Atoi(guestsStr)
	if guestsErr != nil || guests < 1 || guests > maxBookingGuests {
		errs["guests"] = "Guests must be between 1 and " + strconv.Itoa(maxBookingGuests) + "."
	} else {
		form.Guests = guests
	}

	if len(errs) > 0 {
		return form, errs
	}

	checkIn, _ := time.Parse(dateLayoutISO, checkInStr)
	checkOut, _ := time.Parse(dateLayoutISO, checkOutStr)
	form.CheckIn = checkIn
	form.CheckOut = checkOut

	validateStayDates(form, errs)
	return form, errs
}

// validateStayDates enforces stay-length rules the date parser cannot express.
func validateStayDates(form bookingFormData, errs map[string]string) {
	today := time.Now().Truncate(24 * time.Hour)
	if form.CheckIn.Before(today) {
		errs["check_in"] = "Check-in cannot be in the past."
	}
	if !form.CheckOut.After(form.CheckIn) {
		errs["check_out"] = "Check-out must be after check-in."
		return
	}
	nights := int(form.CheckOut.Sub(form.CheckIn).Hours() / 24)
	if nights > maxStayNights {
		errs["check_out"] = "Stays cannot exceed " + strconv.Itoa(maxStayNights) + " nights."
	}
}

// BookingCreate handles POST /bookings: a traveller requesting a stay.
func (h *UIHandlers) BookingCreate(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.Bookings == nil || h.Catalog == nil {
		h.NotFound(w, r)
		return
	}

	form, fieldErrors := parseBookingForm(r)
	if len(fieldErrors) > 0 {
		h.renderBookingFormError(w, r, form, fieldErrors, "")
		return
	}

	house, err := h.Catalog.GetHouse(r.Context(), form.HouseID)
	if err != nil {
		h.renderBookingFormError(w, r, form, nil, "That listing is no longer available.")
		return
	}
	if house.Status != model.HouseStatusAvailable {
		h.renderBookingFormError(w, r, form, nil, "That listing is not accepting bookings right now.")
		return
	}

	nights := int(form.CheckOut.Sub(form.CheckIn).Hours() / 24)
	req := model.CreateBookingRequest{
		HouseID:    house.ID,
		HouseName:  house.Name,
		UserEmail:  session.Email,
		CheckIn:    form.CheckIn,
		CheckOut:   form.CheckOut,
		Guests:     form.Guests,
		TotalPrice: float64(nights) * house.PricePerNight,
	}

	if _, err := h.Bookings.CreateBooking(r.Context(), req); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to create booking", "house_id", house.ID, "error", err)
		h.renderBookingFormError(w, r, form, nil, processError(err, nil))
		return
	}

	triggerToast(w, "Booking requested. You'll hear back once it's reviewed.", "success")
	HTMX(w).Redirect("/bookings/my")
}

// renderBookingFormError re-renders the listing detail page with booking errors
// and the traveller's entered values preserved.
func (h *UIHandlers) renderBookingFormError(
	w http.ResponseWriter,
	r *http.Request,
	form bookingFormData,
	fieldErrors map[string]string,
	generalError string,
) {
	house, err := h.Catalog.GetHouse(r.Context(), form.HouseID)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	data := basePageData(r, PageMeta{
		Title:       "Rentora - " + house.Name,
		PageTitle:   house.Name,
		CurrentPage: PageApartmentView,
	})
	data["Apartment"] = house
	data["DefaultCheckIn"] = form.FormCheckIn
	data["DefaultCheckOut"] = form.FormCheckOut
	data["FormGuests"] = form.FormGuests
	data["MinCheckIn"] = time.Now().Format(dateLayoutISO)

	h.populateApartmentReviews(r.Context(), data, house.ID)

	if len(fieldErrors) > 0 {
		data["Errors"] = fieldErrors
	}
	if generalError == "" && len(fieldErrors) > 0 {
		generalError = errMsgFixBelow
	}
	if generalError != "" {
		data["Error"] = true
		data["ErrorMessage"] = generalError
	}

	h.renderPage(w, r, data)
}

// BookingCancel handles POST /bookings/{id}/cancel. Travellers may only cancel
// their own bookings; ownership is checked against the session email.
func (h *UIHandlers) BookingCancel(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	if session == nil || id == "" || h.Bookings == nil {
		h.NotFound(w, r)
		return
	}

	booking, ok := h.findOwnBooking(r, session.Email, id)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if !(bookingRow{Booking: booking}).CanCancel() {
		triggerToast(w, "This booking can no longer be cancelled.", "error")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	updated, err := h.Bookings.SetBookingStatus(r.Context(), id, model.BookingStatusCancelled)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to cancel booking", "booking_id", id, "error", err)
		triggerToast(w, "Unable to cancel booking. Please try again.", "error")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if IsHTMX(r) {
		triggerToast(w, "Booking cancelled.", "success")
		h.renderBookingRow(w, r, bookingRow{Booking: updated})
		return
	}
	http.Redirect(w, r, "/bookings/my", http.StatusSeeOther)
}

// findOwnBooking looks a booking up within the traveller's own list.
func (h *UIHandlers) findOwnBooking(r *http.Request, email, id string) (model.Booking, bool) {
	bookings, err := h.Bookings.ListBookingsByUser(r.Context(), email)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to resolve booking ownership", "booking_id", id, "error", err)
		return model.Booking{}, false
	}
	for _, booking := range bookings {
		if booking.ID == id {
			return booking, true
		}
	}
	return model.Booking{}, false
}

// renderBookingRow renders a single booking row partial for HTMX swaps.
func (h *UIHandlers) renderBookingRow(w http.ResponseWriter, r *http.Request, row bookingRow) {
	data := map[string]any{
		"Booking":   row,
		"CSRFToken": GetCSRFToken(r),
		"CanManage": IsAdminUser(r.Context()),
	}

	var buf bytes.Buffer
	if err := h.T.t.ExecuteTemplate(&buf, "booking-row", data); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to render booking row", "booking_id", row.ID, "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to write booking row", "booking_id", row.ID, "error", err)
	}
}
