package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"

	domainauth "github.com/rentora/rentora-ui/internal/domain/auth"
	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/http/uiutil"
)

const (
	errMsgUnableLoadStays   = "Unable to load your upcoming stays"
	errMsgUnableLoadReviews = "Unable to load your reviews"
	dashboardSectionLimit   = 5
)

// dashboardStay is an upcoming stay shaped for the dashboard panel.
type dashboardStay struct {
	ID        string
	HouseID   string
	HouseName string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	Status    model.BookingStatus
}

// StaySummary describes the stay window in a single line.
func (s dashboardStay) StaySummary() string {
	return s.CheckIn.Format("Jan 2") + " – " + s.CheckOut.Format("Jan 2, 2006")
}

// FriendlyCheckIn returns a human friendly description of when the stay starts.
func (s dashboardStay) FriendlyCheckIn() string {
	return uiutil.FriendlyRelativeTime(s.CheckIn)
}

// StatusClass returns the CSS modifier for the stay's status badge.
func (s dashboardStay) StatusClass() string {
	return "status-" + string(s.Status)
}

// dashboardReview is a traveller's own review shaped for the dashboard panel.
type dashboardReview struct {
	ID        string
	HouseID   string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// FriendlyCreatedAt returns a human friendly description of when the review was left.
func (rv dashboardReview) FriendlyCreatedAt() string {
	return uiutil.FriendlyRelativeTime(rv.CreatedAt)
}

// CommentSummary returns a short version of the review comment.
func (rv dashboardReview) CommentSummary() string {
	return uiutil.TruncateWithEllipsis(rv.Comment, 90)
}

// Dashboard serves the signed-in landing page.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		h.NotFound(w, r)
		return
	}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Rentora - Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			h.populateUpcomingStays(ctx, data, session.Email)
			h.populateOwnReviews(ctx, data, session.UserID)
			if session.Role() == domainauth.RoleAdmin {
				h.populatePendingBookings(ctx, data)
			}
			return nil
		},
	})
}

func (h *UIHandlers) populateUpcomingStays(ctx context.Context, data map[string]any, email string) {
	data["UpcomingStays"] = []dashboardStay{}
	data["UpcomingStaysError"] = ""

	if h.Bookings == nil {
		data["UpcomingStaysError"] = errMsgUnableLoadStays
		return
	}

	bookings, err := h.Bookings.ListBookingsByUser(ctx, email)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to fetch bookings for dashboard", "error", err)
		data["UpcomingStaysError"] = errMsgUnableLoadStays
		return
	}

	data["UpcomingStays"] = upcomingStays(bookings, time.Now(), dashboardSectionLimit)
}

// upcomingStays keeps bookings that have not ended and are not dead, soonest first.
func upcomingStays(bookings []model.Booking, now time.Time, limit int) []dashboardStay {
	stays := make([]dashboardStay, 0, len(bookings))
	for _, booking := range bookings {
		if booking.CheckOut.Before(now) {
			continue
		}
		switch booking.Status {
		case model.BookingStatusRejected, model.BookingStatusCancelled:
			continue
		}
		stays = append(stays, dashboardStay{
			ID:        booking.ID,
			HouseID:   booking.HouseID,
			HouseName: booking.HouseName,
			CheckIn:   booking.CheckIn,
			CheckOut:  booking.CheckOut,
			Guests:    booking.Guests,
			Status:    booking.Status,
		})
	}

	sort.Slice(stays, func(i, j int) bool { return stays[i].CheckIn.Before(stays[j].CheckIn) })
	if len(stays) > limit {
		stays = stays[:limit]
	}
	return stays
}

func (h *UIHandlers) populateOwnReviews(ctx context.Context, data map[string]any, userID string) {
	data["OwnReviews"] = []dashboardReview{}
	data["OwnReviewsError"] = ""

	if h.Catalog == nil || userID == "" {
		data["OwnReviewsError"] = errMsgUnableLoadReviews
		return
	}

	reviews, err := h.Catalog.ListReviewsByUser(ctx, userID)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to fetch own reviews for dashboard", "error", err)
		data["OwnReviewsError"] = errMsgUnableLoadReviews
		return
	}

	rows := make([]dashboardReview, 0, len(reviews))
	for _, review := range reviews {
		rows = append(rows, dashboardReview{
			ID:        review.ID,
			HouseID:   review.HouseID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > dashboardSectionLimit {
		rows = rows[:dashboardSectionLimit]
	}

	data["OwnReviews"] = rows
}

// populatePendingBookings surfaces the approval queue size for hosts.
func (h *UIHandlers) populatePendingBookings(ctx context.Context, data map[string]any) {
	data["PendingBookingCount"] = 0

	if h.Bookings == nil {
		return
	}
	bookings, err := h.Bookings.ListBookings(ctx)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to fetch pending bookings for dashboard", "error", err)
		return
	}

	pending := 0
	for _, booking := range bookings {
		if booking.Status == model.BookingStatusPending {
			pending++
		}
	}
	data["PendingBookingCount"] = pending
}
