package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/http/uiutil"
)

const errMsgUnableLoadAllReviews = "Unable to load reviews."

// reviewModerationRow shapes a review for the moderation table.
type reviewModerationRow struct {
	ID        string
	HouseID   string
	UserEmail string
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// FriendlyCreatedAt returns a human friendly description of when the review was left.
func (rv reviewModerationRow) FriendlyCreatedAt() string {
	return uiutil.FriendlyRelativeTime(rv.CreatedAt)
}

// CommentSummary returns a short version of the comment for table rows.
func (rv reviewModerationRow) CommentSummary() string {
	return uiutil.TruncateWithEllipsis(rv.Comment, 120)
}

// ManageReviews serves the admin review moderation table.
func (h *UIHandlers) ManageReviews(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[reviewModerationRow, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context) ([]reviewModerationRow, error) {
			reviews, err := h.Catalog.ListReviews(ctx)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to load reviews for admin", "error", err)
				return nil, err
			}
			return toReviewModerationRows(reviews), nil
		},
		PageMeta: PageMeta{
			Title:       "Rentora - Manage Reviews",
			PageTitle:   "Manage Reviews",
			CurrentPage: PageManageReviews,
		},
		ItemsKey:     "Reviews",
		ErrorMessage: errMsgUnableLoadAllReviews,
		ServiceAvailable: func() bool {
			return h.Catalog != nil
		},
		UnavailableMessage: errMsgUnableLoadAllReviews,
	})
}

// toReviewModerationRows shapes reviews for moderation, newest first.
func toReviewModerationRows(reviews []model.Review) []reviewModerationRow {
	rows := make([]reviewModerationRow, 0, len(reviews))
	for _, review := range reviews {
		rows = append(rows, reviewModerationRow{
			ID:        review.ID,
			HouseID:   review.HouseID,
			UserEmail: review.UserEmail,
			UserName:  review.UserName,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows
}

// ReviewDelete handles removing a review from the moderation table.
func (h *UIHandlers) ReviewDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.Catalog != nil },
		Delete: func(ctx context.Context, id string) error {
			return h.Catalog.DeleteReview(ctx, id)
		},
		RedirectPath: "/manage/reviews",
		OnError: func(w http.ResponseWriter, r *http.Request, err error) {
			errMsg := processError(err, nil)
			if errMsg == "" {
				errMsg = "Unable to delete review. Please try again."
			}
			if IsHTMX(r) {
				triggerToast(w, errMsg, "error")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Redirect(w, r, "/manage/reviews", http.StatusSeeOther)
		},
		OnSuccess: func(w http.ResponseWriter, r *http.Request, _ string) {
			if IsHTMX(r) {
				triggerToast(w, "Review deleted", "success")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/manage/reviews", http.StatusSeeOther)
		},
	})
}
