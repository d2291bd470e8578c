package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/http/validation"
)

const maxReviewCommentLength = 2000

// reviewFormData holds the parsed review form.
type reviewFormData struct {
	Rating  int
	Comment string

	FormRating  string
	FormComment string
}

// parseReviewForm parses and validates the review form.
func parseReviewForm(r *http.Request) (reviewFormData, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return reviewFormData{}, map[string]string{"_form": "Invalid form submission."}
	}

	ratingStr := strings.TrimSpace(r.Form.Get("rating"))
	comment := strings.TrimSpace(r.Form.Get("comment"))

	errs := validation.New().
		Validate("comment", comment, validation.RequiredRange("Comment", 1, maxReviewCommentLength)).
		Errors()

	form := reviewFormData{
		Comment:     comment,
		FormRating:  ratingStr,
		FormComment: comment,
	}

	rating, err := strconv.Atoi(ratingStr)
	if err != nil || rating < 1 || rating > 5 {
		errs["rating"] = "Choose a rating from 1 to 5."
	} else {
		form.Rating = rating
	}

	return form, errs
}

// ReviewCreate handles POST /apartments/{id}/reviews.
func (h *UIHandlers) ReviewCreate(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	houseID := r.PathValue("id")
	if session == nil || houseID == "" || h.Catalog == nil {
		h.NotFound(w, r)
		return
	}

	form, fieldErrors := parseReviewForm(r)
	if len(fieldErrors) > 0 {
		h.renderReviewFormError(w, r, houseID, form, fieldErrors, "")
		return
	}

	req := model.CreateReviewRequest{
		HouseID:   houseID,
		UserEmail: session.Email,
		UserName:  session.DisplayName,
		Rating:    form.Rating,
		Comment:   form.Comment,
	}

	if _, err := h.Catalog.CreateReview(r.Context(), req); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to create review", "house_id", houseID, "error", err)
		h.renderReviewFormError(w, r, houseID, form, nil, processError(err, nil))
		return
	}

	triggerToast(w, "Thanks for your review!", "success")
	HTMX(w).Redirect("/apartments/" + houseID)
}

// renderReviewFormError re-renders the listing detail page with review errors
// and the entered values preserved.
func (h *UIHandlers) renderReviewFormError(
	w http.ResponseWriter,
	r *http.Request,
	houseID string,
	form reviewFormData,
	fieldErrors map[string]string,
	generalError string,
) {
	house, err := h.Catalog.GetHouse(r.Context(), houseID)
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
	data["FormRating"] = form.FormRating
	data["FormComment"] = form.FormComment

	h.populateApartmentReviews(r.Context(), data, house.ID)
	h.populateBookingDefaults(r, data)

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
