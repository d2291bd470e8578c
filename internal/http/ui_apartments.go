package httpx

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/http/uiutil"
)

const errMsgUnableLoadApartments = "Unable to load apartments."

// dateLayoutISO is the wire format for check-in/check-out form fields, matching
// the HTML date input format.
const dateLayoutISO = "2006-01-02"

// apartmentsFilter narrows the public catalog by free-text search and sort.
type apartmentsFilter struct {
	Query string
	Sort  string
	Dir   string
}

// parseApartmentsFilter extracts catalog filters from query parameters.
// Unknown sort fields are dropped rather than rejected.
func parseApartmentsFilter(q url.Values) (apartmentsFilter, error) {
	sortField, dir := ParseSortParam(q, "sort", "dir")
	switch sortField {
	case "", "price", "name", "bedrooms":
	default:
		sortField = ""
	}
	return apartmentsFilter{
		Query: strings.TrimSpace(q.Get("q")),
		Sort:  sortField,
		Dir:   dir,
	}, nil
}

// Index serves the home page: the public apartment catalog.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	h.listApartments(w, r, PageMeta{
		Title:       "Rentora - Find your stay",
		PageTitle:   "Find your stay",
		CurrentPage: PageHome,
	})
}

// Apartments serves the catalog under its canonical /apartments path.
func (h *UIHandlers) Apartments(w http.ResponseWriter, r *http.Request) {
	h.listApartments(w, r, PageMeta{
		Title:       "Rentora - Apartments",
		PageTitle:   "Apartments",
		CurrentPage: PageApartments,
	})
}

func (h *UIHandlers) listApartments(w http.ResponseWriter, r *http.Request, meta PageMeta) {
	HandleList(ListHandlerOpts[model.House, apartmentsFilter]{
		Handler:         h,
		W:               w,
		R:               r,
		FilteredFetcher: h.listAvailableApartments,
		FilterParser:    parseApartmentsFilter,
		EnrichData: func(builder *TemplateDataBuilder, items []model.House, filters apartmentsFilter) {
			builder.With("Query", filters.Query).
				With("Sort", filters.Sort).
				With("Dir", filters.Dir).
				With("ResultCount", len(items))
		},
		PageMeta:     meta,
		ItemsKey:     "Apartments",
		ErrorMessage: errMsgUnableLoadApartments,
		ServiceAvailable: func() bool {
			return h.Catalog != nil
		},
		UnavailableMessage: errMsgUnableLoadApartments,
	})
}

// listAvailableApartments fetches the catalog and applies filters locally. The
// remote API returns the full collection, so search and sort happen here.
func (h *UIHandlers) listAvailableApartments(ctx context.Context, f apartmentsFilter) ([]model.House, error) {
	houses, err := h.Catalog.ListHouses(ctx)
	if err != nil {
		h.logger().ErrorContext(ctx, "failed to load apartments for catalog", "error", err)
		return nil, err
	}

	visible := make([]model.House, 0, len(houses))
	query := strings.ToLower(f.Query)
	for _, house := range houses {
		if house.Status != model.HouseStatusAvailable {
			continue
		}
		if query != "" && !matchesApartmentQuery(house, query) {
			continue
		}
		visible = append(visible, house)
	}

	sortApartments(visible, f.Sort, f.Dir)
	return visible, nil
}

// matchesApartmentQuery reports whether a listing matches a lowercased search term.
func matchesApartmentQuery(house model.House, query string) bool {
	return strings.Contains(strings.ToLower(house.Name), query) ||
		strings.Contains(strings.ToLower(house.Location), query)
}

// sortApartments orders listings in place. The zero sort keeps API order.
func sortApartments(houses []model.House, sortField, dir string) {
	if sortField == "" {
		return
	}
	desc := dir == SortDirDesc

	sort.SliceStable(houses, func(i, j int) bool {
		var less bool
		switch sortField {
		case "price":
			less = houses[i].PricePerNight < houses[j].PricePerNight
		case "name":
			less = strings.ToLower(houses[i].Name) < strings.ToLower(houses[j].Name)
		case "bedrooms":
			less = houses[i].Bedrooms < houses[j].Bedrooms
		}
		if desc {
			return !less
		}
		return less
	})
}

// apartmentReview is a review row shaped for the detail page.
type apartmentReview struct {
	ID        string
	UserName  string
	UserEmail string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// FriendlyCreatedAt returns a human friendly description of when the review was left.
func (rv apartmentReview) FriendlyCreatedAt() string {
	return uiutil.FriendlyRelativeTime(rv.CreatedAt)
}

// ApartmentView serves the listing detail page with reviews and the booking form.
func (h *UIHandlers) ApartmentView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.Catalog == nil {
		h.NotFound(w, r)
		return
	}

	house, err := h.Catalog.GetHouse(r.Context(), id)
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

	h.populateApartmentReviews(r.Context(), data, house.ID)
	h.populateBookingDefaults(r, data)

	h.renderPage(w, r, data)
}

// populateApartmentReviews loads the listing's reviews and average rating.
// A review fetch failure degrades to an empty section rather than a 500.
func (h *UIHandlers) populateApartmentReviews(ctx context.Context, data map[string]any, houseID string) {
	data["Reviews"] = []apartmentReview{}
	data["ReviewCount"] = 0
	data["AverageRating"] = 0.0

	reviews, err := h.Catalog.ListReviewsByHouse(ctx, houseID)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to load reviews for apartment", "house_id", houseID, "error", err)
		data["ReviewsError"] = "Unable to load reviews."
		return
	}

	rows := make([]apartmentReview, 0, len(reviews))
	ratingSum := 0
	for _, review := range reviews {
		rows = append(rows, apartmentReview{
			ID:        review.ID,
			UserName:  review.UserName,
			UserEmail: review.UserEmail,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
		ratingSum += review.Rating
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	data["Reviews"] = rows
	data["ReviewCount"] = len(rows)
	if len(rows) > 0 {
		data["AverageRating"] = float64(ratingSum) / float64(len(rows))
	}
}

// populateBookingDefaults seeds the booking form with sensible dates: tomorrow
// for check-in, two nights by default.
func (h *UIHandlers) populateBookingDefaults(r *http.Request, data map[string]any) {
	now := time.Now()
	checkIn := now.AddDate(0, 0, 1)
	checkOut := now.AddDate(0, 0, 3)

	if v := strings.TrimSpace(r.URL.Query().Get("check_in")); v != "" {
		if parsed, err := time.Parse(dateLayoutISO, v); err == nil {
			checkIn = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("check_out")); v != "" {
		if parsed, err := time.Parse(dateLayoutISO, v); err == nil {
			checkOut = parsed
		}
	}

	data["DefaultCheckIn"] = checkIn.Format(dateLayoutISO)
	data["DefaultCheckOut"] = checkOut.Format(dateLayoutISO)
	data["MinCheckIn"] = now.Format(dateLayoutISO)
}
