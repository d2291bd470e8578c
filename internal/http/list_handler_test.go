package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

func testHouses() []model.House {
	return []model.House{
		{
			ID:            "h-1",
			Name:          "Sunset Loft",
			Location:      "Lisbon",
			Bedrooms:      2,
			Bathrooms:     1,
			PricePerNight: 120,
			Status:        model.HouseStatusAvailable,
		},
		{
			ID:            "h-2",
			Name:          "Harbor View Flat",
			Location:      "Porto",
			Bedrooms:      3,
			Bathrooms:     2,
			PricePerNight: 180,
			Status:        model.HouseStatusAvailable,
		},
	}
}

func apartmentsListMeta() PageMeta {
	return PageMeta{
		Title:       "Rentora - Apartments",
		PageTitle:   "Apartments",
		CurrentPage: PageApartments,
	}
}

func TestHandleList_Success(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments", nil)

	HandleList(ListHandlerOpts[model.House, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(_ context.Context) ([]model.House, error) {
			return testHouses(), nil
		},
		PageMeta:     apartmentsListMeta(),
		ItemsKey:     "Apartments",
		ErrorMessage: "Unable to load apartments.",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Sunset Loft")
	assert.Contains(t, body, "Harbor View Flat")
}

func TestHandleList_FetchError(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments", nil)

	HandleList(ListHandlerOpts[model.House, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(_ context.Context) ([]model.House, error) {
			return nil, errors.New("remote api down")
		},
		PageMeta:     apartmentsListMeta(),
		ItemsKey:     "Apartments",
		ErrorMessage: "Unable to load apartments.",
	})

	body := w.Body.String()
	assert.Contains(t, body, "Unable to load apartments.")
	// The raw upstream error never leaks into the page.
	assert.NotContains(t, body, "remote api down")
}

func TestHandleList_FilterParserError(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments?sort=bogus", nil)

	HandleList(ListHandlerOpts[model.House, string]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(_ context.Context, _ string) ([]model.House, error) {
			t.Fatal("fetcher should not run when filter parsing fails")
			return nil, nil
		},
		FilterParser: func(_ url.Values) (string, error) {
			return "", errors.New("unsupported sort field")
		},
		PageMeta:     apartmentsListMeta(),
		ItemsKey:     "Apartments",
		ErrorMessage: "Unable to load apartments.",
	})

	assert.Contains(t, w.Body.String(), "Invalid filter parameters")
}

func TestHandleList_FilteredFetcherReceivesFilters(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments?query=loft", nil)

	var gotFilter string
	HandleList(ListHandlerOpts[model.House, string]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(_ context.Context, filter string) ([]model.House, error) {
			gotFilter = filter
			return testHouses()[:1], nil
		},
		FilterParser: func(values url.Values) (string, error) {
			return values.Get("query"), nil
		},
		PageMeta:     apartmentsListMeta(),
		ItemsKey:     "Apartments",
		ErrorMessage: "Unable to load apartments.",
	})

	assert.Equal(t, "loft", gotFilter)
	assert.Contains(t, w.Body.String(), "Sunset Loft")
}

func TestHandleList_EnrichData(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments", nil)

	enriched := false
	HandleList(ListHandlerOpts[model.House, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(_ context.Context) ([]model.House, error) {
			return testHouses(), nil
		},
		EnrichData: func(builder *TemplateDataBuilder, items []model.House, _ struct{}) {
			enriched = true
			builder.With("ListingCount", len(items))
		},
		PageMeta:     apartmentsListMeta(),
		ItemsKey:     "Apartments",
		ErrorMessage: "Unable to load apartments.",
	})

	assert.True(t, enriched)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleList_ServiceUnavailable(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments", nil)

	HandleList(ListHandlerOpts[model.House, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(_ context.Context) ([]model.House, error) {
			t.Fatal("fetcher should not run when the service is unavailable")
			return nil, nil
		},
		PageMeta:           apartmentsListMeta(),
		ItemsKey:           "Apartments",
		ErrorMessage:       "Unable to load apartments.",
		ServiceAvailable:   func() bool { return false },
		UnavailableMessage: "Unable to load apartments.",
	})

	assert.Contains(t, w.Body.String(), "Unable to load apartments.")
}

func TestHandleList_NoFetcherConfigured(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments", nil)

	HandleList(ListHandlerOpts[model.House, struct{}]{
		Handler:      h,
		W:            w,
		R:            r,
		PageMeta:     apartmentsListMeta(),
		ItemsKey:     "Apartments",
		ErrorMessage: "Unable to load apartments.",
	})

	assert.Contains(t, w.Body.String(), "No data fetcher configured.")
}

func TestHandleList_MissingHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/apartments", nil)

	HandleList(ListHandlerOpts[model.House, struct{}]{
		W: w,
		R: r,
		Fetcher: func(_ context.Context) ([]model.House, error) {
			return nil, nil
		},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
