package httpx

import (
	"context"
	"net/http"
	"net/url"
)

// ListFetcher is a generic function type for fetching a full collection. The
// remote API returns collections wholesale, so there is no pagination to carry.
type ListFetcher[T any] func(ctx context.Context) ([]T, error)

// FilterParser is a function type for parsing URL query parameters into filter data.
// It takes url.Values and returns the parsed filter of type F, or an error if parsing fails.
// The error allows the handler to show meaningful validation errors for invalid filter params.
type FilterParser[F any] func(url.Values) (F, error)

// FilteredFetcher is a function type for fetching data with filters applied.
// Maintains ≤3 parameters per project constraints.
type FilteredFetcher[T any, F any] func(ctx context.Context, filters F) ([]T, error)

// DataEnricher is a function type for enriching template data after fetching items.
// It receives the template data builder, items, and filters, and can add custom data.
// This allows domain-specific data enrichment (e.g., adding counts, related data).
type DataEnricher[T any, F any] func(builder *TemplateDataBuilder, items []T, filters F)

// ListHandlerOpts contains all options needed for the generic list handler.
// Uses two generic type parameters: T for item type, F for filter type.
// All function types maintain ≤3 parameters per project constraints.
type ListHandlerOpts[T any, F any] struct {
	// Handler is the UIHandlers instance for rendering (required)
	Handler *UIHandlers
	// W is the HTTP response writer (required)
	W http.ResponseWriter
	// R is the HTTP request (required)
	R *http.Request
	// Fetcher is the function to fetch the collection (simple case, no filtering)
	Fetcher ListFetcher[T]
	// FilteredFetcher is the function to fetch data with filters (complex case)
	// Use this OR Fetcher, not both. If both are provided, FilteredFetcher takes precedence.
	FilteredFetcher FilteredFetcher[T, F]
	// FilterParser is an optional function to parse filters from query params
	FilterParser FilterParser[F]
	// EnrichData is an optional function to add custom data to the template after fetching
	EnrichData DataEnricher[T, F]
	// PageMeta contains page metadata for rendering
	PageMeta PageMeta
	// ItemsKey is the template data key for the items (e.g., "Apartments", "Bookings")
	ItemsKey string
	// ErrorMessage is the message to display when data fetching fails
	ErrorMessage string
	// ServiceAvailable should return true when the backing service is ready.
	// When provided and it returns false, HandleList renders the unavailable view.
	ServiceAvailable func() bool
	// UnavailableItems are rendered when the service is unavailable. Optional.
	UnavailableItems []T
	// UnavailableMessage is displayed when the service is unavailable. Optional.
	UnavailableMessage string
	// UnavailableData allows handlers to add custom fields when service is unavailable.
	UnavailableData func(builder *TemplateDataBuilder)
}

// HandleList is the generic list view handler that eliminates fetch/filter/render
// duplication. Uses two generic type parameters: T for item type, F for filter type.
//
// Usage examples:
//
// Simple list (no filtering):
//
//	HandleList(ListHandlerOpts[model.Booking, struct{}]{
//	    Handler:      h,
//	    W:            w,
//	    R:            r,
//	    Fetcher:      h.Bookings.ListBookings,
//	    PageMeta:     PageMeta{Title: "Bookings", CurrentPage: PageManageBookings},
//	    ItemsKey:     "Bookings",
//	    ErrorMessage: "Unable to load bookings.",
//	})
//
// With filtering:
//
//	HandleList(ListHandlerOpts[model.House, apartmentsFilter]{
//	    Handler:         h,
//	    W:               w,
//	    R:               r,
//	    FilteredFetcher: h.listFilteredApartments,
//	    FilterParser:    parseApartmentsFilter,
//	    PageMeta:        PageMeta{Title: "Apartments", CurrentPage: PageApartments},
//	    ItemsKey:        "Apartments",
//	    ErrorMessage:    "Unable to load apartments.",
//	})
func HandleList[T, F any](opts ListHandlerOpts[T, F]) {
	// Defensive nil checks for required dependencies
	if !validateListHandlerDeps(opts) {
		return
	}

	// If the backing service is unavailable, render the fallback view.
	if opts.ServiceAvailable != nil && !opts.ServiceAvailable() {
		renderUnavailableList(opts)
		return
	}

	// Parse filters if parser is provided
	var filters F
	if opts.FilterParser != nil {
		var filterErr error
		filters, filterErr = opts.FilterParser(opts.R.URL.Query())
		if filterErr != nil {
			opts.renderListError("Invalid filter parameters: " + filterErr.Error())
			return
		}
	}

	// Create the appropriate fetcher function
	fetchFunc := createListFetcher(opts, filters)
	if fetchFunc == nil {
		opts.renderListError("No data fetcher configured.")
		return
	}

	// Fetch and render data
	items, err := fetchFunc(opts.R.Context())
	if err != nil {
		opts.renderListError(opts.ErrorMessage)
		return
	}

	renderListSuccess(opts, items, filters)
}

// validateListHandlerDeps checks required dependencies and returns false if any are nil.
func validateListHandlerDeps[T, F any](opts ListHandlerOpts[T, F]) bool {
	if opts.W == nil || opts.R == nil || opts.Handler == nil {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return false
	}
	return true
}

// createListFetcher creates the appropriate fetcher function based on opts configuration.
func createListFetcher[T, F any](opts ListHandlerOpts[T, F], filters F) ListFetcher[T] {
	switch {
	case opts.FilteredFetcher != nil:
		return func(ctx context.Context) ([]T, error) {
			return opts.FilteredFetcher(ctx, filters)
		}
	case opts.Fetcher != nil:
		return opts.Fetcher
	default:
		return nil
	}
}

// renderListError renders an error page for a failed list fetch.
func (lh *ListHandlerOpts[T, F]) renderListError(errMsg string) {
	builder := NewTemplateData(lh.R, lh.PageMeta).
		WithError(errMsg)
	lh.Handler.renderPage(lh.W, lh.R, builder.Build())
}

// renderListSuccess renders the list view with the fetched items.
func renderListSuccess[T, F any](opts ListHandlerOpts[T, F], items []T, filters F) {
	builder := NewTemplateData(opts.R, opts.PageMeta).
		With(opts.ItemsKey, items)

	// Allow domain-specific data enrichment
	if opts.EnrichData != nil {
		opts.EnrichData(builder, items, filters)
	}

	opts.Handler.renderPage(opts.W, opts.R, builder.Build())
}

// renderUnavailableList renders the list view when the backing service is unavailable.
func renderUnavailableList[T, F any](opts ListHandlerOpts[T, F]) {
	builder := NewTemplateData(opts.R, opts.PageMeta)

	if opts.ItemsKey != "" {
		builder.With(opts.ItemsKey, opts.UnavailableItems)
	}
	if msg := opts.UnavailableMessage; msg != "" {
		builder.WithError(msg)
	}
	if opts.UnavailableData != nil {
		opts.UnavailableData(builder)
	}

	opts.Handler.renderPage(opts.W, opts.R, builder.Build())
}
