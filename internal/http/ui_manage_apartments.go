package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/http/validation"
)

const errMsgUnableLoadListings = "Unable to load listings."

// ManageApartments serves the admin listing table, HTMX-aware.
func (h *UIHandlers) ManageApartments(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.House, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context) ([]model.House, error) {
			houses, err := h.Catalog.ListHouses(ctx)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to load listings for admin", "error", err)
			}
			return houses, err
		},
		PageMeta: PageMeta{
			Title:       "Rentora - Manage Apartments",
			PageTitle:   "Manage Apartments",
			CurrentPage: PageManageApartments,
		},
		ItemsKey:     "Apartments",
		ErrorMessage: errMsgUnableLoadListings,
		ServiceAvailable: func() bool {
			return h.Catalog != nil
		},
		UnavailableMessage: errMsgUnableLoadListings,
	})
}

// --- Apartment Create/Edit (admin) ---

func (h *UIHandlers) renderApartmentForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			if mode == FormModeEdit {
				return PageMeta{
					Title:       "Rentora - Edit Apartment",
					PageTitle:   "Edit Apartment",
					CurrentPage: PageApartmentForm,
				}
			}
			return PageMeta{Title: "Rentora - New Apartment", PageTitle: "New Apartment", CurrentPage: PageApartmentForm}
		},
	})
	data["StatusOptions"] = []string{
		string(model.HouseStatusAvailable),
		string(model.HouseStatusUnavailable),
	}
	h.renderPage(w, r, data)
}

// ApartmentNew renders the create form.
func (h *UIHandlers) ApartmentNew(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Mode": "create"}
	h.renderApartmentForm(w, r, data)
}

// ApartmentEdit renders the edit form for an existing listing.
func (h *UIHandlers) ApartmentEdit(w http.ResponseWriter, r *http.Request) {
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

	data := map[string]any{
		"Mode":      "edit",
		"Apartment": house,
	}
	h.renderApartmentForm(w, r, data)
}

// apartmentFormData holds parsed listing form data for create and update.
type apartmentFormData struct {
	Name          string
	Location      string
	Bedrooms      int
	Bathrooms     int
	PricePerNight float64
	Description   string
	ImageURL      string
	HostEmail     string
	Status        model.HouseStatus

	// Raw values preserved for re-rendering the form on error
	FormBedrooms  string
	FormBathrooms string
	FormPrice     string
}

// parseApartmentForm parses and validates the listing form.
func parseApartmentForm(r *http.Request) (apartmentFormData, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return apartmentFormData{}, map[string]string{"_form": "Invalid form submission."}
	}

	form := apartmentFormData{
		Name:          strings.TrimSpace(r.Form.Get("name")),
		Location:      strings.TrimSpace(r.Form.Get("location")),
		Description:   strings.TrimSpace(r.Form.Get("description")),
		ImageURL:      strings.TrimSpace(r.Form.Get("image_url")),
		HostEmail:     strings.TrimSpace(r.Form.Get("host_email")),
		FormBedrooms:  strings.TrimSpace(r.Form.Get("bedrooms")),
		FormBathrooms: strings.TrimSpace(r.Form.Get("bathrooms")),
		FormPrice:     strings.TrimSpace(r.Form.Get("price_per_night")),
	}

	v := validation.New().
		Validate("name", form.Name, validation.Required("Name", 255)).
		Validate("location", form.Location, validation.Required("Location", 255)).
		Validate("description", form.Description, validation.Optional("Description", 4000)).
		Validate("host_email", form.HostEmail, validation.Email("Host email")).
		Validate("bedrooms", form.FormBedrooms, validation.IntRange("Bedrooms", 1, 50)).
		Validate("bathrooms", form.FormBathrooms, validation.IntRange("Bathrooms", 1, 50))
	if form.ImageURL != "" {
		v.Validate("image_url", form.ImageURL, validation.HTTPSURL("Image URL", 2048))
	}
	errs := v.Errors()

	if _, hasErr := errs["bedrooms"]; !hasErr {
		form.Bedrooms, _ = strconv.Atoi(form.FormBedrooms)
	}
	if _, hasErr := errs["bathrooms"]; !hasErr {
		form.Bathrooms, _ = strconv.Atoi(form.FormBathrooms)
	}

	price, priceErr := strconv.ParseFloat(form.FormPrice, 64)
	if priceErr != nil || price <= 0 {
		errs["price_per_night"] = "Price per night must be a positive number."
	} else {
		form.PricePerNight = price
	}

	status, ok := model.ParseHouseStatus(r.Form.Get("status"))
	if !ok {
		status = model.HouseStatusAvailable
	}
	form.Status = status

	return form, errs
}

// apartmentFormService adapts the catalog client to the generic form handler.
type apartmentFormService struct {
	svc CatalogService
}

func (s *apartmentFormService) Create(ctx context.Context, req apartmentFormData) (any, error) {
	return s.svc.CreateHouse(ctx, model.CreateHouseRequest{
		Name:          req.Name,
		Location:      req.Location,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		PricePerNight: req.PricePerNight,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		HostEmail:     req.HostEmail,
		Status:        string(req.Status),
	})
}

func (s *apartmentFormService) Update(
	ctx context.Context,
	id string,
	req apartmentFormData,
) (any, error) {
	return s.svc.UpdateHouse(ctx, id, model.UpdateHouseRequest{
		Name:          req.Name,
		Location:      req.Location,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		PricePerNight: req.PricePerNight,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		HostEmail:     req.HostEmail,
		Status:        string(req.Status),
	})
}

// loadApartmentForEdit loads the listing for edit mode if not already present in data.
func (h *UIHandlers) loadApartmentForEdit(r *http.Request, data map[string]any) {
	if _, hasApartment := data["Apartment"]; hasApartment {
		return
	}
	id := r.PathValue("id")
	if id == "" || h.Catalog == nil {
		return
	}
	house, err := h.Catalog.GetHouse(r.Context(), id)
	if err == nil {
		data["Apartment"] = house
		return
	}
	// Placeholder with the ID so error re-renders do not break the template
	data["Apartment"] = model.House{ID: id}
}

// renderApartmentFormWithData adapts generic form handler data to the listing form renderer.
func (h *UIHandlers) renderApartmentFormWithData(
	w http.ResponseWriter,
	r *http.Request,
	data map[string]any,
) {
	if mode := resolveFormMode(data["Mode"], FormModeCreate); mode == FormModeEdit {
		h.loadApartmentForEdit(r, data)
	}
	h.renderApartmentForm(w, r, data)
}

// ApartmentCreate handles POST from the create form.
func (h *UIHandlers) ApartmentCreate(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		h.NotFound(w, r)
		return
	}

	HandleForm(FormHandlerOpts[apartmentFormData]{
		W:          w,
		R:          r,
		Mode:       FormModeCreate,
		Parser:     parseApartmentForm,
		Service:    &apartmentFormService{svc: h.Catalog},
		Renderer:   h.renderApartmentFormWithData,
		SuccessURL: "/manage/apartments",
		PageMeta: PageMeta{
			Title:       "Rentora - New Apartment",
			PageTitle:   "New Apartment",
			CurrentPage: PageApartmentForm,
		},
		ExtraData: map[string]any{},
	})
}

// ApartmentUpdate handles POST from the edit form.
func (h *UIHandlers) ApartmentUpdate(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		h.NotFound(w, r)
		return
	}

	HandleForm(FormHandlerOpts[apartmentFormData]{
		W:          w,
		R:          r,
		Mode:       FormModeEdit,
		Parser:     parseApartmentForm,
		Service:    &apartmentFormService{svc: h.Catalog},
		Renderer:   h.renderApartmentFormWithData,
		SuccessURL: "/manage/apartments",
		PageMeta: PageMeta{
			Title:       "Rentora - Edit Apartment",
			PageTitle:   "Edit Apartment",
			CurrentPage: PageApartmentForm,
		},
		ExtraData: map[string]any{},
	})
}

// ApartmentDelete handles deleting a listing from the admin table.
func (h *UIHandlers) ApartmentDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.Catalog != nil },
		Delete: func(ctx context.Context, id string) error {
			return h.Catalog.DeleteHouse(ctx, id)
		},
		RedirectPath: "/manage/apartments",
		OnError: func(w http.ResponseWriter, r *http.Request, err error) {
			errMsg := processError(err, nil)
			if errMsg == "" {
				errMsg = "Unable to delete listing. Please try again."
			}
			if IsHTMX(r) {
				// 204 keeps the row in place
				triggerToast(w, errMsg, "error")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Redirect(w, r, "/manage/apartments", http.StatusSeeOther)
		},
		OnSuccess: func(w http.ResponseWriter, r *http.Request, _ string) {
			if IsHTMX(r) {
				// Empty 200 body swaps the row out of the table
				triggerToast(w, "Listing deleted", "success")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/manage/apartments", http.StatusSeeOther)
		},
	})
}
