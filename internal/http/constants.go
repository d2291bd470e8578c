package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	// Main navigation pages.
	PageHome      = "home"
	PageDashboard = "dashboard"

	// Apartment catalog pages.
	PageApartments    = "apartments"
	PageApartmentView = "apartment-view" // apartment detail with reviews and booking form

	// Auth pages.
	PageLogin    = "login"
	PageRegister = "register"

	// Account pages.
	PageMyBookings = "my-bookings"
	PageProfile    = "profile"

	// Admin management pages.
	PageManageApartments = "manage-apartments"
	PageApartmentForm    = "apartment-form" // create/edit form
	PageManageBookings   = "manage-bookings"
	PageManageReviews    = "manage-reviews"
	PageManageUsers      = "manage-users"
)

// Template paths used for loading templates in tests and production.
const (
	// Template directory paths.
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
// Using a dedicated type improves compile-time checks and prevents typos.
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageHome:             "apartments-content", // Home page shows the apartment catalog
	PageApartments:       "apartments-content",
	PageApartmentView:    "apartment-view-content",
	PageDashboard:        "dashboard-content",
	PageLogin:            "login-content",
	PageRegister:         "register-content",
	PageMyBookings:       "my-bookings-content",
	PageProfile:          "profile-content",
	PageManageApartments: "manage-apartments-content",
	PageApartmentForm:    "apartment-form-content",
	PageManageBookings:   "manage-bookings-content",
	PageManageReviews:    "manage-reviews-content",
	PageManageUsers:      "manage-users-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
// This is the single source of truth for page-to-template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to apartments-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "apartments-content"
}
