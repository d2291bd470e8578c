package httpx

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

// Every admin row action issues a remote mutation, so each hx-post trigger
// must carry an hx-confirm dialog: confirming is what stands between a stray
// click and a state change.

// hxPostElements walks the DOM and returns every element carrying an hx-post
// attribute, keyed by the posted path.
func hxPostElements(doc *html.Node) map[string]*html.Node {
	found := map[string]*html.Node{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if path := attrValue(n, "hx-post"); path != "" {
				found[path] = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func TestBookingRowActionsRequireConfirmation(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}

	row := bookingRow{Booking: model.Booking{
		ID:        "bk-1",
		HouseID:   "h-1",
		HouseName: "Seaside Cottage",
		CheckIn:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
		Guests:    2,
		Status:    model.BookingStatusPending,
	}}

	var buf bytes.Buffer
	err := tr.t.ExecuteTemplate(&buf, "booking-row", map[string]any{
		"Booking":   row,
		"CSRFToken": "test-token",
		"CanManage": true,
	})
	require.NoError(t, err)

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	actions := hxPostElements(doc)
	for _, path := range []string{
		"/manage/bookings/bk-1/approve",
		"/manage/bookings/bk-1/reject",
		"/manage/bookings/bk-1/delete",
	} {
		node, ok := actions[path]
		require.True(t, ok, "expected an hx-post action for %s", path)
		assert.NotEmpty(t, attrValue(node, "hx-confirm"),
			"action %s must be gated behind a confirmation dialog", path)
	}
}

func TestManageUsersActionsRequireConfirmation(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}

	var buf bytes.Buffer
	err := tr.t.ExecuteTemplate(&buf, "manage-users-content", map[string]any{
		"Users": []model.User{
			{ID: "u-1", Email: "guest@example.com", DisplayName: "Guest Example"},
		},
		"AdminCount": 0,
		"CSRFToken":  "test-token",
	})
	require.NoError(t, err)

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	actions := hxPostElements(doc)
	for _, path := range []string{
		"/manage/users/make-admin",
		"/manage/users/u-1/delete",
	} {
		node, ok := actions[path]
		require.True(t, ok, "expected an hx-post action for %s", path)
		assert.NotEmpty(t, attrValue(node, "hx-confirm"),
			"action %s must be gated behind a confirmation dialog", path)
	}
}
