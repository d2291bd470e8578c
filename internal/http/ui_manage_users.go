package httpx

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

const errMsgUnableLoadUsers = "Unable to load users."

// ManageUsers serves the admin user directory table.
func (h *UIHandlers) ManageUsers(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.User, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context) ([]model.User, error) {
			users, err := h.Users.ListUsers(ctx)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to load users for admin", "error", err)
				return nil, err
			}
			sort.Slice(users, func(i, j int) bool {
				return strings.ToLower(users[i].Email) < strings.ToLower(users[j].Email)
			})
			return users, nil
		},
		EnrichData: func(builder *TemplateDataBuilder, items []model.User, _ struct{}) {
			admins := 0
			for _, user := range items {
				if user.Admin {
					admins++
				}
			}
			builder.With("AdminCount", admins)
		},
		PageMeta: PageMeta{
			Title:       "Rentora - Manage Users",
			PageTitle:   "Manage Users",
			CurrentPage: PageManageUsers,
		},
		ItemsKey:     "Users",
		ErrorMessage: errMsgUnableLoadUsers,
		ServiceAvailable: func() bool {
			return h.Users != nil
		},
		UnavailableMessage: errMsgUnableLoadUsers,
	})
}

// UserMakeAdmin handles POST /manage/users/make-admin, granting the admin role
// by email. The grantee's open sessions pick the role up on their next
// role refresh.
func (h *UIHandlers) UserMakeAdmin(w http.ResponseWriter, r *http.Request) {
	if h.Users == nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	if email == "" {
		triggerToast(w, "Select a user to promote.", "error")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.Users.MakeAdmin(r.Context(), model.MakeAdminRequest{Email: email}); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to grant admin role", "email", email, "error", err)
		errMsg := processError(err, nil)
		if errMsg == "" {
			errMsg = "Unable to update role. Please try again."
		}
		if IsHTMX(r) {
			triggerToast(w, errMsg, "error")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, "/manage/users", http.StatusSeeOther)
		return
	}

	if IsHTMX(r) {
		triggerToast(w, email+" is now an admin.", "success")
		HTMX(w).Refresh()
		return
	}
	http.Redirect(w, r, "/manage/users", http.StatusSeeOther)
}

// UserDelete handles removing a user from the directory. The identity provider
// account is untouched; without a directory record the user signs in as a
// regular user again.
func (h *UIHandlers) UserDelete(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.Users != nil },
		Delete: func(ctx context.Context, id string) error {
			return h.Users.DeleteUser(ctx, id)
		},
		RedirectPath: "/manage/users",
		OnError: func(w http.ResponseWriter, r *http.Request, err error) {
			errMsg := processError(err, nil)
			if errMsg == "" {
				errMsg = "Unable to delete user. Please try again."
			}
			if IsHTMX(r) {
				triggerToast(w, errMsg, "error")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Redirect(w, r, "/manage/users", http.StatusSeeOther)
		},
		OnSuccess: func(w http.ResponseWriter, r *http.Request, id string) {
			if session != nil && session.UserID == id {
				h.logger().WarnContext(r.Context(), "admin deleted own directory record", "user_id", id)
			}
			if IsHTMX(r) {
				triggerToast(w, "User deleted", "success")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/manage/users", http.StatusSeeOther)
		},
	})
}
