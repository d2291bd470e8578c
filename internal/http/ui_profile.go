package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/rentora/rentora-ui/internal/domain/model"
	"github.com/rentora/rentora-ui/internal/http/validation"
	"github.com/rentora/rentora-ui/internal/service"
)

// profileMeta returns the shared page metadata for the profile screens.
func profileMeta() PageMeta {
	return PageMeta{
		Title:       "Rentora - Profile",
		PageTitle:   "Your Profile",
		CurrentPage: PageProfile,
	}
}

// Profile serves the profile page: account details, email verification state,
// and the password change form.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		h.NotFound(w, r)
		return
	}

	h.Page(w, r, PageSpec{
		Meta: profileMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			h.populateProfileRecord(ctx, data, session.Email)
			return nil
		},
	})
}

// populateProfileRecord loads the fresh directory record. The session copy is
// the fallback when the directory is unreachable.
func (h *UIHandlers) populateProfileRecord(ctx context.Context, data map[string]any, email string) {
	if h.Users == nil {
		return
	}
	record, err := h.Users.GetUserByEmail(ctx, email)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to load directory record for profile", "error", err)
		return
	}
	data["Profile"] = record
}

// profileFormData holds the parsed profile edit form.
type profileFormData struct {
	DisplayName string
	AvatarURL   string
}

// parseProfileForm parses and validates the profile edit form.
func parseProfileForm(r *http.Request) (profileFormData, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return profileFormData{}, map[string]string{"_form": "Invalid form submission."}
	}

	displayName := strings.TrimSpace(r.Form.Get("display_name"))
	avatarURL := strings.TrimSpace(r.Form.Get("avatar_url"))

	v := validation.New().
		Validate("display_name", displayName, validation.RequiredRange("Display name", 1, 255))
	if avatarURL != "" {
		v.Validate("avatar_url", avatarURL, validation.HTTPSURL("Avatar URL", 2048))
	}

	return profileFormData{DisplayName: displayName, AvatarURL: avatarURL}, v.Errors()
}

// ProfileUpdate handles POST /profile: directory update plus session sync so
// the chrome shows the new name immediately.
func (h *UIHandlers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.Users == nil {
		h.NotFound(w, r)
		return
	}

	form, fieldErrors := parseProfileForm(r)
	if len(fieldErrors) > 0 {
		h.renderProfileError(w, r, fieldErrors, "")
		return
	}

	req := model.UpdateProfileRequest{
		Email:       session.Email,
		DisplayName: form.DisplayName,
		AvatarURL:   form.AvatarURL,
	}
	if _, err := h.Users.UpdateProfile(r.Context(), req); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to update profile", "error", err)
		h.renderProfileError(w, r, nil, processError(err, nil))
		return
	}

	if h.Auth != nil {
		syncErr := h.Auth.SyncProfile(r.Context(), service.SyncProfileInput{
			SessionID:   session.ID,
			DisplayName: form.DisplayName,
			AvatarURL:   form.AvatarURL,
		})
		if syncErr != nil {
			h.logger().WarnContext(r.Context(), "failed to sync profile into session", "error", syncErr)
		}
	}

	triggerToast(w, "Profile updated.", "success")
	HTMX(w).Redirect("/profile")
}

// VerifyEmailSend handles POST /profile/verify-email.
func (h *UIHandlers) VerifyEmailSend(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.Auth == nil {
		h.NotFound(w, r)
		return
	}
	if session.EmailVerified {
		triggerToast(w, "Your email is already verified.", "info")
		HTMX(w).Redirect("/profile")
		return
	}

	if err := h.Auth.SendVerificationEmail(r.Context(), session.ID); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to send verification email", "error", err)
		h.renderProfileError(w, r, nil, authErrorMessage(err, "Unable to send verification email. Please try again."))
		return
	}

	triggerToast(w, "Verification email sent. Check your inbox.", "success")
	HTMX(w).Redirect("/profile")
}

// VerifyEmailConfirm handles POST /profile/verify-email/confirm.
func (h *UIHandlers) VerifyEmailConfirm(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.Auth == nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderProfileError(w, r, map[string]string{"code": "Invalid form submission."}, "")
		return
	}

	code := strings.TrimSpace(r.Form.Get("code"))
	if code == "" {
		h.renderProfileError(w, r, map[string]string{"code": "Enter the code from the verification email."}, "")
		return
	}

	err := h.Auth.ConfirmEmailVerification(r.Context(), service.ConfirmVerificationInput{
		SessionID: session.ID,
		Code:      code,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to confirm email verification", "error", err)
		h.renderProfileError(w, r, nil, authErrorMessage(err, "Unable to verify your email. Please try again."))
		return
	}

	triggerToast(w, "Email verified.", "success")
	HTMX(w).Redirect("/profile")
}

// changePasswordFormData holds the parsed password change form.
type changePasswordFormData struct {
	CurrentPassword string
	NewPassword     string
}

// parseChangePasswordForm parses and validates the password change form.
func parseChangePasswordForm(r *http.Request) (changePasswordFormData, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return changePasswordFormData{}, map[string]string{"_form": "Invalid form submission."}
	}

	current := r.Form.Get("current_password")
	next := r.Form.Get("new_password")
	confirm := r.Form.Get("new_password_confirm")

	errs := validation.New().
		Validate("current_password", current, validation.Required("Current password", 1024)).
		Validate("new_password", next, validation.RequiredRange("New password", minPasswordLength, 1024)).
		Errors()

	if _, hasErr := errs["new_password"]; !hasErr && next != confirm {
		errs["new_password_confirm"] = "Passwords do not match."
	}

	return changePasswordFormData{CurrentPassword: current, NewPassword: next}, errs
}

// ChangePassword handles POST /profile/password. A wrong current password
// surfaces its fixed sentence on that field; the new password is never set.
func (h *UIHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.Auth == nil {
		h.NotFound(w, r)
		return
	}

	form, fieldErrors := parseChangePasswordForm(r)
	if len(fieldErrors) > 0 {
		h.renderProfileError(w, r, fieldErrors, "")
		return
	}

	err := h.Auth.ChangePassword(r.Context(), service.ChangePasswordInput{
		SessionID:       session.ID,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
	if err != nil {
		h.renderProfileError(w, r, nil, authErrorMessage(err, "Unable to change your password. Please try again."))
		return
	}

	triggerToast(w, "Password changed.", "success")
	HTMX(w).Redirect("/profile")
}

// renderProfileError re-renders the profile page with errors.
func (h *UIHandlers) renderProfileError(
	w http.ResponseWriter,
	r *http.Request,
	fieldErrors map[string]string,
	generalError string,
) {
	session := GetSessionFromContext(r.Context())
	data := basePageData(r, profileMeta())
	if session != nil {
		h.populateProfileRecord(r.Context(), data, session.Email)
	}

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
