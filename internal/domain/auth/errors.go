package auth

import "errors"

// ErrorKind classifies sign-in and sign-up failures. Identity-provider error
// codes are mapped onto these kinds in the identity adapter; everything above
// that layer switches on the kind, never on provider strings.
type ErrorKind string

const (
	ErrInvalidEmail        ErrorKind = "invalid_email"
	ErrUserDisabled        ErrorKind = "user_disabled"
	ErrUserNotFound        ErrorKind = "user_not_found"
	ErrWrongPassword       ErrorKind = "wrong_password"
	ErrEmailInUse          ErrorKind = "email_in_use"
	ErrOperationNotAllowed ErrorKind = "operation_not_allowed"
	ErrWeakPassword        ErrorKind = "weak_password"
	ErrPopupClosed         ErrorKind = "popup_closed_by_user"
	ErrCancelledRequest    ErrorKind = "cancelled_popup_request"
	ErrNetworkFailure      ErrorKind = "network_failure"
	ErrInternal            ErrorKind = "internal_error"
	ErrUnknown             ErrorKind = "unknown"
)

// messages holds the single user-facing sentence for each kind. ErrUnknown is
// absent on purpose: it passes the provider's raw message through.
var messages = map[ErrorKind]string{
	ErrInvalidEmail:        "That email address is not valid.",
	ErrUserDisabled:        "This account has been disabled.",
	ErrUserNotFound:        "No account exists for that email address.",
	ErrWrongPassword:       "Incorrect password. Please try again.",
	ErrEmailInUse:          "An account already exists for that email address.",
	ErrOperationNotAllowed: "This sign-in method is not enabled.",
	ErrWeakPassword:        "Password must be at least 6 characters.",
	ErrPopupClosed:         "Sign-in was closed before completing.",
	ErrCancelledRequest:    "Sign-in was cancelled.",
	ErrNetworkFailure:      "Network error. Check your connection and try again.",
	ErrInternal:            "Something went wrong. Please try again.",
}

// AuthError is a classified authentication failure. Raw carries the
// provider's original message for logs and for the Unknown passthrough.
type AuthError struct {
	Kind ErrorKind
	Raw  string
}

func (e *AuthError) Error() string {
	if e.Raw == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Raw
}

// Message returns the static user-facing sentence for the kind. Unknown
// failures surface the provider message verbatim.
func (e *AuthError) Message() string {
	if msg, ok := messages[e.Kind]; ok {
		return msg
	}
	if e.Raw != "" {
		return e.Raw
	}
	return messages[ErrInternal]
}

// NewAuthError builds an AuthError for the given kind.
func NewAuthError(kind ErrorKind, raw string) *AuthError {
	return &AuthError{Kind: kind, Raw: raw}
}

// AsAuthError unwraps err into an *AuthError if one is present.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
