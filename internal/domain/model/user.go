package model

// User is a directory record owned by the remote API. The admin flag here is
// the source of truth for the session's role lookup.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Admin       bool   `json:"isAdmin"`
}

// RegisterUserRequest is the POST /users upsert issued right after an
// email/password account is created at the identity provider.
type RegisterUserRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=255"`
}

// FederatedUpsertRequest is the PUT /users upsert issued after a federated
// sign-in completes; federated sign-in doubles as implicit registration.
type FederatedUpsertRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=255"`
	AvatarURL   string `json:"avatarUrl"   validate:"omitempty,url"`
}

// UpdateProfileRequest is the PUT /users/profile body for profile edits.
type UpdateProfileRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=255"`
	AvatarURL   string `json:"avatarUrl"   validate:"omitempty,url"`
}

// MakeAdminRequest is the PUT /users/make-admin body granting the admin role.
type MakeAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
}
