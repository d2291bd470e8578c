package model

import "time"

// Review is a user review of a house, owned by the remote API. UserName is
// denormalized so review lists render without a per-row user fetch.
type Review struct {
	ID        string    `json:"id"`
	HouseID   string    `json:"houseId"`
	UserEmail string    `json:"userEmail"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateReviewRequest represents parameters to create a Review.
type CreateReviewRequest struct {
	HouseID   string `json:"houseId"   validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
	UserName  string `json:"userName"  validate:"required,max=255"`
	Rating    int    `json:"rating"    validate:"required,min=1,max=5"`
	Comment   string `json:"comment"   validate:"required,max=2000"`
}

// UpdateReviewRequest represents parameters to replace a Review's editable fields.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}
