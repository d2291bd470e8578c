package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rentora/rentora-ui/internal/domain/model"
)

// ListReviews fetches every review.
func (c *Client) ListReviews(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	if err := c.do(ctx, http.MethodGet, "/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetReview fetches one review by id.
func (c *Client) GetReview(ctx context.Context, id string) (model.Review, error) {
	var review model.Review
	if err := c.do(ctx, http.MethodGet, "/reviews/"+url.PathEscape(id), nil, &review); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

// ListReviewsByHouse fetches the reviews left on one listing.
func (c *Client) ListReviewsByHouse(ctx context.Context, houseID string) ([]model.Review, error) {
	var reviews []model.Review
	if err := c.do(ctx, http.MethodGet, "/reviews/house/"+url.PathEscape(houseID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListReviewsByUser fetches the reviews written by one user.
func (c *Client) ListReviewsByUser(ctx context.Context, userID string) ([]model.Review, error) {
	var reviews []model.Review
	if err := c.do(ctx, http.MethodGet, "/reviews/user/"+url.PathEscape(userID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview creates a review and returns the stored record.
func (c *Client) CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error) {
	var review model.Review
	if err := c.do(ctx, http.MethodPost, "/reviews", req, &review); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

// UpdateReview replaces a review's editable fields.
func (c *Client) UpdateReview(ctx context.Context, id string, req model.UpdateReviewRequest) (model.Review, error) {
	var review model.Review
	if err := c.do(ctx, http.MethodPut, "/reviews/"+url.PathEscape(id), req, &review); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/reviews/"+url.PathEscape(id), nil, nil)
}
