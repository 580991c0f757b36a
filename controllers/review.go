package controllers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"skillshare-api/store"
	"skillshare-api/utils"
)

// ReviewController serves the read-only reviews
type ReviewController struct {
	base
	Reviews store.ReviewStore
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviews store.ReviewStore, logger *zap.Logger, timeout time.Duration) *ReviewController {
	return &ReviewController{base: newBase(logger, timeout), Reviews: reviews}
}

// GetReviews returns every review document as stored
func (rc *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := rc.context(r)
	defer cancel()

	reviews, err := rc.Reviews.List(ctx)
	if err != nil {
		rc.fail(w, r, "Error fetching reviews", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}
