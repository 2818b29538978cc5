package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/api/middleware"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/utils"
)

// ReviewHandler serves review creation and deletion under a listing.
type ReviewHandler struct {
	reviewService services.IReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService services.IReviewService) *ReviewHandler {
	RegisterValidators()
	return &ReviewHandler{reviewService: reviewService}
}

// Create handles POST /listings/:id/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	listingID, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		listingNotFound(c)
		return
	}
	var form reviewForm
	if err := bindForm(c, &form); err != nil {
		middleware.Fail(c, err)
		return
	}
	user := middleware.CurrentUser(c)

	if _, err := h.reviewService.CreateReview(c.Request.Context(), listingID, user.ID, form.input()); err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			listingNotFound(c)
			return
		}
		middleware.Fail(c, err)
		return
	}

	middleware.Flash(c, sessions.FlashSuccess, "New Review Created!")
	c.Redirect(http.StatusFound, "/listings/"+listingID.Hex())
}

// Delete handles DELETE /listings/:id/reviews/:reviewId. RequireReviewAuthor
// has checked the review exists and belongs to the signed-in user.
func (h *ReviewHandler) Delete(c *gin.Context) {
	back := "/listings/" + c.Param("id")
	listingID, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		listingNotFound(c)
		return
	}
	reviewID, err := utils.ParseObjectID(c.Param("reviewId"))
	if err != nil {
		middleware.Flash(c, sessions.FlashError, middleware.MsgReviewNotFound)
		c.Redirect(http.StatusFound, back)
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), listingID, reviewID); err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			middleware.Flash(c, sessions.FlashError, middleware.MsgReviewNotFound)
			c.Redirect(http.StatusFound, back)
			return
		}
		middleware.Fail(c, err)
		return
	}

	middleware.Flash(c, sessions.FlashSuccess, "Review deleted successfully!")
	c.Redirect(http.StatusFound, back)
}
