package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/utils"
)

// ContextKeyListing holds the *models.Listing loaded by RequireListingOwner.
const ContextKeyListing = "listing"

// Flash texts shared by guards and handlers.
const (
	MsgListingNotFound = "Listing you requested for doesn't exist!"
	MsgReviewNotFound  = "Review not found!"
	MsgNotOwner        = "You are not the owner of this listing!"
	MsgNotAuthor       = "You are not the author of this review!"
)

// RequireListingOwner lets the request through only when the signed-in user
// owns the listing in the :id path parameter. A missing listing is reported
// as not found before ownership is considered. Must run after RequireAuth.
func RequireListingOwner(listings services.IListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listingID, err := utils.ParseObjectID(c.Param("id"))
		if err != nil {
			redirectWithFlash(c, sessions.FlashError, MsgListingNotFound, "/listings")
			return
		}
		listing, err := listings.FindListingByID(c.Request.Context(), listingID)
		if err != nil {
			if errors.Is(err, services.ErrListingNotFound) {
				redirectWithFlash(c, sessions.FlashError, MsgListingNotFound, "/listings")
				return
			}
			Fail(c, err)
			return
		}

		user := CurrentUser(c)
		if user == nil || !listing.IsOwnedBy(user.ID) {
			redirectWithFlash(c, sessions.FlashError, MsgNotOwner, "/listings/"+listingID.Hex())
			return
		}

		c.Set(ContextKeyListing, listing)
		c.Next()
	}
}

// RequireReviewAuthor lets the request through only when the signed-in user
// wrote the review in the :reviewId path parameter. Must run after RequireAuth.
func RequireReviewAuthor(reviews services.IReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		back := "/listings/" + c.Param("id")
		reviewID, err := utils.ParseObjectID(c.Param("reviewId"))
		if err != nil {
			redirectWithFlash(c, sessions.FlashError, MsgReviewNotFound, back)
			return
		}
		review, err := reviews.FindReviewByID(c.Request.Context(), reviewID)
		if err != nil {
			if errors.Is(err, services.ErrReviewNotFound) {
				redirectWithFlash(c, sessions.FlashError, MsgReviewNotFound, back)
				return
			}
			Fail(c, err)
			return
		}

		user := CurrentUser(c)
		if user == nil || !review.IsAuthoredBy(user.ID) {
			redirectWithFlash(c, sessions.FlashError, MsgNotAuthor, back)
			return
		}
		c.Next()
	}
}

// GuardedListing returns the listing loaded by RequireListingOwner.
func GuardedListing(c *gin.Context) *models.Listing {
	if v, ok := c.Get(ContextKeyListing); ok {
		if listing, ok := v.(*models.Listing); ok {
			return listing
		}
	}
	return nil
}

func redirectWithFlash(c *gin.Context, kind, message, location string) {
	Flash(c, kind, message)
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
