package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/api/middleware"
	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/storage"
	"github.com/ishanKurnal/WanderLust/internal/utils"
)

const listingImageField = "listing[image]"

// ListingHandler serves the listing pages.
type ListingHandler struct {
	listingService services.IListingService
	imageStorage   storage.IImageStorage
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService services.IListingService, imageStorage storage.IImageStorage) *ListingHandler {
	RegisterValidators()
	return &ListingHandler{listingService: listingService, imageStorage: imageStorage}
}

// Index handles GET /listings with optional category, q and field filters.
func (h *ListingHandler) Index(c *gin.Context) {
	filter := services.ListingFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Field:    c.Query("field"),
	}
	listings, err := h.listingService.ListListings(c.Request.Context(), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.RenderPage(c, http.StatusOK, "listing_index.tmpl", gin.H{
		"listings":   listings,
		"category":   filter.Category,
		"query":      filter.Query,
		"field":      filter.Field,
		"categories": models.ListingCategories,
	})
}

// New handles GET /listings/new.
func (h *ListingHandler) New(c *gin.Context) {
	middleware.RenderPage(c, http.StatusOK, "listing_new.tmpl", gin.H{
		"title":      "New listing",
		"categories": models.ListingCategories,
	})
}

// Show handles GET /listings/:id.
func (h *ListingHandler) Show(c *gin.Context) {
	listingID, err := utils.ParseObjectID(c.Param("id"))
	if err != nil {
		listingNotFound(c)
		return
	}
	details, err := h.listingService.GetListingDetails(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			listingNotFound(c)
			return
		}
		middleware.Fail(c, err)
		return
	}
	middleware.RenderPage(c, http.StatusOK, "listing_show.tmpl", gin.H{
		"title":   details.Title,
		"listing": details,
	})
}

// Create handles POST /listings.
func (h *ListingHandler) Create(c *gin.Context) {
	var form listingForm
	if err := bindForm(c, &form); err != nil {
		middleware.Fail(c, err)
		return
	}
	user := middleware.CurrentUser(c)

	listing, err := h.listingService.CreateListing(c.Request.Context(), user.ID, form.input(), h.upload(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	log.Printf("Listing %s created", listing.ID.Hex())
	middleware.Flash(c, sessions.FlashSuccess, "New listing created!")
	c.Redirect(http.StatusFound, "/listings")
}

// Edit handles GET /listings/:id/edit. RequireListingOwner has loaded the listing.
func (h *ListingHandler) Edit(c *gin.Context) {
	listing := middleware.GuardedListing(c)
	middleware.RenderPage(c, http.StatusOK, "listing_edit.tmpl", gin.H{
		"title":        "Edit " + listing.Title,
		"listing":      listing,
		"thumbnailURL": h.imageStorage.ThumbnailURL(listing.Image),
	})
}

// Update handles PUT /listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	listing := middleware.GuardedListing(c)
	var form listingUpdateForm
	if err := bindForm(c, &form); err != nil {
		middleware.Fail(c, err)
		return
	}

	_, err := h.listingService.UpdateListing(c.Request.Context(), listing.ID, form.patch(), h.upload(c))
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			listingNotFound(c)
			return
		}
		middleware.Fail(c, err)
		return
	}

	middleware.Flash(c, sessions.FlashSuccess, "Listing updated successfully!")
	c.Redirect(http.StatusFound, "/listings/"+listing.ID.Hex())
}

// Delete handles DELETE /listings/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	listing := middleware.GuardedListing(c)
	if err := h.listingService.DeleteListing(c.Request.Context(), listing.ID); err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			listingNotFound(c)
			return
		}
		middleware.Fail(c, err)
		return
	}

	middleware.Flash(c, sessions.FlashSuccess, "Listing deleted successfully!")
	c.Redirect(http.StatusFound, "/listings")
}

// upload returns the submitted image, or nil when the form has none.
func (h *ListingHandler) upload(c *gin.Context) *storage.Upload {
	fh, err := c.FormFile(listingImageField)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			log.Printf("Ignoring unreadable image upload: %v", err)
		}
		return nil
	}
	if fh.Size == 0 {
		return nil
	}
	return storage.FromFileHeader(fh)
}

func listingNotFound(c *gin.Context) {
	middleware.Flash(c, sessions.FlashError, middleware.MsgListingNotFound)
	c.Redirect(http.StatusFound, "/listings")
	c.Abort()
}

