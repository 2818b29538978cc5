package handlers_test

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/storage"
)

func validListingForm() url.Values {
	return url.Values{
		"listing[title]":       {"Cozy Beachfront Cottage"},
		"listing[description]": {"Sea views"},
		"listing[price]":       {"1500"},
		"listing[location]":    {"Malibu"},
		"listing[country]":     {"United States"},
		"listing[category]":    {"Trending"},
	}
}

func TestListingHandler_Index(t *testing.T) {
	app := newTestApp(t)
	listings := []models.Listing{
		{ID: primitive.NewObjectID(), Title: "Mountain Retreat", Price: 150000, Image: models.Image{}.Normalize("")},
	}
	app.listings.On("ListListings", mock.Anything, services.ListingFilter{Category: "Mountains", Query: "retreat"}).Return(listings, nil).Once()

	w := app.get("/listings?category=Mountains&q=retreat")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mountain Retreat")
	assert.Contains(t, w.Body.String(), "1,50,000")
	app.listings.AssertExpectations(t)
}

func TestListingHandler_IndexInvalidField(t *testing.T) {
	app := newTestApp(t)
	app.listings.On("ListListings", mock.Anything, services.ListingFilter{Query: "x", Field: "owner"}).Return(nil, services.ErrInvalidFilter)

	w := app.get("/listings?q=x&field=owner")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRootRedirectsToListings(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings", w.Header().Get("Location"))
}

func TestListingHandler_ShowMissing(t *testing.T) {
	app := newTestApp(t)
	id := primitive.NewObjectID()
	app.listings.On("GetListingDetails", mock.Anything, id).Return(nil, services.ErrListingNotFound)

	for _, target := range []string{"/listings/" + id.Hex(), "/listings/not-an-id"} {
		w := app.get(target)
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, "/listings", w.Header().Get("Location"), target)
	}
	assert.Equal(t, []string{
		"Listing you requested for doesn't exist!",
		"Listing you requested for doesn't exist!",
	}, app.session().Flashes[sessions.FlashError])
}

func TestListingHandler_ShowRendersOwnerAndReviews(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	guest := testUser("guest")
	rating := 5
	details := &models.ListingDetails{
		Listing: models.Listing{
			ID: primitive.NewObjectID(), Title: "Treehouse", OwnerID: owner.ID,
			Image: models.Image{}.Normalize(""), Geometry: models.NewPoint(12.9, 77.6),
		},
		Owner: owner,
		Reviews: []models.ReviewDetails{
			{Review: models.Review{ID: primitive.NewObjectID(), Comment: "Magical stay", Rating: &rating, AuthorID: guest.ID}, Author: guest},
		},
	}
	app.listings.On("GetListingDetails", mock.Anything, details.ID).Return(details, nil)
	app.signIn(owner)

	w := app.get("/listings/" + details.ID.Hex())

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Treehouse")
	assert.Contains(t, body, "Magical stay")
	assert.Contains(t, body, "@guest")
	assert.Contains(t, body, "/listings/"+details.ID.Hex()+"/edit")
}

func TestListingHandler_NewRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/listings/new")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "/listings/new", app.session().RedirectURL)
}

func TestListingHandler_CreateValidation(t *testing.T) {
	app := newTestApp(t)
	app.signIn(testUser("owner"))

	form := validListingForm()
	form.Del("listing[title]")
	form.Del("listing[price]")
	w := app.postForm("/listings", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required, Price is required")
	app.listings.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListingHandler_CreateRejectsNegativePrice(t *testing.T) {
	app := newTestApp(t)
	app.signIn(testUser("owner"))

	form := validListingForm()
	form.Set("listing[price]", "-5")
	w := app.postForm("/listings", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Price must be greater than or equal to 0")
}

func TestListingHandler_Create(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	app.signIn(owner)

	want := services.ListingInput{
		Title: "Cozy Beachfront Cottage", Description: "Sea views", Price: 1500,
		Location: "Malibu", Country: "United States", Category: "Trending",
	}
	app.listings.On("CreateListing", mock.Anything, owner.ID, want, (*storage.Upload)(nil)).
		Return(&models.Listing{ID: primitive.NewObjectID()}, nil).Once()

	w := app.postForm("/listings", validListingForm())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings", w.Header().Get("Location"))
	assert.Equal(t, []string{"New listing created!"}, app.session().Flashes[sessions.FlashSuccess])
	app.listings.AssertExpectations(t)
}

func TestListingHandler_CreateWithImage(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	app.signIn(owner)

	app.listings.On("CreateListing", mock.Anything, owner.ID, mock.Anything,
		mock.MatchedBy(func(u *storage.Upload) bool { return u != nil && u.Filename == "photo.jpg" && u.Size == 4 })).
		Return(&models.Listing{ID: primitive.NewObjectID()}, nil).Once()

	fields := map[string]string{}
	for k, v := range validListingForm() {
		fields[k] = v[0]
	}
	w := app.postMultipart("/listings", fields, "listing[image]", "photo.jpg", []byte("jpeg"))

	assert.Equal(t, http.StatusFound, w.Code)
	app.listings.AssertExpectations(t)
}

func TestListingHandler_CreateUnresolvableLocation(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	app.signIn(owner)
	app.listings.On("CreateListing", mock.Anything, owner.ID, mock.Anything, mock.Anything).
		Return(nil, services.ErrLocationNotFound)

	form := validListingForm()
	form.Set("listing[location]", "Nowhereville-ZZZ")
	w := app.postForm("/listings", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Location could not be found")
	assert.Empty(t, app.session().Flashes[sessions.FlashSuccess])
}

func TestListingHandler_UpdateByNonOwnerIsDenied(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	other := testUser("other")
	listing := &models.Listing{ID: primitive.NewObjectID(), Title: "Loft", OwnerID: owner.ID}
	app.listings.On("FindListingByID", mock.Anything, listing.ID).Return(listing, nil)
	app.signIn(other)

	w := app.postForm("/listings/"+listing.ID.Hex()+"?_method=PUT", url.Values{"listing[title]": {"Hijacked"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings/"+listing.ID.Hex(), w.Header().Get("Location"))
	assert.Equal(t, []string{"You are not the owner of this listing!"}, app.session().Flashes[sessions.FlashError])
	app.listings.AssertNotCalled(t, "UpdateListing", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListingHandler_UpdateAppliesOnlySubmittedFields(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	listing := &models.Listing{ID: primitive.NewObjectID(), Title: "Loft", OwnerID: owner.ID}
	app.listings.On("FindListingByID", mock.Anything, listing.ID).Return(listing, nil)
	app.signIn(owner)

	price := 2000.0
	app.listings.On("UpdateListing", mock.Anything, listing.ID, services.ListingPatch{Price: &price}, (*storage.Upload)(nil)).
		Return(listing, nil).Once()

	w := app.postForm("/listings/"+listing.ID.Hex()+"?_method=PUT", url.Values{"listing[price]": {"2000"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings/"+listing.ID.Hex(), w.Header().Get("Location"))
	app.listings.AssertExpectations(t)
}

func TestListingHandler_UpdateValidation(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	listing := &models.Listing{ID: primitive.NewObjectID(), Title: "Loft", OwnerID: owner.ID}
	app.listings.On("FindListingByID", mock.Anything, listing.ID).Return(listing, nil)
	app.signIn(owner)

	w := app.postForm("/listings/"+listing.ID.Hex()+"?_method=PUT", url.Values{
		"listing[title]": {""},
		"listing[price]": {"cheap"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is not allowed to be empty, Price must be a number")
}

func TestListingHandler_Edit(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	listing := &models.Listing{
		ID: primitive.NewObjectID(), Title: "Loft", OwnerID: owner.ID,
		Image: models.Image{Filename: "wanderlust/o/k.png", URL: "https://cdn/wanderlust/o/k.png"},
	}
	app.listings.On("FindListingByID", mock.Anything, listing.ID).Return(listing, nil)
	app.images.On("ThumbnailURL", listing.Image).Return("https://cdn/thumbs/wanderlust/o/k.jpg")
	app.signIn(owner)

	w := app.get("/listings/" + listing.ID.Hex() + "/edit")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://cdn/thumbs/wanderlust/o/k.jpg")
}

func TestListingHandler_EditFormRoundTripsLargePrice(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	listing := &models.Listing{ID: primitive.NewObjectID(), Title: "Palace", Price: 1500000, OwnerID: owner.ID}
	app.listings.On("FindListingByID", mock.Anything, listing.ID).Return(listing, nil)
	app.images.On("ThumbnailURL", listing.Image).Return("")
	app.signIn(owner)

	w := app.get("/listings/" + listing.ID.Hex() + "/edit")
	require.Equal(t, http.StatusOK, w.Code)
	match := regexp.MustCompile(`name="listing\[price\]" value="([^"]*)"`).FindStringSubmatch(w.Body.String())
	require.Len(t, match, 2)
	assert.Equal(t, "1500000", match[1])

	price := 1500000.0
	app.listings.On("UpdateListing", mock.Anything, listing.ID, services.ListingPatch{Price: &price}, (*storage.Upload)(nil)).
		Return(listing, nil).Once()

	w = app.postForm("/listings/"+listing.ID.Hex()+"?_method=PUT", url.Values{"listing[price]": {match[1]}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings/"+listing.ID.Hex(), w.Header().Get("Location"))
	app.listings.AssertExpectations(t)
}

func TestListingHandler_Delete(t *testing.T) {
	app := newTestApp(t)
	owner := testUser("owner")
	listing := &models.Listing{ID: primitive.NewObjectID(), Title: "Loft", OwnerID: owner.ID}
	app.listings.On("FindListingByID", mock.Anything, listing.ID).Return(listing, nil)
	app.listings.On("DeleteListing", mock.Anything, listing.ID).Return(nil).Once()
	app.signIn(owner)

	w := app.postForm("/listings/"+listing.ID.Hex()+"?_method=DELETE", url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings", w.Header().Get("Location"))
	assert.Equal(t, []string{"Listing deleted successfully!"}, app.session().Flashes[sessions.FlashSuccess])
	app.listings.AssertExpectations(t)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found!")
}
