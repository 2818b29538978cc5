package services

import "errors"

var (
	// ErrListingNotFound is returned when no listing has the requested id.
	ErrListingNotFound = errors.New("listing not found")
	// ErrReviewNotFound is returned when no review has the requested id.
	ErrReviewNotFound = errors.New("review not found")
	// ErrUserNotFound is returned when no user has the requested id or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned on signup with a username already registered.
	ErrUsernameTaken = errors.New("a user with the given username is already registered")
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("password or username is incorrect")
	// ErrLocationNotFound is returned when the geocoder has no match for a listing location.
	ErrLocationNotFound = errors.New("location could not be found on the map")
	// ErrExternalProvider wraps geocoding failures other than "no match".
	ErrExternalProvider = errors.New("external provider unavailable")
	// ErrInvalidFilter is returned for an unsupported search field.
	ErrInvalidFilter = errors.New("invalid search field")
)
