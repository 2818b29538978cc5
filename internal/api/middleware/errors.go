package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/storage"
)

// DefaultErrorMessage is shown for failures that carry no user-facing message.
const DefaultErrorMessage = "Something went wrong!"

// HTTPError is an error with the status and message to show the visitor.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Fail records err for ErrorHandler and stops the handler chain. It does not
// write a response.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// StatusFor maps an error to the status code and message rendered for it.
func StatusFor(err error) (int, string) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status, httpErr.Message
	case errors.Is(err, services.ErrLocationNotFound):
		return http.StatusBadRequest, "Location could not be found on the map, please enter a different location"
	case errors.Is(err, services.ErrInvalidFilter):
		return http.StatusBadRequest, "Search field must be one of title, description, location, country, category"
	case errors.Is(err, storage.ErrUnsupportedImage), errors.Is(err, storage.ErrImageTooLarge):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrExternalProvider):
		return http.StatusBadGateway, "The map service is unavailable, please try again later"
	case errors.Is(err, storage.ErrStorage):
		return http.StatusBadGateway, "The image service is unavailable, please try again later"
	case errors.Is(err, services.ErrListingNotFound), errors.Is(err, services.ErrReviewNotFound), errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "Page not found!"
	default:
		return http.StatusInternalServerError, DefaultErrorMessage
	}
}

// ErrorHandler renders the error view for the last error recorded with Fail
// when the handler chain wrote no response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, message := StatusFor(err)
		if status >= http.StatusInternalServerError {
			log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		RenderPage(c, status, "error.tmpl", gin.H{"status": status, "message": message})
	}
}

// NotFound is the NoRoute handler.
func NotFound(c *gin.Context) {
	Fail(c, NewHTTPError(http.StatusNotFound, "Page not found!"))
}

// Recovery turns a panic into the generic error view.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Recovered from panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		if !c.Writer.Written() {
			RenderPage(c, http.StatusInternalServerError, "error.tmpl", gin.H{
				"status":  http.StatusInternalServerError,
				"message": DefaultErrorMessage,
			})
		}
		c.Abort()
	})
}
