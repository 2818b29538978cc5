package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/utils"
)

// ContextKeyUser holds the signed-in *models.User.
const ContextKeyUser = "currUser"

// LoadCurrentUser resolves the session's user id into a user. A session
// pointing at a user that no longer exists is signed out.
func LoadCurrentUser(users services.IUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := Session(c)
		if sess == nil || !sess.IsAuthenticated() {
			c.Next()
			return
		}

		userID, err := utils.ParseObjectID(sess.UserID())
		if err != nil {
			sess.Logout()
			c.Next()
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				log.Printf("Session user %s no longer exists, signing out", userID.Hex())
				sess.Logout()
				c.Next()
				return
			}
			Fail(c, err)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser returns the signed-in user, or nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextKeyUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireAuth sends anonymous visitors to the login page, remembering where
// they were headed.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		if sess := Session(c); sess != nil {
			sess.SetRedirectURL(intendedDestination(c.Request))
			sess.AddFlash(sessions.FlashError, "You must be logged in to do that!")
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// intendedDestination is the page to return to after login. Only GET
// requests can be replayed; anything else returns to the page that
// submitted it.
func intendedDestination(r *http.Request) string {
	if r.Method == http.MethodGet {
		return r.URL.RequestURI()
	}
	path := r.URL.Path
	if i := strings.Index(path, "/reviews"); i > 0 {
		return path[:i]
	}
	if strings.TrimRight(path, "/") == "/listings" {
		return "/listings/new"
	}
	return path
}
