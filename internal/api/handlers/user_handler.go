package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/api/middleware"
	"github.com/ishanKurnal/WanderLust/internal/auth"
	"github.com/ishanKurnal/WanderLust/internal/db"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
)

const defaultRedirect = "/listings"

// UserHandler serves signup, login and logout.
type UserHandler struct {
	userService services.IUserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.IUserService) *UserHandler {
	RegisterValidators()
	return &UserHandler{userService: userService}
}

// SignupForm handles GET /signup.
func (h *UserHandler) SignupForm(c *gin.Context) {
	rememberRedirect(c)
	middleware.RenderPage(c, http.StatusOK, "user_signup.tmpl", gin.H{"title": "Sign up"})
}

// Signup handles POST /signup. The new user is signed in straight away.
func (h *UserHandler) Signup(c *gin.Context) {
	var form signupForm
	if err := bindForm(c, &form); err != nil {
		_, message := middleware.StatusFor(err)
		redirectWithError(c, message, "/signup")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			redirectWithError(c, "A user with the given username is already registered", "/signup")
			return
		}
		if errors.Is(err, auth.ErrPasswordTooLong) {
			redirectWithError(c, "Password must be at most 72 bytes long", "/signup")
			return
		}
		if db.IsTransientError(err) || c.Request.Context().Err() != nil {
			middleware.Fail(c, err)
			return
		}
		log.Printf("Signup for %q failed: %v", form.Username, err)
		redirectWithError(c, err.Error(), "/signup")
		return
	}

	signIn(c, user.ID.Hex())
	log.Printf("User %s signed up", user.ID.Hex())
	middleware.Flash(c, sessions.FlashSuccess, "Welcome to WanderLust!")
	c.Redirect(http.StatusFound, middleware.Session(c).PopRedirectURL(defaultRedirect))
}

// LoginForm handles GET /login.
func (h *UserHandler) LoginForm(c *gin.Context) {
	rememberRedirect(c)
	middleware.RenderPage(c, http.StatusOK, "user_login.tmpl", gin.H{"title": "Log in"})
}

// Login handles POST /login.
func (h *UserHandler) Login(c *gin.Context) {
	var form loginForm
	if err := bindForm(c, &form); err != nil {
		redirectWithError(c, "Password or username is incorrect", "/login")
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			redirectWithError(c, "Password or username is incorrect", "/login")
			return
		}
		middleware.Fail(c, err)
		return
	}

	signIn(c, user.ID.Hex())
	middleware.Flash(c, sessions.FlashSuccess, "Welcome back to WanderLust!")
	c.Redirect(http.StatusFound, middleware.Session(c).PopRedirectURL(defaultRedirect))
}

// Logout handles GET /logout. It succeeds for anonymous visitors too.
func (h *UserHandler) Logout(c *gin.Context) {
	if sess := middleware.Session(c); sess != nil && sess.IsAuthenticated() {
		sess.Logout()
		middleware.RenewSession(c)
	}
	middleware.Flash(c, sessions.FlashSuccess, "You are logged out!")
	c.Redirect(http.StatusFound, defaultRedirect)
}

// signIn moves the visitor to a fresh session id and records the identity.
func signIn(c *gin.Context, userID string) {
	middleware.RenewSession(c)
	middleware.Session(c).Login(userID)
}

// rememberRedirect stores ?redirectUrl= as the post-login destination when it
// points back into this site.
func rememberRedirect(c *gin.Context) {
	target := c.Query("redirectUrl")
	if !isLocalPath(target) {
		return
	}
	if sess := middleware.Session(c); sess != nil {
		sess.SetRedirectURL(target)
	}
}

func isLocalPath(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\")
}

func redirectWithError(c *gin.Context, message, location string) {
	middleware.Flash(c, sessions.FlashError, message)
	c.Redirect(http.StatusFound, location)
}
