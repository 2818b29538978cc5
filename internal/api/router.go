package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/api/handlers"
	"github.com/ishanKurnal/WanderLust/internal/api/middleware"
	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/storage"
	"github.com/ishanKurnal/WanderLust/internal/views"
)

// Dependencies are the process-wide collaborators the routes need.
type Dependencies struct {
	Users        services.IUserService
	Listings     services.IListingService
	Reviews      services.IReviewService
	Images       storage.IImageStorage
	SessionStore sessions.Store
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	r.MaxMultipartMemory = int64(cfg.ImageMaxSizeMB+1) << 20

	// Apply global middleware first (order matters)
	r.Use(gin.Logger())
	r.Use(middleware.NewSessionManager(deps.SessionStore, cfg).Middleware())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.LoadCurrentUser(deps.Users))

	listingHandler := handlers.NewListingHandler(deps.Listings, deps.Images)
	reviewHandler := handlers.NewReviewHandler(deps.Reviews)
	userHandler := handlers.NewUserHandler(deps.Users)

	requireAuth := middleware.RequireAuth()
	requireOwner := middleware.RequireListingOwner(deps.Listings)
	requireAuthor := middleware.RequireReviewAuthor(deps.Reviews)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/listings")
	})

	listings := r.Group("/listings")
	{
		listings.GET("", listingHandler.Index)
		listings.GET("/new", requireAuth, listingHandler.New)
		listings.POST("", requireAuth, listingHandler.Create)
		listings.GET("/:id", listingHandler.Show)
		listings.GET("/:id/edit", requireAuth, requireOwner, listingHandler.Edit)
		listings.PUT("/:id", requireAuth, requireOwner, listingHandler.Update)
		listings.DELETE("/:id", requireAuth, requireOwner, listingHandler.Delete)

		listings.POST("/:id/reviews", requireAuth, reviewHandler.Create)
		listings.DELETE("/:id/reviews/:reviewId", requireAuth, requireAuthor, reviewHandler.Delete)
	}

	r.GET("/signup", userHandler.SignupForm)
	r.POST("/signup", userHandler.Signup)
	r.GET("/login", userHandler.LoginForm)
	r.POST("/login", userHandler.Login)
	r.GET("/logout", userHandler.Logout)

	r.NoRoute(middleware.NotFound)

	return r
}

// NewHandler wraps the router with the form method override, which must see
// the request before gin picks a route.
func NewHandler(cfg *config.Config, deps Dependencies) http.Handler {
	return middleware.MethodOverride(SetupRouter(cfg, deps))
}
