package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ishanKurnal/WanderLust/internal/api/middleware"
	"github.com/ishanKurnal/WanderLust/internal/auth"
	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/views"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret:     "test-secret",
		SessionTTL:        time.Hour,
		SessionCookieName: "session",
	}
}

// newTestEngine builds an engine with the same global middleware as the app.
func newTestEngine(store sessions.Store, users *MockUserService) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	r.Use(middleware.NewSessionManager(store, testConfig()).Middleware())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.LoadCurrentUser(users))
	r.NoRoute(middleware.NotFound)
	return r
}

// signedInCookie stores a session for user and returns the cookie that selects it.
func signedInCookie(t *testing.T, store sessions.Store, user *models.User) *http.Cookie {
	t.Helper()
	data := sessions.Data{}
	if user != nil {
		data.UserID = user.ID.Hex()
	}
	require.NoError(t, store.Save(context.Background(), "sid-"+t.Name(), data, time.Hour))
	token, err := auth.SignSessionID("sid-"+t.Name(), testConfig().SessionSecret, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: "session", Value: token}
}

// sessionData loads the session selected by the last session cookie the
// response set.
func sessionData(t *testing.T, store sessions.Store, w *httptest.ResponseRecorder) *sessions.Data {
	t.Helper()
	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			token = c.Value
		}
	}
	require.NotEmpty(t, token, "no session cookie in response")
	id, err := auth.ParseSessionID(token, testConfig().SessionSecret)
	require.NoError(t, err)
	data, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	return data
}

func testUser(name string) *models.User {
	return &models.User{Base: models.NewBase(), Username: name}
}
