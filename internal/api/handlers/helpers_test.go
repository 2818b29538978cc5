package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ishanKurnal/WanderLust/internal/api"
	"github.com/ishanKurnal/WanderLust/internal/auth"
	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/models"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

type testApp struct {
	t        *testing.T
	handler  http.Handler
	store    *sessions.MemoryStore
	users    *MockUserService
	listings *MockListingService
	reviews  *MockReviewService
	images   *MockImageStorage
	cookie   *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	cfg := &config.Config{
		SessionSecret:     testSecret,
		SessionTTL:        time.Hour,
		SessionCookieName: "session",
		ImageMaxSizeMB:    1,
	}
	app := &testApp{
		t:        t,
		store:    sessions.NewMemoryStore(),
		users:    new(MockUserService),
		listings: new(MockListingService),
		reviews:  new(MockReviewService),
		images:   new(MockImageStorage),
	}
	app.handler = api.NewHandler(cfg, api.Dependencies{
		Users:        app.users,
		Listings:     app.listings,
		Reviews:      app.reviews,
		Images:       app.images,
		SessionStore: app.store,
	})
	return app
}

// signIn stores a signed-in session for user and uses it for later requests.
func (a *testApp) signIn(user *models.User) {
	a.t.Helper()
	a.users.On("FindByID", mock.Anything, user.ID).Return(user, nil).Maybe()
	id := "sid-" + user.ID.Hex()
	require.NoError(a.t, a.store.Save(context.Background(), id, sessions.Data{UserID: user.ID.Hex()}, time.Hour))
	token, err := auth.SignSessionID(id, testSecret, time.Hour)
	require.NoError(a.t, err)
	a.cookie = &http.Cookie{Name: "session", Value: token}
}

// do sends a request with the current session cookie and keeps whatever
// session cookie the response sets, like a browser would.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			a.cookie = c
		}
	}
	return w
}

func (a *testApp) get(target string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	return a.do(req)
}

func (a *testApp) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) postMultipart(target string, fields map[string]string, fileField, fileName string, content []byte) *httptest.ResponseRecorder {
	a.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(a.t, err)
		_, err = io.Copy(fw, bytes.NewReader(content))
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

// session returns the data of the session the app is currently using.
func (a *testApp) session() sessions.Data {
	a.t.Helper()
	require.NotNil(a.t, a.cookie, "no session cookie yet")
	id, err := auth.ParseSessionID(a.cookie.Value, testSecret)
	require.NoError(a.t, err)
	data, err := a.store.Load(context.Background(), id)
	require.NoError(a.t, err)
	if data == nil {
		return sessions.Data{}
	}
	return *data
}

func testUser(name string) *models.User {
	return &models.User{Base: models.NewBase(), Username: name, Email: name + "@example.com"}
}
