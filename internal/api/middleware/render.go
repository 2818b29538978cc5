package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/sessions"
)

// RenderPage renders a template with the signed-in user and the pending
// flash messages added to data. Rendering consumes the flashes.
func RenderPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user := CurrentUser(c); user != nil {
		data["currUser"] = user
	}
	if sess := Session(c); sess != nil {
		data["flashSuccess"] = sess.Flashes(sessions.FlashSuccess)
		data["flashError"] = sess.Flashes(sessions.FlashError)
	}
	c.HTML(status, name, data)
}

// Flash queues a message on the visitor's session.
func Flash(c *gin.Context, kind, message string) {
	if sess := Session(c); sess != nil {
		sess.AddFlash(kind, message)
	}
}
