// Package sessions holds per-visitor server-side state: the signed-in user,
// one-shot flash messages and the page to return to after login.
package sessions

import (
	"github.com/google/uuid"
)

// Flash kinds rendered by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Data is the persisted part of a session.
type Data struct {
	UserID      string              `json:"user_id,omitempty"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	Flashes     map[string][]string `json:"flashes,omitempty"`
}

// Session is the per-request view of a visitor's session. It is not safe for
// concurrent use; each request owns its copy.
type Session struct {
	id         string
	previousID string
	data       Data
	isNew      bool
	dirty      bool
}

// New starts an empty session with a fresh random id.
func New() *Session {
	return &Session{id: newID(), isNew: true}
}

// Restore wraps data loaded from a store.
func Restore(id string, data Data) *Session {
	return &Session{id: id, data: data}
}

func newID() string {
	return uuid.NewString()
}

func (s *Session) ID() string         { return s.id }
func (s *Session) IsNew() bool        { return s.isNew }
func (s *Session) IsDirty() bool      { return s.dirty }
func (s *Session) PreviousID() string { return s.previousID }
func (s *Session) Data() Data         { return s.data }

// UserID returns the signed-in user's id, or "" for an anonymous visitor.
func (s *Session) UserID() string {
	return s.data.UserID
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.data.UserID != ""
}

// Login records userID as the signed-in identity.
func (s *Session) Login(userID string) {
	s.data.UserID = userID
	s.dirty = true
}

// Logout clears the identity. It is a no-op for anonymous sessions.
func (s *Session) Logout() {
	if s.data.UserID == "" {
		return
	}
	s.data.UserID = ""
	s.dirty = true
}

// Rotate moves the session to a new id, keeping its data. The previous id is
// remembered so the store entry can be dropped.
func (s *Session) Rotate() {
	if s.previousID == "" && !s.isNew {
		s.previousID = s.id
	}
	s.id = newID()
	s.dirty = true
}

// SetRedirectURL remembers where to send the visitor after the next login.
func (s *Session) SetRedirectURL(url string) {
	s.data.RedirectURL = url
	s.dirty = true
}

// PopRedirectURL returns the remembered destination, or fallback when none,
// and clears it.
func (s *Session) PopRedirectURL(fallback string) string {
	url := s.data.RedirectURL
	if url == "" {
		return fallback
	}
	s.data.RedirectURL = ""
	s.dirty = true
	return url
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(kind, message string) {
	if s.data.Flashes == nil {
		s.data.Flashes = make(map[string][]string)
	}
	s.data.Flashes[kind] = append(s.data.Flashes[kind], message)
	s.dirty = true
}

// Flashes returns and clears the queued messages of the given kind.
func (s *Session) Flashes(kind string) []string {
	msgs := s.data.Flashes[kind]
	if len(msgs) == 0 {
		return nil
	}
	delete(s.data.Flashes, kind)
	s.dirty = true
	return msgs
}

// MarkClean is called once the session has been persisted.
func (s *Session) MarkClean() {
	s.dirty = false
	s.isNew = false
	s.previousID = ""
}
