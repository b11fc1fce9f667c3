// Package session wraps gorilla/sessions with the two things the portal
// stores in its cookie: the authenticated employee and one-shot flash
// notices. The cookie is the only state this application keeps.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/csg33k/training-portal/internal/domain"
)

const cookieName = "training_portal"

// Flash is a one-shot notice rendered on the next page view.
// Level is one of "success", "danger", "info".
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(domain.Employee{})
	gob.Register(Flash{})
}

type Manager struct {
	store *sessions.CookieStore
}

func NewManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// Current returns the logged-in employee, or nil when the request is
// anonymous or the cookie cannot be decoded.
func (m *Manager) Current(r *http.Request) *domain.Employee {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		return nil
	}
	e, ok := s.Values["employee"].(domain.Employee)
	if !ok {
		return nil
	}
	return &e
}

// SetCurrent stores the employee in the session cookie, replacing any
// previous login.
func (m *Manager) SetCurrent(w http.ResponseWriter, r *http.Request, e domain.Employee) error {
	s, _ := m.store.Get(r, cookieName)
	s.Values["employee"] = e
	return s.Save(r, w)
}

// Clear drops the whole session: login and any pending flashes.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	s, _ := m.store.Get(r, cookieName)
	s.Values = map[any]any{}
	s.Options.MaxAge = -1
	_ = s.Save(r, w)
}

// AddFlash queues a notice for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	s, _ := m.store.Get(r, cookieName)
	s.AddFlash(Flash{Level: level, Message: message})
	_ = s.Save(r, w)
}

// Flashes pops all pending notices.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)
	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(Flash); ok {
			out = append(out, fl)
		}
	}
	return out
}
