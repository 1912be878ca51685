// Package session implements cookie-keyed, file-backed browser sessions.
//
// A Session is an explicit handle: handlers obtain it from the Manager (via
// the session middleware), pass it by pointer to whatever needs to read or
// change it, and hand it back to Manager.Save or Manager.Destroy.
//
// Lifecycle:
//
//	Anonymous --Authenticate+Save--> Authenticated --Destroy--> Anonymous
//
// An anonymous session is never written to disk and sets no cookie.
package session

import (
	"book-catalog/internal/models"
)

type Session struct {
	record   models.SessionRecord
	stored   bool
	modified bool
}

func newSession() *Session {
	return &Session{}
}

// ID is empty until the session has been saved once.
func (s *Session) ID() string { return s.record.ID }

func (s *Session) IsAuthenticated() bool { return s.record.IsAuthenticated }

// User returns the authenticated username, or "" for anonymous sessions.
func (s *Session) User() string { return s.record.User }

// IsNew reports whether the session has no persisted record yet.
func (s *Session) IsNew() bool { return !s.stored }

// Authenticate marks the session as logged in as username.
func (s *Session) Authenticate(username string) {
	s.record.IsAuthenticated = true
	s.record.User = username
	s.modified = true
}

// reset returns the handle to the anonymous, unsaved state.
func (s *Session) reset() {
	*s = Session{}
}

// Anonymous returns a fresh, unsaved session handle.
func Anonymous() *Session {
	return newSession()
}
