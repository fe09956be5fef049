// Package tokenshelf keeps the Google tokens obtained at exchange time for
// the lifetime of the process. It is deliberately not a session store:
// nothing is persisted, and losing the shelf only disconnects the Google
// Workspace routes until the user logs in again.
package tokenshelf

import (
	"sync"

	"golang.org/x/oauth2"
)

// Shelf maps a Google subject id to the tokens obtained for it
type Shelf struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

func New() *Shelf {
	return &Shelf{
		tokens: make(map[string]*oauth2.Token),
	}
}

// Put stores the tokens for a subject, replacing any previous entry
func (s *Shelf) Put(subject string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[subject] = token
}

// Get returns the tokens for a subject, or nil when none are held
func (s *Shelf) Get(subject string) *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[subject]
}

// Has reports whether tokens are held for a subject
func (s *Shelf) Has(subject string) bool {
	return s.Get(subject) != nil
}

// Drop removes the tokens for a subject
func (s *Shelf) Drop(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, subject)
}
