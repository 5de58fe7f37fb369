package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// LoginPath is where unauthorized route decisions redirect.
const LoginPath = "/login"

// Session is the single named slot holding the current bearer token, the
// file-backed analogue of the browser's localStorage entry. Login and Logout
// are the only operations that mutate it; authenticated calls read it.
type Session struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user,omitempty"`

	path string
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DefaultSessionPath returns $HOME/.appointment-manager/session.json.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".appointment-manager", "session.json"), nil
}

// LoadSession reads a stored session. A missing file is not an error: it
// yields an empty, unauthenticated session bound to the same path.
func LoadSession(path string) (*Session, error) {
	session := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return session, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Session) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// SetCredentials records a fresh token after login or signup and persists it.
func (s *Session) SetCredentials(token string, user *UserInfo) error {
	s.Token = token
	s.User = user
	return s.Save()
}

// Logout clears the token slot and removes the session file.
func (s *Session) Logout() error {
	s.Token = ""
	s.User = nil
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// IsAuthenticated is the sole gate for protected views: a non-empty token.
func (s *Session) IsAuthenticated() bool {
	return s.Token != ""
}

// RouteDecision is the outcome of the capability check at the composition
// boundary: either the protected view proceeds, or the caller redirects.
type RouteDecision struct {
	Authorized bool
	RedirectTo string
}

func Authorize(s *Session) RouteDecision {
	if s.IsAuthenticated() {
		return RouteDecision{Authorized: true}
	}
	return RouteDecision{Authorized: false, RedirectTo: LoginPath}
}
