package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// sessionState mirrors the browser's local storage: the raw token and the
// email kept for display. Neither is verified locally.
type sessionState struct {
	Token     string `json:"token"`
	UserEmail string `json:"userEmail"`
}

// SessionFile persists the current session token in a local JSON file so it
// survives restarts. It is never synchronized with server-side revocation: a
// stale token stays here until a server call rejects it.
type SessionFile struct {
	path  string
	state sessionState
}

// DefaultSessionPath returns the per-user location of the session file.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "fittrack", "session.json"), nil
}

// OpenSessionFile loads the session at path; a missing file is an empty
// session, not an error.
func OpenSessionFile(path string) (*SessionFile, error) {
	s := &SessionFile{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		// A corrupt file behaves like a logged-out state.
		s.state = sessionState{}
	}
	return s, nil
}

func (s *SessionFile) Token() string     { return s.state.Token }
func (s *SessionFile) UserEmail() string { return s.state.UserEmail }

// LoggedIn is purely "token present": no signature or expiry check happens
// client-side.
func (s *SessionFile) LoggedIn() bool { return s.state.Token != "" }

// Set stores the token and email and writes them to disk.
func (s *SessionFile) Set(token, email string) error {
	s.state = sessionState{Token: token, UserEmail: email}
	return s.save()
}

// Clear drops the stored session.
func (s *SessionFile) Clear() error {
	s.state = sessionState{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *SessionFile) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
