// Package storefront holds client-side application state: the signed-in
// session, the cart and catalog browsing. Persistence is explicit: Load
// once at start, Save after each mutation.
package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type State struct {
	path    string
	session *Session
	Cart    Cart
}

type persisted struct {
	Token string `json:"token,omitempty"`
	Cart  Cart   `json:"cart"`
}

// Load reads state from path. A missing file yields empty state; a
// stored token whose payload cannot be read is discarded.
func Load(path string) (*State, error) {
	s := &State{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Warn("State file is corrupt, starting empty", "path", path, "error", err)
		return s, nil
	}
	s.Cart = p.Cart
	if p.Token != "" {
		session, err := NewSession(p.Token)
		if err != nil {
			slog.Warn("Discarding stored token", "error", err)
		} else {
			s.session = session
		}
	}
	return s, nil
}

func (s *State) Save() error {
	p := persisted{Cart: s.Cart}
	if s.session != nil {
		p.Token = s.session.Token
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Session returns nil when signed out.
func (s *State) Session() *Session { return s.session }

func (s *State) SignIn(token string) error {
	session, err := NewSession(token)
	if err != nil {
		return err
	}
	s.session = session
	return nil
}

func (s *State) SignOut() { s.session = nil }
