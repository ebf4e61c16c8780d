package storefront

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Session is the signed-in identity. Email and admin flag are derived
// from the token payload, which is decoded but not verified here.
type Session struct {
	Token   string `json:"token"`
	Email   string `json:"-"`
	IsAdmin bool   `json:"-"`
}

var errBadToken = errors.New("token payload is not readable")

func NewSession(token string) (*Session, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errBadToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errBadToken
	}
	var claims struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Email == "" {
		return nil, errBadToken
	}
	return &Session{Token: token, Email: claims.Email, IsAdmin: claims.IsAdmin}, nil
}
