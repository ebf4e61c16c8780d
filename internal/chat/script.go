package chat

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed script.yaml
var defaultScript []byte

// ErrNoMatch means a responder has nothing to say about the text.
var ErrNoMatch = errors.New("no scripted reply")

type Rule struct {
	Phrases []string `yaml:"phrases"`
	Reply   string   `yaml:"reply"`
}

// Script is a fixed phrase table. The first rule with a phrase contained
// in the lower-cased message wins.
type Script struct {
	Greeting string `yaml:"greeting"`
	Apology  string `yaml:"apology"`
	Rules    []Rule `yaml:"rules"`
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse chat script: %w", err)
	}
	if s.Apology == "" {
		return nil, errors.New("chat script has no apology")
	}
	for i, r := range s.Rules {
		if r.Reply == "" || len(r.Phrases) == 0 {
			return nil, fmt.Errorf("chat script rule %d needs phrases and a reply", i)
		}
		for j, p := range r.Phrases {
			s.Rules[i].Phrases[j] = strings.ToLower(p)
		}
	}
	return &s, nil
}

// DefaultScript is the table shipped with the binary.
func DefaultScript() *Script {
	s, err := ParseScript(defaultScript)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Script) Respond(_ context.Context, text string) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return "", ErrNoMatch
	}
	for _, r := range s.Rules {
		for _, p := range r.Phrases {
			if strings.Contains(msg, p) {
				return r.Reply, nil
			}
		}
	}
	return "", ErrNoMatch
}
