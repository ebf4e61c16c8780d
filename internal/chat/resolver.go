package chat

import (
	"context"
	"errors"
	"log/slog"
)

type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Resolver tries the local script, then the remote responder. Remote may
// be nil when no completion key is configured.
type Resolver struct {
	Local   Responder
	Remote  Responder
	Apology string
}

func (r *Resolver) Resolve(ctx context.Context, text string) string {
	reply, err := r.Local.Respond(ctx, text)
	if err == nil {
		return reply
	}
	if !errors.Is(err, ErrNoMatch) {
		slog.Warn("Scripted chat reply failed", "error", err)
		return r.Apology
	}
	if r.Remote == nil {
		return r.Apology
	}
	reply, err = r.Remote.Respond(ctx, text)
	if err != nil {
		slog.Warn("Remote chat reply failed", "error", err)
		return r.Apology
	}
	return reply
}
