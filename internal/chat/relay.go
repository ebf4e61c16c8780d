package chat

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 4096
	// maxQueued is how many inbound messages may wait while one is being
	// answered. The reader keeps reading meanwhile, so a close is noticed
	// during a slow completion.
	maxQueued = 8
)

// Frame is what the server writes to the socket.
type Frame struct {
	From string `json:"from,omitempty"`
	Text string `json:"text"`
}

// Relay serves one chat connection per browser tab. Messages on a
// connection are answered one at a time; nothing is remembered between
// them.
type Relay struct {
	resolver *Resolver
	greeting string
	upgrader websocket.Upgrader
}

func NewRelay(resolver *Resolver, greeting string) *Relay {
	return &Relay{
		resolver: resolver,
		greeting: greeting,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (r *Relay) Handle(c *gin.Context) {
	conn, err := r.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("Chat upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	// ctx ends when the peer goes away, cancelling any completion in flight.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.Debug("Chat connected", "ip", c.ClientIP())
	if r.greeting != "" {
		if err := conn.WriteJSON(Frame{From: "bot", Text: r.greeting}); err != nil {
			return
		}
	}

	inbox := make(chan string, maxQueued)
	go readLoop(ctx, cancel, conn, inbox)

	for text := range inbox {
		reply := r.resolver.Resolve(ctx, text)
		if ctx.Err() != nil {
			return
		}
		if err := conn.WriteJSON(Frame{From: "bot", Text: reply}); err != nil {
			slog.Debug("Chat write failed", "error", err)
			return
		}
	}
}

// readLoop is the connection's only reader. It closes inbox and cancels
// ctx when the connection fails or closes.
func readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, inbox chan<- string) {
	defer close(inbox)
	defer cancel()
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("Chat read failed", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		select {
		case inbox <- string(msg):
		case <-ctx.Done():
			return
		}
	}
}
