package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDefaultScriptLoads(t *testing.T) {
	s := DefaultScript()
	assert.NotEmpty(t, s.Greeting)
	assert.NotEmpty(t, s.Apology)
	assert.NotEmpty(t, s.Rules)
}

func TestScriptRespond(t *testing.T) {
	s, err := ParseScript([]byte(`
apology: sorry
rules:
  - phrases: ["Delivery"]
    reply: ships soon
  - phrases: ["deliver", "return"]
    reply: second
`))
	require.NoError(t, err)

	reply, err := s.Respond(context.Background(), "  How long does DELIVERY take? ")
	require.NoError(t, err)
	assert.Equal(t, "ships soon", reply)

	reply, err = s.Respond(context.Background(), "can I return it")
	require.NoError(t, err)
	assert.Equal(t, "second", reply)

	_, err = s.Respond(context.Background(), "what is the meaning of life")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestParseScriptRejectsBadRules(t *testing.T) {
	_, err := ParseScript([]byte("rules: []"))
	assert.Error(t, err)

	_, err = ParseScript([]byte("apology: x\nrules:\n  - phrases: []\n    reply: y\n"))
	assert.Error(t, err)
}

type stubResponder struct {
	reply string
	err   error
	calls int
}

func (s *stubResponder) Respond(context.Context, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestResolver(t *testing.T) {
	tests := []struct {
		name       string
		local      *stubResponder
		remote     *stubResponder
		want       string
		wantRemote int
	}{
		{"local match", &stubResponder{reply: "local"}, &stubResponder{reply: "remote"}, "local", 0},
		{"remote fallback", &stubResponder{err: ErrNoMatch}, &stubResponder{reply: "remote"}, "remote", 1},
		{"remote fails", &stubResponder{err: ErrNoMatch}, &stubResponder{err: errors.New("down")}, "sorry", 1},
		{"local fails", &stubResponder{err: errors.New("broken")}, &stubResponder{reply: "remote"}, "sorry", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{Local: tt.local, Remote: tt.remote, Apology: "sorry"}
			assert.Equal(t, tt.want, r.Resolve(context.Background(), "hi"))
			assert.Equal(t, tt.wantRemote, tt.remote.calls)
		})
	}

	r := &Resolver{Local: &stubResponder{err: ErrNoMatch}, Apology: "sorry"}
	assert.Equal(t, "sorry", r.Resolve(context.Background(), "hi"))
}

func TestCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":" first "},"finish_reason":"stop"},
			{"index":1,"message":{"role":"assistant","content":"second"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewCompletion("key", srv.URL+"/", "m", time.Second)
	reply, err := c.Respond(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)
}

func TestCompletionNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewCompletion("key", srv.URL, "m", time.Second).Respond(context.Background(), "q")
	assert.Error(t, err)
}

func TestRelay(t *testing.T) {
	script, err := ParseScript([]byte("apology: sorry\nrules:\n  - phrases: [delivery]\n    reply: soon\n"))
	require.NoError(t, err)
	relay := NewRelay(&Resolver{Local: script, Apology: "sorry"}, "welcome")

	r := gin.New()
	r.GET("/ws", relay.Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, Frame{From: "bot", Text: "welcome"}, f)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("delivery?")))
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, "soon", f.Text)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("anything else")))
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, "sorry", f.Text)
}

// blockingResponder waits for its context to end.
type blockingResponder struct {
	started  chan struct{}
	canceled chan struct{}
}

func (b *blockingResponder) Respond(ctx context.Context, _ string) (string, error) {
	close(b.started)
	<-ctx.Done()
	close(b.canceled)
	return "", ctx.Err()
}

func TestRelayCancelsRemoteOnDisconnect(t *testing.T) {
	script, err := ParseScript([]byte("apology: sorry\nrules:\n  - phrases: [delivery]\n    reply: soon\n"))
	require.NoError(t, err)
	remote := &blockingResponder{started: make(chan struct{}), canceled: make(chan struct{})}
	relay := NewRelay(&Resolver{Local: script, Remote: remote, Apology: "sorry"}, "")

	r := gin.New()
	r.GET("/ws", relay.Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("tell me a joke")))

	select {
	case <-remote.started:
	case <-time.After(2 * time.Second):
		t.Fatal("remote responder was never called")
	}
	require.NoError(t, conn.Close())

	select {
	case <-remote.canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("remote responder not cancelled after disconnect")
	}
}
