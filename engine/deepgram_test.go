package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
)

const deepgramFinalResult = `{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"hello world"}]}}`

// deepgramStub runs a websocket server that drains the audio stream,
// then hands the connection to respond once the client has sent
// CloseStream.
func deepgramStub(t *testing.T, respond func(ctx context.Context, c *websocket.Conn)) *Deepgram {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		for {
			typ, data, err := c.Read(r.Context())
			if err != nil {
				return
			}
			if typ == websocket.MessageText && strings.Contains(string(data), "CloseStream") {
				break
			}
		}
		respond(r.Context(), c)
	}))
	t.Cleanup(srv.Close)

	d := NewDeepgram("test-key", Config{SampleRate: 16000, Timeout: 5 * time.Second})
	d.listenURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return d
}

func TestDeepgramStreamReturnsTranscript(t *testing.T) {
	d := deepgramStub(t, func(ctx context.Context, c *websocket.Conn) {
		c.Write(ctx, websocket.MessageText, []byte(deepgramFinalResult))
		c.Close(websocket.StatusNormalClosure, "")
	})

	var hyps []string
	got, err := d.TranscribeStream(context.Background(), make([]byte, 6400), func(h string) {
		hyps = append(hyps, h)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello world" {
		t.Errorf("transcript = %q, want %q", got, "hello world")
	}
	if len(hyps) != 1 || hyps[0] != "hello world" {
		t.Errorf("hypotheses = %v", hyps)
	}
}

func TestDeepgramStreamAbnormalCloseIsAnError(t *testing.T) {
	d := deepgramStub(t, func(ctx context.Context, c *websocket.Conn) {
		c.Write(ctx, websocket.MessageText, []byte(deepgramFinalResult))
		c.Close(websocket.StatusInternalError, "upstream gone")
	})

	// A dropped stream must surface as an error, not as a truncated
	// transcript that looks complete.
	if got, err := d.TranscribeStream(context.Background(), make([]byte, 6400), nil); err == nil {
		t.Fatalf("mid-stream failure returned %q with nil error", got)
	}
}
