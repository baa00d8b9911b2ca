package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"nhooyr.io/websocket"

	"murmur/segment"
)

const (
	deepgramListenURL = "wss://api.deepgram.com/v1/listen"
	deepgramModel     = "nova-3"

	// Audio is streamed in 200 ms chunks so interim results arrive
	// while the segment is still in flight.
	streamChunkMs = 200
)

// Deepgram streams segments over the live websocket API and surfaces
// interim hypotheses as they arrive.
type Deepgram struct {
	apiKey    string
	cfg       Config
	listenURL string
}

func NewDeepgram(apiKey string, cfg Config) *Deepgram {
	return &Deepgram{apiKey: apiKey, cfg: cfg, listenURL: deepgramListenURL}
}

func (d *Deepgram) Name() string { return "deepgram" }

type deepgramResponse struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (d *Deepgram) Transcribe(ctx context.Context, seg segment.Segment) (string, error) {
	return d.TranscribeStream(ctx, seg, nil)
}

func (d *Deepgram) TranscribeStream(ctx context.Context, seg segment.Segment, hypothesis func(string)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.timeout())
	defer cancel()

	endpoint, err := url.Parse(d.listenURL)
	if err != nil {
		return "", err
	}
	q := endpoint.Query()
	q.Set("model", deepgramModel)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", fmt.Sprintf("%d", d.cfg.SampleRate))
	q.Set("channels", "1")
	q.Set("interim_results", "true")
	if d.cfg.Language != "" {
		q.Set("language", d.cfg.Language)
	}
	endpoint.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.apiKey)

	conn, _, err := websocket.Dial(ctx, endpoint.String(), &websocket.DialOptions{HTTPHeader: headers})
	if err != nil {
		return "", fmt.Errorf("deepgram dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	chunkBytes := d.cfg.SampleRate * 2 * streamChunkMs / 1000
	for off := 0; off < len(seg); off += chunkBytes {
		end := off + chunkBytes
		if end > len(seg) {
			end = len(seg)
		}
		if err := conn.Write(ctx, websocket.MessageBinary, seg[off:end]); err != nil {
			return "", fmt.Errorf("deepgram send: %w", err)
		}
	}
	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"type":"CloseStream"}`)); err != nil {
		return "", fmt.Errorf("deepgram close stream: %w", err)
	}

	var committed []string
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Server closes the socket once the stream is drained.
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.StatusNormalClosure {
				break
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			// Anything else is a dropped stream; the transcript so far
			// is incomplete and must not be reported as a success.
			return "", fmt.Errorf("deepgram read: %w", err)
		}

		var resp deepgramResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			continue
		}
		if resp.Type == "Metadata" {
			break
		}
		transcript := ""
		if len(resp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(resp.Channel.Alternatives[0].Transcript)
		}
		if transcript == "" {
			continue
		}
		if resp.IsFinal {
			committed = append(committed, transcript)
			if hypothesis != nil {
				hypothesis(strings.Join(committed, " "))
			}
		} else if hypothesis != nil {
			hypothesis(strings.TrimSpace(strings.Join(append(committed, transcript), " ")))
		}
	}

	return strings.Join(committed, " "), nil
}
