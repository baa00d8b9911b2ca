package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"murmur/encoder"
	"murmur/segment"
)

const groqAPIURL = "https://api.groq.com/openai/v1/audio/transcriptions"

// Groq batch-transcribes segments over the OpenAI-compatible audio API
// with FLAC-compressed uploads.
type Groq struct {
	apiKey string
	cfg    Config
	apiURL string
	client *http.Client
}

func NewGroq(apiKey string, cfg Config) *Groq {
	return &Groq{
		apiKey: apiKey,
		cfg:    cfg,
		apiURL: groqAPIURL,
		client: &http.Client{Timeout: cfg.timeout()},
	}
}

func (g *Groq) Name() string { return "groq" }

type groqResponse struct {
	Text string `json:"text"`
}

func (g *Groq) Transcribe(ctx context.Context, seg segment.Segment) (string, error) {
	flacData, err := encoder.EncodeFLAC(seg, g.cfg.SampleRate)
	if err != nil {
		return "", fmt.Errorf("flac encode: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio.flac")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(flacData); err != nil {
		return "", err
	}
	writer.WriteField("model", "whisper-large-v3-turbo")
	writer.WriteField("response_format", "json")
	if g.cfg.Language != "" {
		writer.WriteField("language", g.cfg.Language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", g.apiURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API error %d: %s", resp.StatusCode, string(respBody))
	}

	var gResp groqResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return "", fmt.Errorf("groq response parse error: %w", err)
	}
	return strings.TrimSpace(gResp.Text), nil
}
