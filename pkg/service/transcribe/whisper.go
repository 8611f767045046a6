package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
)

const defaultEndpoint = "https://api.openai.com/v1/audio/transcriptions"

var _ interfaces.Transcriber = (*Whisper)(nil)

// Whisper transcribes Spanish voice notes through the OpenAI audio API.
type Whisper struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

type Option func(*Whisper)

// WithEndpoint overrides the API endpoint. Used in tests.
func WithEndpoint(url string) Option {
	return func(w *Whisper) {
		w.endpoint = url
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Whisper) {
		w.client = client
	}
}

func NewWhisper(apiKey string, opts ...Option) *Whisper {
	w := &Whisper{
		apiKey:   apiKey,
		model:    "whisper-1",
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Transcribe sends the audio to the transcription API and returns the
// recognized Spanish text.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build transcription request")
	}
	if _, err := part.Write(audio); err != nil {
		return "", goerr.Wrap(err, "failed to build transcription request")
	}
	if err := mw.WriteField("model", w.model); err != nil {
		return "", goerr.Wrap(err, "failed to build transcription request")
	}
	if err := mw.WriteField("language", "es"); err != nil {
		return "", goerr.Wrap(err, "failed to build transcription request")
	}
	if err := mw.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to build transcription request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, &body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build transcription request")
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "transcription request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("transcription API returned an error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(msg)),
		)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", goerr.Wrap(err, "failed to decode transcription response")
	}

	return strings.TrimSpace(out.Text), nil
}
