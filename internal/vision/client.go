// Package vision provides the remote inference client for sign-language
// interpretation. Frames are submitted to the Gemini generateContent endpoint
// as inline base64 JPEG alongside a fixed instruction prompt; the response is
// treated as an opaque text oracle.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// EnvAPIKey is the environment variable holding the API credential.
	// It is re-read on every outbound call, never cached.
	EnvAPIKey = "GEMINI_API_KEY"

	// Sentinel is the literal model reply meaning no interpretable signing
	// was found in the frame.
	Sentinel = "No signs"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// InstructionPrompt is the fixed instruction sent with every frame.
	InstructionPrompt = `You are a sign language interpreter. Look at the person in this image. ` +
		`If they are making a sign in American Sign Language, translate it into a short natural ` +
		`English sentence and reply with only that sentence. If no signing is visible, reply ` +
		`with exactly "No signs".`

	// ProbePrompt is the trivial prompt used by the connectivity probe.
	ProbePrompt = `Reply with the single word "OK".`
)

// ErrNoCredential is returned when the API key is absent from the environment.
var ErrNoCredential = errors.New("missing " + EnvAPIKey + " in environment")

// Client defines the interface to the remote interpretation model.
type Client interface {
	// Ready reports whether an outbound call can be attempted.
	Ready() error
	// Interpret submits one JPEG frame and returns the model's text reply.
	Interpret(ctx context.Context, jpeg []byte) (string, error)
	// Probe issues one trivial call for diagnostics.
	Probe(ctx context.Context) (string, error)
	// Model returns the model identifier used for calls.
	Model() string
	// SetModel switches subsequent calls to another model. Empty is ignored.
	SetModel(model string)
}

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	mu         sync.RWMutex
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a client for the given model identifier.
// An empty model falls back to DefaultModel.
func NewGeminiClient(model string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Model returns the configured model identifier.
func (c *GeminiClient) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel changes the model used for subsequent calls. An empty model is
// ignored.
func (c *GeminiClient) SetModel(model string) {
	if model == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// Ready reports whether the API credential is present in the environment.
func (c *GeminiClient) Ready() error {
	if os.Getenv(EnvAPIKey) == "" {
		return ErrNoCredential
	}
	return nil
}

// Request/response wire types for generateContent.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Interpret submits one JPEG frame with the instruction prompt and returns
// the trimmed text reply.
func (c *GeminiClient) Interpret(ctx context.Context, jpeg []byte) (string, error) {
	parts := []part{
		{Text: InstructionPrompt},
		{InlineData: &inlineData{
			MimeType: "image/jpeg",
			Data:     base64.StdEncoding.EncodeToString(jpeg),
		}},
	}
	return c.generate(ctx, parts)
}

// Probe issues one trivial text-only call and returns the trimmed reply.
func (c *GeminiClient) Probe(ctx context.Context) (string, error) {
	return c.generate(ctx, []part{{Text: ProbePrompt}})
}

// generate posts one generateContent request and extracts the first
// candidate's text. The credential is read from the environment on every
// call.
func (c *GeminiClient) generate(ctx context.Context, parts []part) (string, error) {
	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return "", ErrNoCredential
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: parts}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.Model(), apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("gemini API error %d %s: %s",
				resp.StatusCode, parsed.Error.Status, parsed.Error.Message)
		}
		return "", fmt.Errorf("gemini API returned HTTP %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini response contained no candidates")
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

// Rate-limit signatures observed in Gemini API error text.
var rateLimitSignatures = []string{
	"429",
	"resource_exhausted",
	"rate limit",
	"quota",
}

// IsRateLimit reports whether the error looks like a rate-limit rejection.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range rateLimitSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// IsSentinel reports whether the model reply is the "nothing to display"
// sentinel. The model is not byte-stable, so whitespace and a trailing
// period are tolerated.
func IsSentinel(text string) bool {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimSuffix(trimmed, ".")
	return strings.EqualFold(trimmed, Sentinel)
}
