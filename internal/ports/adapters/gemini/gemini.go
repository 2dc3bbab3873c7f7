package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bjarlestam/credit-scout/internal/domain/asset"
	"github.com/bjarlestam/credit-scout/internal/types"
)

var (
	ErrMissingCredential      = errors.New("gemini api key is required (pass it explicitly or set GEMINI_API_KEY)")
	ErrUploadFailed           = errors.New("upload failed")
	ErrRemoteProcessingFailed = errors.New("remote processing failed")
	ErrIncompleteDetection    = errors.New("incomplete detection")
	ErrMalformedResponse      = errors.New("malformed model response")
	ErrGenerationFailed       = errors.New("generation failed")
)

// Remote clip states. A clip is usable only once ACTIVE.
const (
	statePending    = "PENDING"
	stateProcessing = "PROCESSING"
	stateActive     = "ACTIVE"
	stateFailed     = "FAILED"
)

// Detections have no real confidence model yet; every successful result
// carries this placeholder.
const defaultConfidence = 1.0

var timestampRE = regexp.MustCompile(`^\d{1,3}:\d{2}$`)

type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string

	// PollInterval is the fixed backoff between remote-state polls.
	// PollMaxAttempts bounds the loop; 0 polls until ACTIVE or FAILED.
	PollInterval    time.Duration
	PollMaxAttempts int

	HTTPClient *http.Client
}

type Client struct {
	key             string
	model           string
	baseURL         string
	client          *http.Client
	pollInterval    time.Duration
	pollMaxAttempts int
	sleep           func(ctx context.Context, d time.Duration) error
	log             zerolog.Logger
}

func New(cfg ClientConfig, log zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-pro-preview-05-06"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		key:             cfg.APIKey,
		model:           cfg.Model,
		baseURL:         normalizeBaseURL(cfg.BaseURL),
		client:          cfg.HTTPClient,
		pollInterval:    cfg.PollInterval,
		pollMaxAttempts: cfg.PollMaxAttempts,
		sleep:           sleepCtx,
		log:             log,
	}
}

// DetectIntroEnd locates the timestamp where the main narrative begins in
// an encoded intro segment.
func (c *Client) DetectIntroEnd(ctx context.Context, segmentPath string) (types.Detection, error) {
	raw, cost, usage, err := c.detect(ctx, segmentPath, introEndTask, introEndFormat)
	if err != nil {
		return types.Detection{}, err
	}
	ts, err := validTimestamp(raw)
	if err != nil {
		return types.Detection{}, err
	}
	c.log.Info().Str("timestamp", ts).Msg("intro end detected")
	return types.Detection{
		Timestamp:  ts,
		Confidence: defaultConfidence,
		Cost:       cost.totalCost,
		TokensUsed: usage.TotalTokenCount,
	}, nil
}

// DetectIntroBounds locates both the intro start and intro end in an
// encoded intro segment.
func (c *Client) DetectIntroBounds(ctx context.Context, segmentPath string) (types.IntroBounds, error) {
	raw, cost, usage, err := c.detect(ctx, segmentPath, introBoundsTask, introBoundsFormat)
	if err != nil {
		return types.IntroBounds{}, err
	}

	var introStart, introEnd string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "intro_start:"):
			introStart = strings.TrimSpace(line[len("intro_start:"):])
		case strings.HasPrefix(lower, "intro_end:"):
			introEnd = strings.TrimSpace(line[len("intro_end:"):])
		}
	}
	if introStart == "" || introEnd == "" {
		return types.IntroBounds{}, fmt.Errorf("%w: could not parse both intro_start and intro_end from response: %q", ErrIncompleteDetection, truncate(raw, 200))
	}

	c.log.Info().Str("intro_start", introStart).Str("intro_end", introEnd).Msg("intro bounds detected")
	return types.IntroBounds{
		IntroStart: introStart,
		IntroEnd:   introEnd,
		Confidence: defaultConfidence,
		Cost:       cost.totalCost,
		TokensUsed: usage.TotalTokenCount,
	}, nil
}

// DetectCreditsStart locates the start of the end-credits roll in an
// encoded outro segment. The timestamp is relative to the segment.
func (c *Client) DetectCreditsStart(ctx context.Context, segmentPath string) (types.Detection, error) {
	raw, cost, usage, err := c.detect(ctx, segmentPath, creditsStartTask, creditsStartFormat)
	if err != nil {
		return types.Detection{}, err
	}
	ts, err := validTimestamp(raw)
	if err != nil {
		return types.Detection{}, err
	}
	c.log.Info().Str("timestamp", ts).Msg("credits start detected")
	return types.Detection{
		Timestamp:  ts,
		Confidence: defaultConfidence,
		Cost:       cost.totalCost,
		TokensUsed: usage.TotalTokenCount,
	}, nil
}

// detect runs the full remote round trip for one segment: upload, wait
// for the clip to become ACTIVE, generate, and always delete the remote
// copy on the way out, whatever happened.
func (c *Client) detect(ctx context.Context, segmentPath, task, format string) (string, costBreakdown, usageMetadata, error) {
	src, err := asset.Resolve(segmentPath)
	if err != nil {
		return "", costBreakdown{}, usageMetadata{}, err
	}
	key := c.key
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return "", costBreakdown{}, usageMetadata{}, ErrMissingCredential
	}

	file, err := c.upload(ctx, key, src.Path)
	if err != nil {
		return "", costBreakdown{}, usageMetadata{}, err
	}
	defer c.cleanup(key, file.Name)

	file, err = c.waitForActive(ctx, key, file)
	if err != nil {
		return "", costBreakdown{}, usageMetadata{}, err
	}

	text, usage, err := c.generate(ctx, key, file, task, format)
	if err != nil {
		return "", costBreakdown{}, usageMetadata{}, err
	}

	cost := calculateCost(c.model, usage.PromptTokenCount, usage.CandidatesTokenCount)
	c.log.Info().
		Int("prompt_tokens", usage.PromptTokenCount).
		Int("candidate_tokens", usage.CandidatesTokenCount).
		Float64("input_cost", cost.inputCost).
		Float64("output_cost", cost.outputCost).
		Float64("total_cost", cost.totalCost).
		Msg("generation usage")

	return text, cost, usage, nil
}

type remoteFile struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	State    string `json:"state"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

func (c *Client) upload(ctx context.Context, key, path string) (remoteFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return remoteFile{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return remoteFile{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/v1beta/files", f)
	if err != nil {
		return remoteFile{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("x-goog-api-key", key)
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	req.Header.Set("Content-Type", "video/mp4")

	resp, err := c.client.Do(req)
	if err != nil {
		return remoteFile{}, fmt.Errorf("%w: %v", ErrUploadFailed, redactedErr(err, key))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteFile{}, fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, readBody(resp.Body, key))
	}

	var out struct {
		File remoteFile `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return remoteFile{}, fmt.Errorf("%w: decode response: %v", ErrUploadFailed, err)
	}
	if out.File.Name == "" {
		return remoteFile{}, fmt.Errorf("%w: response carried no file name", ErrUploadFailed)
	}
	c.log.Info().Str("file", out.File.Name).Str("state", out.File.State).Msg("uploaded clip")
	return out.File, nil
}

func (c *Client) getFile(ctx context.Context, key, name string) (remoteFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1beta/"+name, nil)
	if err != nil {
		return remoteFile{}, err
	}
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.client.Do(req)
	if err != nil {
		return remoteFile{}, redactedErr(err, key)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteFile{}, fmt.Errorf("get file: status %d: %s", resp.StatusCode, readBody(resp.Body, key))
	}

	var out remoteFile
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return remoteFile{}, err
	}
	return out, nil
}

// waitForActive polls the clip state with a fixed backoff until it is
// ACTIVE, FAILED, or the configured attempt bound is spent.
func (c *Client) waitForActive(ctx context.Context, key string, file remoteFile) (remoteFile, error) {
	attempts := 0
	for file.State == stateProcessing || file.State == statePending {
		attempts++
		if c.pollMaxAttempts > 0 && attempts > c.pollMaxAttempts {
			return remoteFile{}, fmt.Errorf("%w: clip %s still %s after %d polls", ErrRemoteProcessingFailed, file.Name, file.State, c.pollMaxAttempts)
		}
		c.log.Debug().Str("file", file.Name).Str("state", file.State).Msg("clip still processing, waiting")
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return remoteFile{}, err
		}
		var err error
		file, err = c.getFile(ctx, key, file.Name)
		if err != nil {
			return remoteFile{}, fmt.Errorf("%w: %v", ErrRemoteProcessingFailed, err)
		}
	}
	if file.State != stateActive {
		return remoteFile{}, fmt.Errorf("%w: clip %s is in state %s", ErrRemoteProcessingFailed, file.Name, file.State)
	}
	return file, nil
}

func (c *Client) generate(ctx context.Context, key string, file remoteFile, task, format string) (string, usageMetadata, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]any{
				{"fileData": map[string]any{"fileUri": file.URI, "mimeType": file.MimeType}},
			}},
			{"role": "user", "parts": []map[string]any{{"text": task}}},
			{"role": "user", "parts": []map[string]any{{"text": format}}},
		},
		"generationConfig": map[string]any{"responseMimeType": "text/plain"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", usageMetadata{}, fmt.Errorf("%w: marshal request: %v", ErrGenerationFailed, err)
	}

	url := c.baseURL + "/v1beta/models/" + c.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", usageMetadata{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("x-goog-api-key", key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", usageMetadata{}, fmt.Errorf("%w: %v", ErrGenerationFailed, redactedErr(err, key))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", usageMetadata{}, fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, readBody(resp.Body, key))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata usageMetadata `json:"usageMetadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", usageMetadata{}, fmt.Errorf("%w: decode response: %v", ErrGenerationFailed, err)
	}
	if len(out.Candidates) == 0 {
		return "", usageMetadata{}, fmt.Errorf("%w: response carried no candidates", ErrGenerationFailed)
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", usageMetadata{}, fmt.Errorf("%w: empty response text", ErrGenerationFailed)
	}
	return text, out.UsageMetadata, nil
}

// cleanup deletes the remote clip. Best effort: a deletion failure is
// logged and never masks the primary result or error.
func (c *Client) cleanup(key, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1beta/"+name, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("file", name).Msg("failed to clean up uploaded clip")
		return
	}
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(redactedErr(err, key)).Str("file", name).Msg("failed to clean up uploaded clip")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Int("status", resp.StatusCode).Str("file", name).Msg("failed to clean up uploaded clip")
		return
	}
	c.log.Debug().Str("file", name).Msg("cleaned up uploaded clip")
}

func validTimestamp(raw string) (string, error) {
	ts := strings.TrimSpace(raw)
	if !timestampRE.MatchString(ts) {
		return "", fmt.Errorf("%w: expected MM:SS, got %q", ErrMalformedResponse, truncate(raw, 200))
	}
	return ts, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func readBody(r io.Reader, key string) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "unreadable body"
	}
	return truncate(redactSecrets(string(b), key), 400)
}

func redactedErr(err error, key string) error {
	return errors.New(redactSecrets(err.Error(), key))
}

var apiKeyHeaderRE = regexp.MustCompile(`(?i)(x-goog-api-key\s*[:=]\s*)([^\n\r,;]+)`)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	return apiKeyHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
