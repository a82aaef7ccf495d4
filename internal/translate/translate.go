package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
)

// Translator is the collaborator contract the normalizer depends on:
// (text, source language) -> English text, or failure.
type Translator interface {
	TranslateToEnglish(ctx context.Context, text, sourceLang string) (string, error)
}

// Client translates through the MyMemory public API. Long inputs are split
// into chunks at sentence/word boundaries and translated sequentially;
// repeated chunks are served from an in-memory cache.
type Client struct {
	endpoint   string
	http       *http.Client
	logger     *slog.Logger
	chunkSize  int
	maxRetries int
	retryDelay time.Duration

	mu    sync.Mutex
	cache map[string]string
}

type Option func(*Client)

func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if endpoint == "" {
		endpoint = "https://api.mymemory.translated.net/get"
	}
	c := &Client{
		endpoint:   endpoint,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
		chunkSize:  200,
		maxRetries: 2,
		retryDelay: time.Second,
		cache:      make(map[string]string),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type apiResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus json.Number `json:"responseStatus"`
}

// TranslateToEnglish translates text from sourceLang. Any failure is wrapped
// with ErrTranslationUnavailable so callers can degrade instead of aborting.
func (c *Client) TranslateToEnglish(ctx context.Context, text, sourceLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if sourceLang == "" || strings.EqualFold(sourceLang, "en") {
		return text, nil
	}

	start := time.Now()
	chunks := SplitChunks(text, c.chunkSize)
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := c.translateChunk(ctx, chunk, sourceLang)
		if err != nil {
			c.logger.Warn("translate.chunk_failed",
				"source_lang", sourceLang,
				"chunk_len", len(chunk),
				"error", err,
			)
			return "", fmt.Errorf("%w: %v", common.ErrTranslationUnavailable, err)
		}
		out = append(out, translated)
	}

	c.logger.Info("translate.ok",
		"source_lang", sourceLang,
		"chunks", len(chunks),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return strings.Join(out, " "), nil
}

func (c *Client) translateChunk(ctx context.Context, chunk, sourceLang string) (string, error) {
	cacheKey := sourceLang + "\x00" + chunk
	c.mu.Lock()
	if cached, ok := c.cache[cacheKey]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var lastErr error
	delay := c.retryDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		translated, retryable, err := c.doRequest(ctx, chunk, sourceLang)
		if err == nil {
			c.mu.Lock()
			c.cache[cacheKey] = translated
			c.mu.Unlock()
			return translated, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", lastErr
}

func (c *Client) doRequest(ctx context.Context, chunk, sourceLang string) (string, bool, error) {
	q := url.Values{}
	q.Set("q", chunk)
	q.Set("langpair", sourceLang+"|en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", true, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("translate.body_close_error", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("rate limited: %d", resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		return "", false, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if status, _ := body.ResponseStatus.Int64(); status != 0 && status != http.StatusOK {
		return "", status == http.StatusTooManyRequests, fmt.Errorf("api status: %d", status)
	}
	translated := strings.TrimSpace(body.ResponseData.TranslatedText)
	if translated == "" {
		return "", false, fmt.Errorf("empty translation")
	}
	return translated, false, nil
}
