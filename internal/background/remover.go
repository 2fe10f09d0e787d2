// Package background removes photo backgrounds through an external service
// and composites photos onto new backgrounds.
package background

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single removal request.
const DefaultTimeout = 60 * time.Second

// maxResponseSize bounds the body read from the removal service.
const maxResponseSize = 64 << 20

var ErrNoRemover = errors.New("background removal is not configured")

// Remover strips the background from an encoded image and returns a PNG
// with a transparent background.
type Remover interface {
	RemoveBackground(ctx context.Context, data []byte) ([]byte, error)
}

// RemoverFunc adapts a function to the Remover interface.
type RemoverFunc func(ctx context.Context, data []byte) ([]byte, error)

func (f RemoverFunc) RemoveBackground(ctx context.Context, data []byte) ([]byte, error) {
	return f(ctx, data)
}

// ServiceError is returned when the removal service answers with a non-200 status.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("background service returned HTTP %d: %s", e.StatusCode, e.Message)
}

// HTTPRemover calls a remove.bg compatible endpoint.
type HTTPRemover struct {
	client    *http.Client
	url       string
	apiKey    string
	userAgent string
}

// NewHTTPRemover creates a remover posting to url. A zero timeout uses DefaultTimeout.
func NewHTTPRemover(url, apiKey string, timeout time.Duration) *HTTPRemover {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPRemover{
		client:    &http.Client{Timeout: timeout},
		url:       url,
		apiKey:    apiKey,
		userAgent: "photokit/1.0",
	}
}

// RemoveBackground uploads data as multipart field "image_file" and returns the response body.
func (h *HTTPRemover) RemoveBackground(ctx context.Context, data []byte) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image_file", "image")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.WriteField("size", "auto"); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "image/png")
	req.Header.Set("User-Agent", h.userAgent)
	if h.apiKey != "" {
		req.Header.Set("X-Api-Key", h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("background service: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read background service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(out))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}
	return out, nil
}
