package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/models"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

// HTTPTransportConfig configures the resty-based transport.
type HTTPTransportConfig struct {
	// BaseURL is prefixed to relative addresses. Absolute addresses are
	// sent as-is, which is the common case for HAL self links.
	BaseURL string
	// Timeout is the per-request timeout. Defaults to 15s.
	Timeout time.Duration
}

type httpTransport struct {
	client *resty.Client
	logger *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPTransport returns a Transport backed by an HTTP client. The
// returned value also implements [TokenHolder].
func NewHTTPTransport(cfg HTTPTransportConfig, log *logger.Logger) Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().SetTimeout(cfg.Timeout)
	if cfg.BaseURL != "" {
		cli.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	}

	return &httpTransport{client: cli, logger: log}
}

func (h *httpTransport) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpTransport) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// TokenExpired parses the stored token without verifying its signature and
// checks the exp claim. Verification is the server's job; the client only
// wants to avoid dispatching requests that are certain to be rejected.
func (h *httpTransport) TokenExpired() bool {
	token := h.Token()
	if token == "" {
		return false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (h *httpTransport) Send(ctx context.Context, method, address string, body []byte) (models.TransportResponse, error) {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if len(body) > 0 {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	var (
		resp *resty.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = req.Get(address)
	case http.MethodPost:
		resp, err = req.Post(address)
	case http.MethodPatch:
		resp, err = req.Patch(address)
	case http.MethodDelete:
		resp, err = req.Delete(address)
	default:
		return models.TransportResponse{}, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	if err != nil {
		h.logger.Err(err).Str("method", method).Str("address", address).Msg("transport send failed")
		return models.TransportResponse{}, fmt.Errorf("%w: %s %s: %v", ErrTransportFailure, method, address, err)
	}

	return toTransportResponse(resp), nil
}

func toTransportResponse(resp *resty.Response) models.TransportResponse {
	out := models.TransportResponse{
		Status: resp.StatusCode(),
		Body:   resp.Body(),
	}

	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		out.Successful = true
		return out
	}

	message := strings.TrimSpace(string(resp.Body()))
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}
	out.ErrorMessage = fmt.Sprintf("http %d: %s", resp.StatusCode(), message)
	return out
}
