package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-poll-bot/internal/config"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/utils"
	"github.com/MKhiriev/go-poll-bot/models"
	"golang.org/x/time/rate"
)

const methodGetUpdates = "getUpdates"

// HTTPTransport is the HTTP/JSON implementation of [Transport].
type HTTPTransport struct {
	client *utils.HTTPClient

	token          string
	requestTimeout time.Duration
	limiter        *rate.Limiter
	closed         atomic.Bool

	logger *logger.Logger
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport constructs an HTTP implementation of [Transport].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// builds the outbound rate limiter from adapterCfg.RateLimit and RateBurst
// (a zero RateLimit disables limiting).
//
// Returns an error if the token is empty or adapterCfg.HTTPAddress cannot be
// parsed as a valid URL.
func NewHTTPTransport(adapterCfg config.ClientAdapter, appCfg config.ClientApp, log *logger.Logger) (*HTTPTransport, error) {
	token := strings.TrimSpace(appCfg.Token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	limit := rate.Inf
	if adapterCfg.RateLimit > 0 {
		limit = rate.Limit(adapterCfg.RateLimit)
	}
	burst := adapterCfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &HTTPTransport{
		// deadlines are set per request, long polls outlive RequestTimeout
		client:         utils.NewHTTPClient(baseURL, 0),
		token:          token,
		requestTimeout: adapterCfg.RequestTimeout,
		limiter:        rate.NewLimiter(limit, burst),
		logger:         log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Open implements [Transport]. It re-arms a transport closed by a previous
// run.
func (h *HTTPTransport) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.closed.Store(false)
	return nil
}

// Close implements [Transport]. It rejects further calls and drops idle
// keep-alive connections.
func (h *HTTPTransport) Close() error {
	h.closed.Store(true)
	h.client.CloseIdleConnections()
	return nil
}

// GetUpdates implements [Transport]. The request deadline is the server hold
// time plus the configured request timeout. Offset is only sent when it is
// not negative and allowed_updates only when the list is non-nil, so an empty
// list reaches the server as [].
func (h *HTTPTransport) GetUpdates(ctx context.Context, req models.UpdatesRequest) ([]models.Update, error) {
	body := map[string]any{"timeout": req.Timeout}
	if req.Offset >= 0 {
		body["offset"] = req.Offset
	}
	if req.AllowedUpdates != nil {
		body["allowed_updates"] = req.AllowedUpdates
	}

	timeout := time.Duration(req.Timeout)*time.Second + h.requestTimeout
	raw, err := h.post(ctx, methodGetUpdates, body, timeout)
	if err != nil {
		return nil, err
	}

	var updates []models.Update
	if len(raw) > 0 {
		if err = json.Unmarshal(raw, &updates); err != nil {
			return nil, fmt.Errorf("%s decode result: %w", methodGetUpdates, err)
		}
	}

	return updates, nil
}

// Call implements [Transport]. Calls wait on the outbound rate limiter and are
// bounded by the configured request timeout.
func (h *HTTPTransport) Call(ctx context.Context, method string, params any, result any) error {
	if err := h.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", method, err)
	}

	raw, err := h.post(ctx, method, params, h.requestTimeout)
	if err != nil {
		return err
	}

	if result == nil || len(raw) == 0 {
		return nil
	}
	if err = json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("%s decode result: %w", method, err)
	}

	return nil
}

func (h *HTTPTransport) post(ctx context.Context, method string, body any, timeout time.Duration) (json.RawMessage, error) {
	if h.closed.Load() {
		return nil, fmt.Errorf("%s: %w", method, ErrTransportClosed)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	request := h.client.R().SetContext(ctx)
	if body != nil {
		request.SetBody(body)
	}

	start := time.Now()
	resp, err := request.Post(h.methodPath(method))
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", method, &redactedError{err: err, secret: h.token})
	}

	h.logger.Debug().
		Str("method", method).
		Int("status", resp.StatusCode()).
		Dur("took", time.Since(start)).
		Msg("api call finished")

	return decodeResponse(method, resp)
}

func (h *HTTPTransport) methodPath(method string) string {
	return "/bot" + h.token + "/" + method
}
