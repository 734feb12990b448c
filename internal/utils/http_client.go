package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://api.telegram.org", 10*time.Second)
//	resp, err := client.R().SetBody(body).Post("/bot<token>/getMe")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient that sends JSON to baseURL.
//
// A zero timeout leaves the client without an overall deadline, so long polls
// are bounded by the request context only. Each call returns an independent
// client with its own connection pool.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}

// CloseIdleConnections releases pooled keep-alive connections.
func (c *HTTPClient) CloseIdleConnections() {
	c.GetClient().CloseIdleConnections()
}
