package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-poll-bot/models"
	"github.com/go-resty/resty/v2"
)

func statusError(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	case http.StatusBadGateway:
		return ErrBadGateway
	case http.StatusInternalServerError:
		return ErrInternalServerError
	default:
		return nil
	}
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	if sentinel := statusError(resp.StatusCode()); sentinel != nil {
		return fmt.Errorf("%w: %s", sentinel, body)
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

// decodeResponse unwraps the API envelope. A body that is not an envelope
// falls back to the plain status mapping.
func decodeResponse(method string, resp *resty.Response) (json.RawMessage, error) {
	statusErr := mapHTTPError(resp)

	var envelope models.Response
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		if statusErr != nil {
			return nil, fmt.Errorf("%s: %w", method, statusErr)
		}
		return nil, fmt.Errorf("%s decode response: %w", method, err)
	}

	if !envelope.OK {
		return nil, newAPIError(method, resp.StatusCode(), envelope)
	}
	if statusErr != nil {
		return nil, fmt.Errorf("%s: %w", method, statusErr)
	}

	return envelope.Result, nil
}

func newAPIError(method string, status int, envelope models.Response) *APIError {
	code := envelope.ErrorCode
	if code == 0 {
		code = status
	}

	apiErr := &APIError{
		Method:      method,
		Code:        code,
		Description: envelope.Description,
		status:      statusError(code),
	}
	if envelope.Parameters != nil && envelope.Parameters.RetryAfter > 0 {
		apiErr.RetryAfter = time.Duration(envelope.Parameters.RetryAfter) * time.Second
	}

	return apiErr
}
