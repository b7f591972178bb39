package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/pkg/httpclient"
)

// ErrSubmissionRejected is returned when the endpoint answers with a non-2xx status
var ErrSubmissionRejected = errors.New("submission rejected")

// Submitter delivers a validated inquiry to the intake endpoint
type Submitter interface {
	Submit(ctx context.Context, req *models.InquiryRequest) (*models.InquiryResponse, error)
}

// Client posts inquiries to the intake endpoint over HTTP
type Client struct {
	endpoint   string
	httpClient httpclient.Client
}

// NewClient creates a client for the endpoint URL, e.g. https://host/api/booking
func NewClient(endpoint string, httpClient httpclient.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Submit posts req once. There is no retry: a failed submission is resubmitted by the user.
func (c *Client) Submit(ctx context.Context, req *models.InquiryRequest) (*models.InquiryResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode inquiry: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to submit inquiry: %w", err)
	}
	defer resp.Body.Close()

	var out models.InquiryResponse
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(payload) > 0 {
		_ = json.Unmarshal(payload, &out) //nolint:errcheck // body is informational only
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &out, fmt.Errorf("%w: status %d", ErrSubmissionRejected, resp.StatusCode)
	}

	out.Success = true
	return &out, nil
}
