package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/noah-isme/parcel-proxy/internal/track"
)

// DefaultTimeout bounds a single tracking request end to end. Lookups block
// on two upstream calls plus a settle delay, so this is deliberately generous.
const DefaultTimeout = 15 * time.Second

const (
	msgTimeout      = "Request timed out. Please try again."
	msgConnectivity = "Unable to connect to server. Please check your connection."
	msgGeneric      = "Failed to track package"
)

// Client calls the tracking proxy's /api/track endpoint. Timeouts surface a
// message distinct from connectivity failures; server-reported error bodies
// are relayed verbatim.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Timeout time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{},
		Timeout: DefaultTimeout,
	}
}

type trackRequest struct {
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Track submits a tracking request and decodes the normalized result. All
// failure paths return a user-displayable message as the error text.
func (c *Client) Track(ctx context.Context, number, carrier string) (track.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	body, err := json.Marshal(trackRequest{TrackingNumber: number, Carrier: carrier})
	if err != nil {
		return track.Result{}, errors.New(msgGeneric)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/track", bytes.NewReader(body))
	if err != nil {
		return track.Result{}, errors.New(msgGeneric)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return track.Result{}, errors.New(msgTimeout)
		}
		return track.Result{}, errors.New(msgConnectivity)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var serverErr errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&serverErr); decodeErr == nil && serverErr.Error != "" {
			return track.Result{}, errors.New(serverErr.Error)
		}
		return track.Result{}, errors.New(msgGeneric)
	}

	var result track.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return track.Result{}, errors.New(msgGeneric)
	}
	return result, nil
}

func (c *Client) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}
