package track

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/parcel-proxy/internal/obs"
	"github.com/noah-isme/parcel-proxy/internal/resilience"
)

const (
	registerPath  = "/track/v2.2/register"
	trackInfoPath = "/track/v2.2/gettrackinfo"
	tokenHeader   = "17token"

	defaultBaseURL     = "https://api.17track.net"
	defaultSettleDelay = time.Second
)

// registerItem is one entry in the register request body. Carrier is omitted
// for auto-detection.
type registerItem struct {
	Number  string `json:"number"`
	Carrier int    `json:"carrier,omitempty"`
}

type queryItem struct {
	Number string `json:"number"`
}

// trackEnvelope is the gettrackinfo response. Submitted numbers are
// partitioned into accepted and rejected lists.
type trackEnvelope struct {
	Data struct {
		Accepted []acceptedEntry `json:"accepted"`
		Rejected []rejectedEntry `json:"rejected"`
	} `json:"data"`
}

type acceptedEntry struct {
	Number    string     `json:"number"`
	TrackInfo *trackInfo `json:"track_info"`
}

type rejectedEntry struct {
	Number string `json:"number"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

type trackInfo struct {
	LatestStatus *latestStatus  `json:"latest_status"`
	LatestEvent  *providerEvent `json:"latest_event"`
	Tracking     trackingBlock  `json:"tracking"`
	ShippingInfo *shippingInfo  `json:"shipping_info"`
	TimeMetrics  *timeMetrics   `json:"time_metrics"`
}

type latestStatus struct {
	Status string `json:"status"`
}

type trackingBlock struct {
	Providers []trackingProvider `json:"providers"`
}

type trackingProvider struct {
	Events []providerEvent `json:"events"`
}

type shippingInfo struct {
	RecipientAddress *recipientAddress `json:"recipient_address"`
}

type timeMetrics struct {
	EstimatedDeliveryDate *deliveryWindow `json:"estimated_delivery_date"`
}

// deliveryWindow is the upstream estimated delivery range; the earliest
// bound is the one surfaced to callers.
type deliveryWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type providerEvent struct {
	TimeUTC     string `json:"time_utc"`
	TimeISO     string `json:"time_iso"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type recipientAddress struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// SeventeenTrack resolves tracking numbers through the 17track v2.2 API:
// register the number, wait for the registration to settle upstream, then
// query its track info. Both calls are sequential within one lookup; nothing
// is cached or retried.
type SeventeenTrack struct {
	BaseURL     string
	APIKey      string
	HTTP        resilience.HTTPClient
	SettleDelay time.Duration
	Logger      zerolog.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewClient builds an otel-instrumented HTTP client for the upstream
// provider. The timeout bounds each individual upstream call.
func NewClient(timeout time.Duration, breaker *resilience.Breaker) resilience.HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return resilience.HTTPClient{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Breaker: breaker,
	}
}

// Track implements Provider against the live 17track API.
func (s *SeventeenTrack) Track(ctx context.Context, number, carrier string) (Result, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return Result{}, ErrMissingCredential()
	}
	normalized := NormalizeNumber(number)

	item := registerItem{Number: normalized}
	if code, ok := CarrierCode(carrier); ok {
		item.Carrier = code
	}
	if err := s.register(ctx, item); err != nil {
		return Result{}, classify(err)
	}

	// Registration propagates asynchronously upstream; querying immediately
	// yields incomplete data.
	if err := s.settle(ctx); err != nil {
		return Result{}, classify(err)
	}

	env, err := s.trackInfo(ctx, normalized)
	if err != nil {
		return Result{}, classify(err)
	}

	result, err := normalizeEnvelope(env, normalized, carrier, s.clock()())
	if err != nil {
		return Result{}, classify(err)
	}
	return result, nil
}

func (s *SeventeenTrack) register(ctx context.Context, item registerItem) error {
	body, status, err := s.post(ctx, registerPath, []registerItem{item})
	if err != nil {
		return err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		s.Logger.Error().Int("status", status).Str("body", snippet(body)).Msg("17track register failed")
		return errUpstream("register", status)
	}
	return nil
}

func (s *SeventeenTrack) trackInfo(ctx context.Context, number string) (trackEnvelope, error) {
	body, status, err := s.post(ctx, trackInfoPath, []queryItem{{Number: number}})
	if err != nil {
		return trackEnvelope{}, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		s.Logger.Error().Int("status", status).Str("body", snippet(body)).Msg("17track gettrackinfo failed")
		return trackEnvelope{}, errUpstream("gettrackinfo", status)
	}
	var env trackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return trackEnvelope{}, fmt.Errorf("decode gettrackinfo response: %w", err)
	}
	return env, nil
}

func (s *SeventeenTrack) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode %s request: %w", path, err)
	}
	url := strings.TrimRight(s.baseURL(), "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, s.APIKey)

	start := time.Now()
	resp, err := s.HTTP.Do(ctx, req)
	if err != nil {
		obs.ObserveUpstreamCall(path, "error", obs.DurationMillis(time.Since(start)))
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	obs.ObserveUpstreamCall(path, strconv.Itoa(resp.StatusCode), obs.DurationMillis(time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s response: %w", path, err)
	}
	return body, resp.StatusCode, nil
}

// settle waits for the configured delay between registering and querying,
// aborting early if the caller cancels.
func (s *SeventeenTrack) settle(ctx context.Context) error {
	delay := s.SettleDelay
	if delay <= 0 {
		delay = defaultSettleDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *SeventeenTrack) baseURL() string {
	if strings.TrimSpace(s.BaseURL) == "" {
		return defaultBaseURL
	}
	return s.BaseURL
}

func (s *SeventeenTrack) clock() func() time.Time {
	if s.Now != nil {
		return s.Now
	}
	return time.Now
}

func snippet(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
