package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/parcel-proxy/internal/common"
)

func TestCarrierCode(t *testing.T) {
	t.Parallel()

	expected := map[string]int{
		"UPS":              100003,
		"FedEx":            100002,
		"USPS":             21051,
		"DHL":              100001,
		"Amazon Logistics": 190271,
	}
	for name, code := range expected {
		got, ok := CarrierCode(name)
		require.True(t, ok, name)
		require.Equal(t, code, got, name)
	}

	for _, name := range []string{"Other", "ups", "Royal Mail", ""} {
		_, ok := CarrierCode(name)
		require.False(t, ok, name)
	}
}

func TestNormalizeNumber(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1Z999AA1", NormalizeNumber("  1z999aa1  "))
	require.Equal(t, "ABC123", NormalizeNumber("abc123"))
	require.Equal(t, "", NormalizeNumber("   "))
}

func TestStatusBuckets(t *testing.T) {
	t.Parallel()

	cases := map[string]Status{
		"InfoReceived":       StatusPending,
		"InTransit":          StatusInTransit,
		"OutForDelivery":     StatusInTransit,
		"AvailableForPickup": StatusInTransit,
		"Delivered":          StatusDelivered,
		"Exception":          StatusFailed,
		"Expired":            StatusFailed,
		"NotFound":           StatusPending,
		"SomethingNew":       StatusPending,
		"":                   StatusPending,
	}
	for upstream, want := range cases {
		got := bucketStatus(upstream)
		require.Equal(t, want, got, upstream)
		require.True(t, got.Valid())
	}
}

func TestNormalizeEnvelopeNotFound(t *testing.T) {
	t.Parallel()

	_, err := normalizeEnvelope(trackEnvelope{}, "1Z999AA1", "UPS", time.Now())
	require.Error(t, err)
	require.Equal(t, CodeNotFound, common.ErrorCode(err))
	var app *common.AppError
	require.ErrorAs(t, err, &app)
	require.Equal(t, "No tracking information found", app.Message)
}

func TestNormalizeEnvelopeRejected(t *testing.T) {
	t.Parallel()

	var env trackEnvelope
	env.Data.Rejected = []rejectedEntry{{Number: "1Z999AA1"}}
	env.Data.Rejected[0].Error.Message = "carrier cannot be detected"

	_, err := normalizeEnvelope(env, "1Z999AA1", "Other", time.Now())
	require.Equal(t, CodeRejected, common.ErrorCode(err))
	var app *common.AppError
	require.ErrorAs(t, err, &app)
	require.Equal(t, "Tracking rejected: carrier cannot be detected", app.Message)
}

func TestNormalizeEnvelopeRejectedWithoutReason(t *testing.T) {
	t.Parallel()

	var env trackEnvelope
	env.Data.Rejected = []rejectedEntry{{Number: "1Z999AA1"}}

	_, err := normalizeEnvelope(env, "1Z999AA1", "UPS", time.Now())
	var app *common.AppError
	require.ErrorAs(t, err, &app)
	require.Equal(t, "Tracking rejected: Invalid tracking number", app.Message)
}

func TestNormalizeEnvelopeAcceptedWithoutInfoIsPending(t *testing.T) {
	t.Parallel()

	var env trackEnvelope
	env.Data.Accepted = []acceptedEntry{{Number: "1Z999AA1"}}

	now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	result, err := normalizeEnvelope(env, "1Z999AA1", "UPS", now)
	require.NoError(t, err)
	require.Equal(t, StatusPending, result.Status)
	require.Empty(t, result.Events)
	require.NotNil(t, result.Events)
	require.Equal(t, "2025-03-05T12:00:00Z", result.LastUpdate)
	require.Equal(t, "1Z999AA1", result.TrackingNumber)
	require.Equal(t, "UPS", result.Carrier)
}

func TestNormalizeEnvelopeMapsTrackInfo(t *testing.T) {
	t.Parallel()

	var env trackEnvelope
	info := &trackInfo{
		LatestStatus: &latestStatus{Status: "Delivered"},
		LatestEvent:  &providerEvent{TimeUTC: "2025-03-04T09:30:00Z"},
		Tracking: trackingBlock{Providers: []trackingProvider{
			{Events: []providerEvent{
				{TimeUTC: "2025-03-04T09:30:00Z", Location: "Austin, TX", Description: "Delivered"},
				{TimeISO: "2025-03-03T18:00:00-06:00"},
			}},
			{Events: []providerEvent{
				{TimeUTC: "2025-03-02T08:00:00Z", Location: "Memphis, TN", Description: "Departed facility"},
			}},
		}},
		ShippingInfo: &shippingInfo{RecipientAddress: &recipientAddress{City: "Austin", State: "TX", Country: "US"}},
		TimeMetrics:  &timeMetrics{EstimatedDeliveryDate: &deliveryWindow{From: "2025-03-04", To: "2025-03-06"}},
	}
	env.Data.Accepted = []acceptedEntry{{Number: "1Z999AA1", TrackInfo: info}}

	now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	result, err := normalizeEnvelope(env, "1Z999AA1", "UPS", now)
	require.NoError(t, err)

	require.Equal(t, StatusDelivered, result.Status)
	require.Equal(t, "2025-03-04T09:30:00Z", result.LastUpdate)
	require.Equal(t, "Austin, TX, US", result.Destination)
	require.Equal(t, "2025-03-04", result.EstimatedDelivery)

	// Flattened in upstream emission order with fallbacks applied.
	require.Len(t, result.Events, 3)
	require.Equal(t, Event{Timestamp: "2025-03-04T09:30:00Z", Location: "Austin, TX", Status: "Delivered"}, result.Events[0])
	require.Equal(t, Event{Timestamp: "2025-03-03T18:00:00-06:00", Location: "Unknown", Status: "Update"}, result.Events[1])
	require.Equal(t, Event{Timestamp: "2025-03-02T08:00:00Z", Location: "Memphis, TN", Status: "Departed facility"}, result.Events[2])
}

func TestNormalizeEnvelopeStatusFallbacks(t *testing.T) {
	t.Parallel()

	for upstream, want := range map[string]Status{
		"Exception":  StatusFailed,
		"Mysterious": StatusPending,
	} {
		var env trackEnvelope
		info := &trackInfo{LatestStatus: &latestStatus{Status: upstream}}
		env.Data.Accepted = []acceptedEntry{{Number: "N1", TrackInfo: info}}

		result, err := normalizeEnvelope(env, "N1", "Other", time.Now())
		require.NoError(t, err)
		require.Equal(t, want, result.Status, upstream)
	}
}

func TestJoinAddress(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Austin, TX, US", joinAddress(&recipientAddress{City: "Austin", State: "TX", Country: "US"}))
	require.Equal(t, "US", joinAddress(&recipientAddress{Country: "US"}))
	require.Equal(t, "Austin, US", joinAddress(&recipientAddress{City: "Austin", Country: "US"}))
	require.Equal(t, "", joinAddress(&recipientAddress{State: "TX"}))
	require.Equal(t, "", joinAddress(nil))
}
