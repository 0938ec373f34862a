package track

import (
	"strings"
	"time"
)

// carrierCodes maps supported carrier display names to 17track numeric
// carrier identifiers. The map is deliberately closed: any other name
// (including "Other") carries no code so the provider auto-detects.
var carrierCodes = map[string]int{
	"UPS":              100003,
	"FedEx":            100002,
	"USPS":             21051,
	"DHL":              100001,
	"Amazon Logistics": 190271,
}

// CarrierCode resolves a display carrier name to its upstream numeric code.
// The second return is false for unmapped names, which signals auto-detect.
func CarrierCode(carrier string) (int, bool) {
	code, ok := carrierCodes[carrier]
	return code, ok
}

// NormalizeNumber uppercases and trims a tracking number.
func NormalizeNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// statusBuckets projects 17track latest-status strings onto the four-value
// normalized enum. Unlisted strings fall back to pending.
var statusBuckets = map[string]Status{
	"InfoReceived":       StatusPending,
	"InTransit":          StatusInTransit,
	"OutForDelivery":     StatusInTransit,
	"AvailableForPickup": StatusInTransit,
	"Delivered":          StatusDelivered,
	"Exception":          StatusFailed,
	"Expired":            StatusFailed,
	"NotFound":           StatusPending,
}

func bucketStatus(upstream string) Status {
	if status, ok := statusBuckets[upstream]; ok {
		return status
	}
	return StatusPending
}

// normalizeEnvelope classifies the gettrackinfo response for the submitted
// number and maps the accepted track info into a Result. It is a pure
// function of its inputs; now supplies timestamps for fields upstream left
// empty.
func normalizeEnvelope(env trackEnvelope, number, carrier string, now time.Time) (Result, error) {
	accepted := findAccepted(env, number)
	if accepted == nil {
		if rejected := findRejected(env, number); rejected != nil {
			return Result{}, errRejected(rejected.Error.Message)
		}
		return Result{}, errNotFound()
	}

	// Accepted but not yet populated upstream: valid number, no data yet.
	if accepted.TrackInfo == nil {
		return Result{
			TrackingNumber: number,
			Carrier:        carrier,
			Status:         StatusPending,
			LastUpdate:     now.UTC().Format(time.RFC3339),
			Events:         []Event{},
		}, nil
	}

	info := accepted.TrackInfo
	latest := "NotFound"
	if info.LatestStatus != nil && info.LatestStatus.Status != "" {
		latest = info.LatestStatus.Status
	}

	result := Result{
		TrackingNumber: number,
		Carrier:        carrier,
		Status:         bucketStatus(latest),
		LastUpdate:     now.UTC().Format(time.RFC3339),
		Events:         flattenEvents(info, now),
	}
	if info.LatestEvent != nil && info.LatestEvent.TimeUTC != "" {
		result.LastUpdate = info.LatestEvent.TimeUTC
	}
	if info.ShippingInfo != nil {
		result.Destination = joinAddress(info.ShippingInfo.RecipientAddress)
	}
	if info.TimeMetrics != nil && info.TimeMetrics.EstimatedDeliveryDate != nil {
		result.EstimatedDelivery = info.TimeMetrics.EstimatedDeliveryDate.From
	}
	return result, nil
}

func findAccepted(env trackEnvelope, number string) *acceptedEntry {
	for i := range env.Data.Accepted {
		if strings.EqualFold(env.Data.Accepted[i].Number, number) {
			return &env.Data.Accepted[i]
		}
	}
	return nil
}

func findRejected(env trackEnvelope, number string) *rejectedEntry {
	for i := range env.Data.Rejected {
		if strings.EqualFold(env.Data.Rejected[i].Number, number) {
			return &env.Data.Rejected[i]
		}
	}
	return nil
}

// flattenEvents concatenates events from all tracking sub-providers in
// upstream emission order without re-sorting.
func flattenEvents(info *trackInfo, now time.Time) []Event {
	events := []Event{}
	for _, provider := range info.Tracking.Providers {
		for _, ev := range provider.Events {
			timestamp := ev.TimeUTC
			if timestamp == "" {
				timestamp = ev.TimeISO
			}
			if timestamp == "" {
				timestamp = now.UTC().Format(time.RFC3339)
			}
			location := ev.Location
			if location == "" {
				location = "Unknown"
			}
			description := ev.Description
			if description == "" {
				description = "Update"
			}
			events = append(events, Event{Timestamp: timestamp, Location: location, Status: description})
		}
	}
	return events
}

// joinAddress renders "city, state, country" omitting absent parts. An
// address with neither city nor country yields no destination at all.
func joinAddress(addr *recipientAddress) string {
	if addr == nil {
		return ""
	}
	if addr.City == "" && addr.Country == "" {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{addr.City, addr.State, addr.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
