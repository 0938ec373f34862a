package board_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/parcel-proxy/internal/board"
	"github.com/noah-isme/parcel-proxy/internal/track"
)

func result(number, carrier string, status track.Status) track.Result {
	return track.Result{
		TrackingNumber: number,
		Carrier:        carrier,
		Status:         status,
		LastUpdate:     "2025-03-01T10:00:00Z",
		Events:         []track.Event{},
	}
}

func TestAddAssignsLocalIDs(t *testing.T) {
	list := board.NewList()

	first := list.Add(result("1Z999AA1", "UPS", track.StatusInTransit))
	second := list.Add(result("9400100000", "USPS", track.StatusPending))

	require.Len(t, first.ID, 9)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, "1Z999AA1", first.TrackingNumber)
}

func TestRemoveKeepsOrder(t *testing.T) {
	list := board.NewList()

	first := list.Add(result("1Z999AA1", "UPS", track.StatusInTransit))
	second := list.Add(result("9400100000", "USPS", track.StatusPending))

	require.True(t, list.Remove(first.ID))

	items := list.Items()
	require.Len(t, items, 1)
	require.Equal(t, second.ID, items[0].ID)
}

func TestRemoveUnknownID(t *testing.T) {
	list := board.NewList()
	list.Add(result("1Z999AA1", "UPS", track.StatusInTransit))

	require.False(t, list.Remove("nope"))
	require.Len(t, list.Items(), 1)
}

func TestFilterConjunctive(t *testing.T) {
	list := board.NewList()
	list.Add(result("1Z999AA1", "UPS", track.StatusInTransit))
	list.Add(result("1Z999BB2", "UPS", track.StatusDelivered))
	list.Add(result("9400100000", "USPS", track.StatusDelivered))

	// Search matches both UPS packages but only one is delivered.
	got := list.Filter("1z999", string(track.StatusDelivered))
	require.Len(t, got, 1)
	require.Equal(t, "1Z999BB2", got[0].TrackingNumber)
}

func TestFilterSearchMatchesCarrier(t *testing.T) {
	list := board.NewList()
	list.Add(result("1Z999AA1", "UPS", track.StatusInTransit))
	list.Add(result("9400100000", "USPS", track.StatusPending))

	got := list.Filter("usps", board.FilterAll)
	require.Len(t, got, 1)
	require.Equal(t, "9400100000", got[0].TrackingNumber)
}

func TestFilterAllStatuses(t *testing.T) {
	list := board.NewList()
	list.Add(result("1Z999AA1", "UPS", track.StatusInTransit))
	list.Add(result("9400100000", "USPS", track.StatusFailed))

	require.Len(t, list.Filter("", board.FilterAll), 2)
}

func TestCounts(t *testing.T) {
	list := board.NewList()
	list.Add(result("A", "UPS", track.StatusInTransit))
	list.Add(result("B", "UPS", track.StatusInTransit))
	list.Add(result("C", "USPS", track.StatusDelivered))
	list.Add(result("D", "DHL", track.StatusPending))

	counts := list.Counts()
	require.Equal(t, 4, counts.Total)
	require.Equal(t, 2, counts.InTransit)
	require.Equal(t, 1, counts.Delivered)
}
