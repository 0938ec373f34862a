package board_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/parcel-proxy/internal/board"
	"github.com/noah-isme/parcel-proxy/internal/track"
)

func TestClientTrackSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/track", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "1Z999AA1", body["trackingNumber"])
		require.Equal(t, "UPS", body["carrier"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(track.Result{
			TrackingNumber: "1Z999AA1",
			Carrier:        "UPS",
			Status:         track.StatusInTransit,
			LastUpdate:     "2025-03-01T10:00:00Z",
			Destination:    "Austin, TX, US",
			Events:         []track.Event{},
		})
	}))
	defer srv.Close()

	client := board.NewClient(srv.URL)
	got, err := client.Track(context.Background(), "1Z999AA1", "UPS")
	require.NoError(t, err)
	require.Equal(t, track.StatusInTransit, got.Status)
	require.Equal(t, "Austin, TX, US", got.Destination)
}

func TestClientRelaysServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":  "No tracking information found",
			"status": http.StatusNotFound,
		})
	}))
	defer srv.Close()

	client := board.NewClient(srv.URL)
	_, err := client.Track(context.Background(), "1Z999AA1", "UPS")
	require.EqualError(t, err, "No tracking information found")
}

func TestClientGenericMessageWithoutErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := board.NewClient(srv.URL)
	_, err := client.Track(context.Background(), "1Z999AA1", "UPS")
	require.EqualError(t, err, "Failed to track package")
}

func TestClientTimeoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client := board.NewClient(srv.URL)
	client.Timeout = 50 * time.Millisecond

	_, err := client.Track(context.Background(), "1Z999AA1", "UPS")
	require.EqualError(t, err, "Request timed out. Please try again.")
}

func TestClientConnectivityMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := board.NewClient(srv.URL)
	_, err := client.Track(context.Background(), "1Z999AA1", "UPS")
	require.EqualError(t, err, "Unable to connect to server. Please check your connection.")
}
