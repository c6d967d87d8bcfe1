package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrackPurchase(t *testing.T) {
	var got payload
	var query map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"measurement_id": r.URL.Query().Get("measurement_id"),
			"api_secret":     r.URL.Query().Get("api_secret"),
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient("G-TEST", "secret")
	c.endpoint = srv.URL

	err := c.TrackPurchase(context.Background(), Purchase{ClientID: "u1", TransactionID: "cs_1", Value: 9.99, Currency: "usd"})
	if err != nil {
		t.Fatalf("track: %v", err)
	}

	if query["measurement_id"] != "G-TEST" || query["api_secret"] != "secret" {
		t.Errorf("unexpected query %v", query)
	}
	if got.ClientID != "u1" || len(got.Events) != 1 || got.Events[0].Name != "purchase" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if got.Events[0].Params["transaction_id"] != "cs_1" {
		t.Errorf("unexpected params %v", got.Events[0].Params)
	}
}

func TestTrackPurchaseReportsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient("G-TEST", "secret")
	c.endpoint = srv.URL
	if err := c.TrackPurchase(context.Background(), Purchase{ClientID: "u1"}); err == nil {
		t.Error("expected error for 400 response")
	}
}

func TestTrackPurchaseUnconfigured(t *testing.T) {
	c := NewClient("", "")
	if err := c.TrackPurchase(context.Background(), Purchase{}); err != nil {
		t.Errorf("unconfigured client should be a no-op, got %v", err)
	}
}
