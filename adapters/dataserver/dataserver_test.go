package dataserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func serverHostPort(t *testing.T, server *httptest.Server) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(server.Listener.Addr().String())
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return host, port
}

func TestDefaultHost(t *testing.T) {
	client := New(Config{
		Hosts: map[string]HostPort{
			"H1": {Host: "data.h1.example.org", Port: 31200},
			"*":  {Host: "data.example.org", Port: 31200},
		},
		Logger: zerolog.Nop(),
	})

	host, port, err := client.DefaultHost("H1")
	if err != nil {
		t.Fatalf("DefaultHost failed: %v", err)
	}
	if host != "data.h1.example.org" || port != 31200 {
		t.Errorf("got %s:%d", host, port)
	}

	// Unknown observatory falls back to the catch-all.
	host, _, err = client.DefaultHost("Z9")
	if err != nil {
		t.Fatalf("DefaultHost fallback failed: %v", err)
	}
	if host != "data.example.org" {
		t.Errorf("fallback host = %q", host)
	}
}

func TestDefaultHost_NoEntry(t *testing.T) {
	client := New(Config{Logger: zerolog.Nop()})
	if _, _, err := client.DefaultHost("H1"); err == nil {
		t.Fatal("expected error for empty host table")
	}
}

func TestConnectAndFetch(t *testing.T) {
	start := time.Date(2015, 9, 14, 9, 50, 45, 0, time.UTC)
	end := start.Add(4 * time.Second)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping":
			w.WriteHeader(http.StatusOK)
		case "/data":
			q := r.URL.Query()
			if q.Get("channel") != "H1:CAL-DELTAL" {
				t.Errorf("channel = %q", q.Get("channel"))
			}
			if q.Get("start") != start.Format(time.RFC3339Nano) {
				t.Errorf("start = %q", q.Get("start"))
			}
			json.NewEncoder(w).Encode(fetchResponse{
				Name:    "H1:CAL-DELTAL",
				Start:   start,
				Rate:    4,
				Samples: []float64{0.1, 0.2, 0.3, 0.4},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	host, port := serverHostPort(t, server)
	client := New(Config{Logger: zerolog.Nop()})

	conn, err := client.Connect(context.Background(), host, port)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	ts, err := conn.Fetch(context.Background(), start, end, "H1:CAL-DELTAL")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if ts.Name != "H1:CAL-DELTAL" || ts.Rate != 4 || len(ts.Samples) != 4 {
		t.Errorf("series = %+v", ts)
	}
	if !ts.Start.Equal(start) {
		t.Errorf("start = %v, want %v", ts.Start, start)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	client := New(Config{Timeout: 200 * time.Millisecond, Logger: zerolog.Nop()})

	// A closed server refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host, port := serverHostPort(t, server)
	server.Close()

	if _, err := client.Connect(context.Background(), host, port); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestConnect_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	host, port := serverHostPort(t, server)
	client := New(Config{Logger: zerolog.Nop()})

	if _, err := client.Connect(context.Background(), host, port); err == nil {
		t.Fatal("expected status error")
	}
}

func TestFetch_ServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ping" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "channel not recorded", http.StatusNotFound)
	}))
	defer server.Close()

	host, port := serverHostPort(t, server)
	client := New(Config{Logger: zerolog.Nop()})

	conn, err := client.Connect(context.Background(), host, port)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	_, err = conn.Fetch(context.Background(), time.Unix(0, 0), time.Unix(1, 0), "H1:NOPE")
	if err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestClose_Idempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	host, port := serverHostPort(t, server)
	client := New(Config{Logger: zerolog.Nop()})

	conn, err := client.Connect(context.Background(), host, port)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
