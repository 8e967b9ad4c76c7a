package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

func TestHealthEndpoint(t *testing.T) {
	s := NewServer("test", NewFrameHub())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestVersionEndpointReportsConfiguredVersion(t *testing.T) {
	s := NewServer("1.2.3", NewFrameHub())
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "1.2.3") {
		t.Errorf("body %q does not mention version", body)
	}
}

func TestFrameHubBroadcastsToSubscribers(t *testing.T) {
	hub := NewFrameHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	frame := domain.NewFrame(1, 2, 2, domain.Diff{}, nil, nil, false)
	if err := hub.Broadcast(frame); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	select {
	case line := <-sub:
		if !strings.Contains(string(line), `"t":1`) {
			t.Errorf("broadcast line missing t:1: %s", line)
		}
	default:
		t.Fatal("subscriber received nothing")
	}

	if hub.CurrentTick() != 1 {
		t.Errorf("CurrentTick() = %d, want 1", hub.CurrentTick())
	}
}

func TestFrameHubDropsForSlowSubscriberInsteadOfBlocking(t *testing.T) {
	hub := NewFrameHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	for i := uint64(1); i <= 64; i++ {
		frame := domain.NewFrame(i, 1, 1, domain.Diff{}, nil, nil, false)
		if err := hub.Broadcast(frame); err != nil {
			t.Fatalf("Broadcast at tick %d: %v", i, err)
		}
	}
}

