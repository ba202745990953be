package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNewHealthChecker(t *testing.T) {
	hc := NewHealthChecker("1.2.3")

	if hc == nil {
		t.Fatal("NewHealthChecker returned nil")
	}
	resp := hc.Check()
	if resp.Status != StatusHealthy {
		t.Errorf("Empty checker status = %s, want healthy", resp.Status)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", resp.Version)
	}
}

func TestRegisterReadinessCheck(t *testing.T) {
	hc := NewHealthChecker("")

	called := false
	hc.RegisterReadinessCheck("ready-test", func() Check {
		called = true
		return Check{Status: StatusHealthy}
	})

	// Should not be called for regular Check()
	hc.Check()
	if called {
		t.Error("readiness check should not be called for Check()")
	}

	resp := hc.CheckReadiness()
	if !called {
		t.Error("readiness check was not called")
	}
	if got := resp.Checks["ready-test"].Name; got != "ready-test" {
		t.Errorf("Unnamed check should take its key, got %q", got)
	}
}

func TestCheckStatusAggregation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker("")
			for i, s := range tt.statuses {
				status := s
				hc.RegisterCheck(string(rune('a'+i)), func() Check { return Check{Status: status} })
			}
			if got := hc.Check().Status; got != tt.want {
				t.Errorf("Status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUptime(t *testing.T) {
	hc := NewHealthChecker("")
	hc.started = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	hc.now = func() time.Time { return hc.started.Add(90 * time.Second) }

	if got := hc.Check().Uptime; got != "1m30s" {
		t.Errorf("Uptime = %q, want 1m30s", got)
	}
}

func TestSessionsCheck(t *testing.T) {
	open := SessionsCheck(func() (int, bool) { return 3, false })()
	if open.Status != StatusHealthy || open.Details["active"] != 3 {
		t.Errorf("Unexpected open check %+v", open)
	}

	closed := SessionsCheck(func() (int, bool) { return 0, true })()
	if closed.Status != StatusUnhealthy {
		t.Errorf("Closed manager status = %s, want unhealthy", closed.Status)
	}
}

func TestGoroutineCheck(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		count int
		want  Status
	}{
		{"under limit", 100, 10, StatusHealthy},
		{"over limit", 100, 101, StatusDegraded},
		{"no limit", 0, 1 << 20, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := goroutineCheck(tt.limit, func() int { return tt.count })()
			if check.Status != tt.want {
				t.Errorf("Status = %s, want %s", check.Status, tt.want)
			}
		})
	}
}

func TestMemoryCheck(t *testing.T) {
	tests := []struct {
		name       string
		alloc, sys uint64
		want       Status
	}{
		{"normal", 100, 1000, StatusHealthy},
		{"high", 950, 1000, StatusDegraded},
		{"unknown sys", 10, 0, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := memoryCheck(func() (uint64, uint64) { return tt.alloc, tt.sys })()
			if check.Status != tt.want {
				t.Errorf("Status = %s, want %s", check.Status, tt.want)
			}
		})
	}

	if MemoryCheck()().Name != "memory" {
		t.Error("MemoryCheck should report the memory check")
	}
}

func TestHandlers(t *testing.T) {
	hc := NewHealthChecker("")
	hc.RegisterCheck("degraded", func() Check { return Check{Status: StatusDegraded} })
	hc.RegisterReadinessCheck("degraded", func() Check { return Check{Status: StatusDegraded} })
	hc.RegisterLivenessCheck("alive", SimpleCheck("alive"))

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{"health tolerates degraded", hc.HTTPHandler(), http.StatusOK},
		{"readiness is strict", hc.ReadinessHandler(), http.StatusServiceUnavailable},
		{"liveness", hc.LivenessHandler(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest("GET", "/health", nil))

			if rr.Code != tt.want {
				t.Errorf("Code = %d, want %d", rr.Code, tt.want)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var resp Response
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
		})
	}
}

func TestConcurrentCheckRegistration(t *testing.T) {
	hc := NewHealthChecker("")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			hc.RegisterCheck(string(rune('a'+i)), SimpleCheck("x"))
		}(i)
		go func() {
			defer wg.Done()
			hc.Check()
		}()
	}
	wg.Wait()

	if got := len(hc.Check().Checks); got != 20 {
		t.Errorf("Registered %d checks, want 20", got)
	}
}
