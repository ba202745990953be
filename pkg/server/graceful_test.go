package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/dd0wney/promptflow/pkg/config"
)

func testConfig() config.ServerConfig {
	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	return ln
}

func TestGracefulServer_ServesAndStopsOnCancel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	gs := NewGracefulServer(testConfig(), handler, nil)
	ln := listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("Body = %q, want ok", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if !gs.IsShuttingDown() {
		t.Error("IsShuttingDown should be true after shutdown")
	}
	select {
	case <-gs.ShutdownChannel():
	default:
		t.Error("ShutdownChannel should be closed")
	}
}

func TestGracefulServer_OnShutdownEndsStreams(t *testing.T) {
	stop := make(chan struct{})
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(started)
		<-stop
	})

	gs := NewGracefulServer(testConfig(), handler, nil)
	gs.RegisterOnShutdown(func() { close(stop) })
	ln := listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	<-started

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("long-lived handler blocked shutdown")
	}
}

func TestGracefulServer_ShutdownIsIdempotent(t *testing.T) {
	gs := NewGracefulServer(testConfig(), http.NotFoundHandler(), nil)

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("First shutdown: %v", err)
	}
	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Second shutdown: %v", err)
	}
}

func TestGracefulServer_RunListenError(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	cfg := testConfig()
	cfg.Addr = ln.Addr().String()
	gs := NewGracefulServer(cfg, http.NotFoundHandler(), nil)

	if err := gs.Run(context.Background()); err == nil {
		t.Error("Expected error for address in use")
	}
}

// TestGracefulServer_ConfigReload tests configuration reload via SIGHUP
func TestGracefulServer_ConfigReload(t *testing.T) {
	gs := NewGracefulServer(testConfig(), http.NotFoundHandler(), nil)

	reloaded := make(chan struct{}, 1)
	gs.SetConfigReloadFunc(func() error {
		reloaded <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, listen(t)) }()

	// Give Serve time to install its handler.
	time.Sleep(100 * time.Millisecond)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("Failed to send SIGHUP: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("SIGHUP did not trigger a reload")
	}

	if gs.IsShuttingDown() {
		t.Error("Server should not be shutting down after SIGHUP")
	}

	cancel()
	<-done
}

// TestGracefulServer_ReloadConfig tests the ReloadConfig method
func TestGracefulServer_ReloadConfig(t *testing.T) {
	gs := NewGracefulServer(testConfig(), http.NotFoundHandler(), nil)

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig without a function should be a no-op, got %v", err)
	}

	calls := 0
	gs.SetConfigReloadFunc(func() error {
		calls++
		return nil
	})
	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Reload function called %d times, want 1", calls)
	}
}

// TestGracefulServer_ReloadConfigWithError tests error handling in config reload
func TestGracefulServer_ReloadConfigWithError(t *testing.T) {
	gs := NewGracefulServer(testConfig(), http.NotFoundHandler(), nil)

	want := errors.New("config file not found")
	gs.SetConfigReloadFunc(func() error { return want })

	if err := gs.ReloadConfig(); !errors.Is(err, want) {
		t.Errorf("ReloadConfig() = %v, want %v", err, want)
	}
}
