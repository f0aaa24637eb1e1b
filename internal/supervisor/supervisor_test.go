// Recommendarr - AI-Powered Media Recommendations for Your Media Stack
// Copyright 2026 Recommendarr Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recommendarr/recommendarr

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

type fakeServer struct {
	mu         sync.Mutex
	started    chan struct{}
	stop       chan struct{}
	serveErr   error
	shutdowns  int
	stopOnce   sync.Once
	shutdownCh chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		started:    make(chan struct{}),
		stop:       make(chan struct{}),
		shutdownCh: make(chan struct{}, 1),
	}
}

func (f *fakeServer) ListenAndServe() error {
	close(f.started)
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdowns++
	f.mu.Unlock()
	f.stopOnce.Do(func() { close(f.stop) })
	return nil
}

func (f *fakeServer) shutdownCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdowns
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	server := newFakeServer()
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-server.started:
	case <-time.After(2 * time.Second):
		t.Fatal("server never started")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if server.shutdownCount() != 1 {
		t.Errorf("shutdowns = %d, want 1", server.shutdownCount())
	}
}

func TestHTTPServiceSurfacesListenError(t *testing.T) {
	server := newFakeServer()
	server.serveErr = errors.New("address already in use")
	svc := NewHTTPService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.serveErr) {
		t.Errorf("Serve() = %v, want listen error", err)
	}
}

type fakeGCStore struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (f *fakeGCStore) RunGC() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls < len(f.results) {
		err := f.results[f.calls]
		f.calls++
		return err
	}
	f.calls++
	return badger.ErrNoRewrite
}

func (f *fakeGCStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestGCServiceCollectsUntilNoRewrite(t *testing.T) {
	// Two successful rewrites then a clean no-op: one tick should issue
	// exactly three calls.
	store := &fakeGCStore{results: []error{nil, nil, badger.ErrNoRewrite}}
	svc := NewGCService(store, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for store.callCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("calls = %d, want >= 3", store.callCount())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestTreeRunsServices(t *testing.T) {
	tree := NewTree(slog.New(slog.NewTextHandler(io.Discard, nil)), DefaultTreeConfig())

	started := make(chan struct{})
	tree.AddSyncService(serviceFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("supervised service never started")
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}

type serviceFunc func(ctx context.Context) error

func (f serviceFunc) Serve(ctx context.Context) error { return f(ctx) }
