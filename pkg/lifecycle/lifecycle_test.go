package lifecycle_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/prognosis/pkg/lifecycle"
)

func TestNotReadyBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() error {
			count.Add(1)
			return nil
		})
	}

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup() error = %v", err)
	}
	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("should be ready after successful startup")
	}
}

func TestStartupFailureBlocksReady(t *testing.T) {
	lc := lifecycle.New()
	errBoom := errors.New("boom")

	lc.OnStartup(func() error { return nil })
	lc.OnStartup(func() error { return errBoom })

	err := lc.WaitForStartup()
	if !errors.Is(err, errBoom) {
		t.Fatalf("WaitForStartup() error = %v, want %v", err, errBoom)
	}
	if lc.Ready() {
		t.Error("should not be ready after a failed startup hook")
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() {
		<-release
	})

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("expected shutdown timeout error, got nil")
	}
}

func TestStartupFailuresJoined(t *testing.T) {
	lc := lifecycle.New()
	errA, errB := errors.New("storage"), errors.New("database")

	lc.OnStartup(func() error { return errA })
	lc.OnStartup(func() error { return errB })

	err := lc.WaitForStartup()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("WaitForStartup() error = %v, want both failures", err)
	}
}

func TestStartupHooksRunOnce(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	lc.OnStartup(func() error {
		count.Add(1)
		return nil
	})

	for range 2 {
		if err := lc.WaitForStartup(); err != nil {
			t.Fatalf("WaitForStartup() error = %v", err)
		}
	}
	if got := count.Load(); got != 1 {
		t.Errorf("hook ran %d times, want 1", got)
	}
}

func TestNotReadyAfterShutdown(t *testing.T) {
	lc := lifecycle.New()
	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup() error = %v", err)
	}
	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if lc.Ready() {
		t.Error("should not be ready after shutdown")
	}
}
