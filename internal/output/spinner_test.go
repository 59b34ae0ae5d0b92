package output

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithSpinner_NoTTYRunsDirectly(t *testing.T) {
	DisableTTY()
	want := errors.New("boom")
	err := RunWithSpinner(context.Background(), func() error { return want }, WithTitle("copying"))
	assert.ErrorIs(t, err, want)
}

func TestRunAction_ReturnsActionResult(t *testing.T) {
	want := errors.New("copy failed")
	err := runAction(context.Background(), func() error { return want }, func(wait func()) error {
		wait()
		return nil
	})
	assert.ErrorIs(t, err, want)
}

func TestRunAction_WaitsForActionWhenDisplayFails(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool
	action := func() error {
		<-release
		finished.Store(true)
		return nil
	}
	displayErr := errors.New("interrupted")

	result := make(chan error, 1)
	go func() {
		result <- runAction(context.Background(), action, func(func()) error { return displayErr })
	}()

	select {
	case <-result:
		t.Fatal("returned while the action was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	err := <-result
	require.ErrorIs(t, err, displayErr)
	assert.True(t, finished.Load())
}

func TestRunAction_WaitsForActionWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	var finished atomic.Bool
	action := func() error {
		<-release
		finished.Store(true)
		return nil
	}

	result := make(chan error, 1)
	go func() {
		result <- runAction(ctx, action, func(wait func()) error {
			wait()
			return nil
		})
	}()

	cancel()
	select {
	case <-result:
		t.Fatal("returned while the action was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.ErrorIs(t, <-result, context.Canceled)
	assert.True(t, finished.Load())
}
