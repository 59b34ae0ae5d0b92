package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner executes an action while a spinner is shown.
// When stdout is not a terminal the action runs directly.
// Returns the action's error if any.
func RunWithSpinner(ctx context.Context, action func() error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{
		title: "Working...",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !IsTTY() {
		return action()
	}

	return runAction(ctx, action, func(wait func()) error {
		return spinner.New().Title(cfg.title).Action(wait).Run()
	})
}

// runAction runs action in a goroutine while show displays progress. show
// receives a function that blocks until the action finishes or ctx is done.
// runAction always waits for the action before returning, including when
// show fails or ctx is cancelled.
func runAction(ctx context.Context, action func() error, show func(wait func()) error) error {
	done := make(chan struct{})
	var actionErr error
	go func() {
		defer close(done)
		actionErr = action()
	}()

	showErr := show(func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
	})
	<-done

	if showErr != nil {
		return fmt.Errorf("spinner error: %w", showErr)
	}
	if actionErr != nil {
		return actionErr
	}
	return ctx.Err()
}
