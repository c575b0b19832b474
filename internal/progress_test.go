package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Signing in...",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Signing in...",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgress_LogsMessageVerbatim(t *testing.T) {
	originalLevel := logLevel
	originalOut := progressOut
	defer func() {
		SetLogLevel(originalLevel)
		progressOut = originalOut
	}()

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogLevel(LogLevelInfo)
	SetLogger(zap.New(core))
	progressOut = &bytes.Buffer{}

	if err := ShowProgress(context.Background(), "Uploading 100% of 5%d items...", func() error { return nil }); err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Message != "Uploading 100% of 5%d items..." {
		t.Errorf("logged %q", entries[0].Message)
	}
}

func TestShowSpinner(t *testing.T) {
	var buf bytes.Buffer
	err := showSpinner(context.Background(), &buf, "Saving profile", func() error {
		time.Sleep(150 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showSpinner() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Saving profile") || !strings.Contains(out, "✓") {
		t.Errorf("showSpinner() output = %q", out)
	}
}

func TestShowSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	var buf bytes.Buffer
	err := showSpinner(ctx, &buf, "Waiting", func() error {
		<-release
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("showSpinner() error = %v, want deadline exceeded", err)
	}
	if !strings.Contains(buf.String(), "✗") {
		t.Errorf("showSpinner() output = %q, want failure mark", buf.String())
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		steps   []ProgressStep
		wantErr bool
	}{
		{
			name: "successful steps",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return nil }},
			},
			wantErr: false,
		},
		{
			name: "step with error",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return errors.New("step error") }},
			},
			wantErr: true,
		},
		{
			name:    "empty steps",
			steps:   []ProgressStep{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgressWithSteps(ctx, tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "Logged in")
	PrintError(&buf, "Invalid credentials")
	PrintInfo(&buf, "Check your inbox")
	PrintWarning(&buf, "Session is not durable")

	want := "Logged in\nInvalid credentials\nCheck your inbox\nWARNING: Session is not durable\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
