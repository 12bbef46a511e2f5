package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/engram-dev/engram/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestLevels(t *testing.T) {
	testCases := []struct {
		level       string
		expectDebug bool
		expectInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"invalid", false, true}, // falls back to info
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tc.level, buf)

			logger.Debug("debug message")
			logger.Info("info message")

			out := buf.String()
			if tc.expectDebug {
				gt.S(t, out).Contains("debug message")
			} else {
				gt.S(t, out).NotContains("debug message")
			}
			if tc.expectInfo {
				gt.S(t, out).Contains("info message")
			} else {
				gt.S(t, out).NotContains("info message")
			}
		})
	}
}

func TestContextPropagation(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("debug", buf).With("component", "test")

	ctx := logging.With(context.Background(), logger)
	gt.Equal(t, logging.From(ctx), logger)

	logging.From(ctx).Info("context message")
	gt.S(t, buf.String()).Contains("context message")
	gt.S(t, buf.String()).Contains("component")
}

func TestFromWithoutLogger(t *testing.T) {
	gt.V(t, logging.From(context.Background())).NotNil()
}
