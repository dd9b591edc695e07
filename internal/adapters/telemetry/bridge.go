package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/pave/internal/ui/style"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor and reports finished target spans to the logger.
// Spans without a target kind are ignored.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart does nothing; targets are reported when they finish.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() || !isTargetSpan(s) {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "target failed"
		}
		b.logger.Warn(fmt.Sprintf("%s %s failed after %s: %s", style.Cross, s.Name(), elapsed, desc))
		return
	}

	b.logger.Info(fmt.Sprintf("%s %s (%s)", style.Check, s.Name(), elapsed))
}

func isTargetSpan(s sdktrace.ReadOnlySpan) bool {
	for _, attr := range s.Attributes() {
		if string(attr.Key) == KindAttribute {
			return true
		}
	}
	return false
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
