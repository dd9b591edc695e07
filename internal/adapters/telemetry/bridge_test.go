package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/pave/internal/adapters/telemetry"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/pave/internal/core/ports/mocks"
	"go.trai.ch/pave/internal/ui/style"
	"go.uber.org/mock/gomock"
)

func bridgedTracer(t *testing.T, bridge *telemetry.Bridge) ports.Tracer {
	t.Helper()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerWithProvider(tp, "test")
}

func TestBridge_ReportsTargetSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		assert.True(t, strings.HasPrefix(msg, style.Check+" hello ("), msg)
	}).Times(1)
	mockLogger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "broken failed after")
		assert.Contains(t, msg, "kaput")
	}).Times(1)

	tracer := bridgedTracer(t, telemetry.NewBridge(mockLogger))

	_, ok := tracer.Start(context.Background(), "hello", ports.WithSpanKind("executable"))
	ok.End()

	_, failed := tracer.Start(context.Background(), "broken", ports.WithSpanKind("executable"))
	failed.RecordError(errors.New("kaput"))
	failed.End()
}

func TestBridge_IgnoresSpansWithoutKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No calls expected on the logger.
	tracer := bridgedTracer(t, telemetry.NewBridge(mocks.NewMockLogger(ctrl)))

	_, span := tracer.Start(context.Background(), "build")
	span.End()
}

func TestBridge_NilLogger(t *testing.T) {
	tracer := bridgedTracer(t, telemetry.NewBridge(nil))

	_, span := tracer.Start(context.Background(), "hello", ports.WithSpanKind("library"))
	span.End()
}
