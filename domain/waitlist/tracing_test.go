package waitlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestWaitlistRepository_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "alice", "0x01")
	require.NoError(t, err)

	_, err = repo.Insert(ctx, "alice", "0x02")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	byStatus := map[codes.Code]int{}
	for _, span := range recorder.Ended() {
		if span.Name() == "waitlist.Insert" {
			byStatus[span.Status().Code]++
		}
	}

	assert.Equal(t, 1, byStatus[codes.Unset])
	assert.Equal(t, 1, byStatus[codes.Error])
}
