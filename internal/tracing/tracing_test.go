package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/tracing"
	"go.opentelemetry.io/otel"
)

func TestSetup(t *testing.T) {
	shutdown, err := tracing.Setup("siter-test", "http://localhost:14268/api/traces")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "span")
	assert.True(t, span.SpanContext().IsValid())

	assert.NoError(t, shutdown(context.Background()))
}
