package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, CorrelationIDFromContext(ctx), "missing id yields empty string")

	ctx = WithCorrelationID(ctx, "corr-42")
	assert.Equal(t, "corr-42", CorrelationIDFromContext(ctx))
}

func TestCorrelationIDOverwrite(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "first")
	ctx = WithCorrelationID(ctx, "second")

	assert.Equal(t, "second", CorrelationIDFromContext(ctx))
}
