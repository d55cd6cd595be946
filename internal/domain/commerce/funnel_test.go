package commerce

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartEvent_RequiresToken(t *testing.T) {
	_, err := NewCartEvent(uuid.New(), "")
	assert.Error(t, err)
}

func TestCartEvent_MarkAbandoned_Idempotent(t *testing.T) {
	e, err := NewCartEvent(uuid.New(), "tok-1")
	require.NoError(t, err)

	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e.MarkAbandoned(first)
	require.NotNil(t, e.AbandonedAt)
	assert.True(t, e.AbandonedAt.Equal(first))

	e.MarkAbandoned(first.Add(time.Hour))
	assert.True(t, e.AbandonedAt.Equal(first), "repeated sweep must not move the timestamp")
}

func TestCheckoutEvent_Complete(t *testing.T) {
	e, err := NewCheckoutEvent(uuid.New(), "chk-1")
	require.NoError(t, err)

	val := decimal.RequireFromString("120.00")
	e.Apply(CheckoutEventPatch{CheckoutValue: &val, ItemCount: intPtr(3)})

	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	e.Complete("900001", at)

	assert.True(t, e.Completed)
	assert.Equal(t, "900001", e.ExternalOrderID)
	require.NotNil(t, e.CompletedAt)
	assert.True(t, e.CompletedAt.Equal(at))
	assert.False(t, e.IsAbandoned)
}

func TestCheckoutEvent_CompleteWinsOverAbandoned(t *testing.T) {
	e, err := NewCheckoutEvent(uuid.New(), "chk-2")
	require.NoError(t, err)

	e.MarkAbandoned(time.Now())
	require.True(t, e.IsAbandoned)

	e.Complete("900002", time.Now())
	assert.True(t, e.Completed)
	assert.False(t, e.IsAbandoned)
	assert.Nil(t, e.AbandonedAt)

	// A later sweep must not re-abandon a completed checkout.
	e.MarkAbandoned(time.Now())
	assert.False(t, e.IsAbandoned)
}

func TestCheckoutEvent_Complete_Idempotent(t *testing.T) {
	e, err := NewCheckoutEvent(uuid.New(), "chk-3")
	require.NoError(t, err)

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e.Complete("900003", first)
	e.Complete("900099", first.Add(time.Hour))

	assert.Equal(t, "900003", e.ExternalOrderID)
	assert.True(t, e.CompletedAt.Equal(first))
}

func intPtr(i int) *int { return &i }
