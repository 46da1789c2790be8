package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	evt, err := NewEvent("SaleFinalized", map[string]string{"sale_id": "s-1"}, at)
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "SaleFinalized", evt.EventType)
	assert.Equal(t, at, evt.Timestamp)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	assert.Equal(t, "s-1", payload["sale_id"])
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	a, _ := NewEvent("A", nil, time.Now())
	b, _ := NewEvent("B", nil, time.Now())
	require.NoError(t, r.Publish(ctx, "k", a))
	require.NoError(t, r.Publish(ctx, "k", b))

	assert.Len(t, r.Events(""), 2)
	assert.Len(t, r.Events("B"), 1)
	assert.NoError(t, NewNopPublisher().Publish(ctx, "k", a))
}
