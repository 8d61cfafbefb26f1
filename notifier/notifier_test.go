package notifier

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopBroadcast(t *testing.T) {
	n := Noop{}
	err := n.Broadcast(context.Background(), TopicQueue, Event{Type: EventOrderReady})
	assert.NoError(t, err)
}

func TestEventJSONShape(t *testing.T) {
	event := Event{
		Type: EventOrderDelivered,
		Payload: map[string]interface{}{
			"order_id":      "abc",
			"ticket_number": 7,
		},
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "order.delivered", decoded["type"])
	payload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, "abc", payload["order_id"])
	assert.Equal(t, float64(7), payload["ticket_number"])
}
