package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"transactionId": "1700000000001",
		"vendor":        "Corner Cafe",
		"total":         "45.50",
	}

	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestEvent_ToJSON(t *testing.T) {
	evt := CategoryUpdated(map[string]string{"name": "Dining", "color": "#ff8800"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "category.updated", decoded["type"])
	assert.Equal(t, "category", decoded["entity"])
	assert.NotEmpty(t, decoded["timestamp"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Dining", payload["name"])
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{"transaction created", TransactionCreated(nil), "transaction.created"},
		{"transaction updated", TransactionUpdated(nil), "transaction.updated"},
		{"transaction deleted", TransactionDeleted(nil), "transaction.deleted"},
		{"category created", CategoryCreated(nil), "category.created"},
		{"category updated", CategoryUpdated(nil), "category.updated"},
		{"category deleted", CategoryDeleted(nil), "category.deleted"},
		{"currency updated", CurrencyUpdated(nil), "currency.updated"},
		{"backup restored", BackupRestored(nil), "backup.restored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Type)
		})
	}
}
