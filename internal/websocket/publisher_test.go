package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_ImplementsEventPublisher(t *testing.T) {
	var publisher EventPublisher = NewHub()

	client := newMockClient("client-1")
	publisher.(*Hub).Register(client)

	publisher.Publish(BackupRestored(map[string]int{"splits": 3}))

	require.Eventually(t, func() bool {
		return len(client.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, string(client.GetMessages()[0]), "backup.restored")
}

func TestNoOpPublisher(t *testing.T) {
	var publisher EventPublisher = &NoOpPublisher{}

	// Must accept events without side effects
	publisher.Publish(TransactionCreated(nil))
}
