package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEachSubscriberOnce(t *testing.T) {
	h := NewHub()

	// an admin who is also the manager listens under both keys
	manager, cleanupManager := h.Subscribe(EmployeeKey("mgr-1"), AdminsKey)
	defer cleanupManager()
	submitter, cleanupSubmitter := h.Subscribe(EmployeeKey("emp-1"))
	defer cleanupSubmitter()
	other, cleanupOther := h.Subscribe(EmployeeKey("emp-2"))
	defer cleanupOther()

	n := h.Publish(Event{Name: "proposal.decided", Data: "x"}, EmployeeKey("emp-1"), EmployeeKey("mgr-1"), AdminsKey)
	assert.Equal(t, 2, n)

	assert.Len(t, manager, 1)
	assert.Len(t, submitter, 1)
	assert.Len(t, other, 0)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe(EmployeeKey("emp-1"))
	assert.Equal(t, 1, h.SubscriberCount(EmployeeKey("emp-1")))

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.SubscriberCount(EmployeeKey("emp-1")))
	assert.Equal(t, 0, h.Publish(Event{Name: "x"}, EmployeeKey("emp-1")))
}

func TestHub_FullBufferDrops(t *testing.T) {
	h := NewHub()
	_, cleanup := h.Subscribe("k")
	defer cleanup()

	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, h.Publish(Event{Name: "x"}, "k"))
	}
	assert.Equal(t, 0, h.Publish(Event{Name: "x"}, "k"))
}

func TestEvent_WriteTo(t *testing.T) {
	var buf bytes.Buffer
	_, err := Event{ID: "1", Name: "proposal.submitted", Data: map[string]string{"status": "submitted"}}.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "id: 1\nevent: proposal.submitted\ndata: {\"status\":\"submitted\"}\n\n", buf.String())
}
