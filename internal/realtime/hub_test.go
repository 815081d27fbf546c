package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu   sync.Mutex
	msgs [][]byte
	fail bool
}

func (f *fakeClient) Send(message []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false
	}
	f.msgs = append(f.msgs, message)
	return true
}

func (f *fakeClient) Close() {}

func TestHub_BroadcastToOwnerOnly(t *testing.T) {
	h := NewHub()
	alice1, alice2, bob := &fakeClient{}, &fakeClient{}, &fakeClient{}
	h.Register("alice", alice1)
	h.Register("alice", alice2)
	h.Register("bob", bob)

	require.Equal(t, 2, h.Broadcast("alice", []byte("hi")))
	require.Len(t, alice1.msgs, 1)
	require.Len(t, alice2.msgs, 1)
	require.Empty(t, bob.msgs)
}

func TestHub_UnregisterCleansUp(t *testing.T) {
	h := NewHub()
	c := &fakeClient{}
	h.Register("alice", c)
	require.Equal(t, 1, h.Connections("alice"))

	h.Unregister("alice", c)
	require.Equal(t, 0, h.Connections("alice"))
	require.Equal(t, 0, h.Broadcast("alice", []byte("x")))
}

func TestHub_FailedSendNotCounted(t *testing.T) {
	h := NewHub()
	h.Register("alice", &fakeClient{fail: true})
	h.Register("alice", &fakeClient{})
	require.Equal(t, 1, h.Broadcast("alice", []byte("x")))
}

func TestHub_Publish(t *testing.T) {
	h := NewHub()
	c := &fakeClient{}
	h.Register("alice", c)

	h.Publish(Event{Type: "journal_created", ID: "j-1", UserID: "alice"})

	require.Len(t, c.msgs, 1)
	var got Event
	require.NoError(t, json.Unmarshal(c.msgs[0], &got))
	require.Equal(t, Event{Type: "journal_created", ID: "j-1", UserID: "alice", Version: 1}, got)
}
