package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifyDeliversToSubscribedUser(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(7, client)

	h.Notify(7, Event{Type: EventRequestReceived, Payload: map[string]uint{"from_user_id": 3}})

	raw := <-client
	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	require.Equal(t, EventRequestReceived, event.Type)
}

func TestNotifyUnknownUserIsNoOp(t *testing.T) {
	h := NewHub()
	h.Notify(42, Event{Type: EventRequestAccepted})
}

func TestNotifyDoesNotReachOtherUsers(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(1, client)

	h.Notify(2, Event{Type: EventRequestDeclined})
	require.Empty(t, client)
}

func TestUnsubscribeClosesClient(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(5, client)
	h.Unsubscribe(5, client)

	_, open := <-client
	require.False(t, open)

	// Unsubscribing twice must not panic on a closed channel.
	h.Unsubscribe(5, client)
}

func TestSlowClientDoesNotBlockNotify(t *testing.T) {
	h := NewHub()
	client := make(Client) // unbuffered, nobody reading
	h.Subscribe(9, client)

	done := make(chan struct{})
	go func() {
		h.Notify(9, Event{Type: EventRequestReceived})
		close(done)
	}()
	<-done
}
