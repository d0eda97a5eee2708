package dashboard

import "testing"

func TestClientSubscribeAndIsSubscribed(t *testing.T) {
	c := NewClient(nil, 4)

	if c.IsSubscribed("X") {
		t.Fatal("expected no subscription before Subscribe")
	}

	c.Subscribe([]string{"X", "Y"})
	if !c.IsSubscribed("X") || !c.IsSubscribed("Y") {
		t.Fatal("expected X and Y to be subscribed")
	}
	if c.IsSubscribed("Z") {
		t.Fatal("expected Z to remain unsubscribed")
	}

	c.Unsubscribe([]string{"X"})
	if c.IsSubscribed("X") {
		t.Fatal("expected X to be unsubscribed")
	}
	if !c.IsSubscribed("Y") {
		t.Fatal("expected Y to remain subscribed")
	}
}

func TestClientSubscribeAllShortCircuits(t *testing.T) {
	c := NewClient(nil, 4)
	c.SubscribeAll()

	if !c.IsSubscribed("anything") {
		t.Fatal("expected SubscribeAll to subscribe to every instrument")
	}
}

func TestClientSendDropsWhenBufferFull(t *testing.T) {
	c := NewClient(nil, 2)

	if !c.Send([]byte("1")) || !c.Send([]byte("2")) {
		t.Fatal("expected first two sends to succeed within buffer capacity")
	}
	if c.Send([]byte("3")) {
		t.Fatal("expected third send to be dropped on a full buffer")
	}
	if c.Dropped != 1 {
		t.Fatalf("expected Dropped=1, got %d", c.Dropped)
	}
}
