package service

import "testing"

func TestStatusBoard_KeepsNewestThreeAndExpires(t *testing.T) {
	clock := newFakeClock()
	pub := &recorder{}
	b := NewStatusBoard(clock, pub)

	for _, text := range []string{"uno", "dos", "tres", "cuatro"} {
		b.Post(LevelInfo, text)
	}
	msgs := b.Messages()
	if len(msgs) != maxStatusMessages || msgs[0].Text != "dos" || msgs[2].Text != "cuatro" {
		t.Fatalf("messages = %+v", msgs)
	}
	if !msgs[0].ExpiresAt.Equal(msgs[0].PostedAt.Add(statusMessageTTL)) {
		t.Fatalf("unexpected expiry %v", msgs[0].ExpiresAt)
	}
	if pub.count(EventStatusMessages) != 4 {
		t.Fatalf("expected one event per post, got %d", pub.count(EventStatusMessages))
	}

	if n := clock.fire(statusMessageTTL); n != 4 {
		t.Fatalf("expected 4 expiry timers, got %d", n)
	}
	if len(b.Messages()) != 0 {
		t.Fatalf("all messages should have expired: %+v", b.Messages())
	}
	// the message dropped by the cap publishes nothing when its timer fires
	if pub.count(EventStatusMessages) != 7 {
		t.Fatalf("events = %d, want 7", pub.count(EventStatusMessages))
	}
	ev, _ := pub.last(EventStatusMessages)
	if got := ev.Data.([]StatusMessage); len(got) != 0 {
		t.Fatalf("last event should carry an empty list, got %+v", got)
	}
}
