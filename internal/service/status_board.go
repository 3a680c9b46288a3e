package service

import (
	"sync"
	"time"
)

const (
	maxStatusMessages = 3
	statusMessageTTL  = 5 * time.Second
)

// Level classifies a transient status message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type StatusMessage struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	Level     Level     `json:"level"`
	PostedAt  time.Time `json:"posted_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StatusBoard keeps the few most recent transient messages.
type StatusBoard struct {
	mu     sync.Mutex
	msgs   []StatusMessage
	nextID uint64
	clock  Clock
	pub    Publisher
}

func NewStatusBoard(clock Clock, pub Publisher) *StatusBoard {
	return &StatusBoard{clock: clock, pub: pub}
}

// Post adds a message, drops the oldest beyond the cap and schedules its expiry.
func (b *StatusBoard) Post(level Level, text string) {
	now := b.clock.Now()

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.msgs = append(b.msgs, StatusMessage{
		ID:        id,
		Text:      text,
		Level:     level,
		PostedAt:  now,
		ExpiresAt: now.Add(statusMessageTTL),
	})
	if len(b.msgs) > maxStatusMessages {
		b.msgs = b.msgs[len(b.msgs)-maxStatusMessages:]
	}
	snapshot := b.copyLocked()
	b.mu.Unlock()

	b.clock.AfterFunc(statusMessageTTL, func() { b.expire(id) })
	b.pub.Publish(Event{Type: EventStatusMessages, Data: snapshot})
}

func (b *StatusBoard) expire(id uint64) {
	b.mu.Lock()
	idx := -1
	for i, m := range b.msgs {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return
	}
	b.msgs = append(b.msgs[:idx], b.msgs[idx+1:]...)
	snapshot := b.copyLocked()
	b.mu.Unlock()

	b.pub.Publish(Event{Type: EventStatusMessages, Data: snapshot})
}

// Messages returns the live messages, oldest first.
func (b *StatusBoard) Messages() []StatusMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyLocked()
}

func (b *StatusBoard) copyLocked() []StatusMessage {
	out := make([]StatusMessage, len(b.msgs))
	copy(out, b.msgs)
	return out
}
