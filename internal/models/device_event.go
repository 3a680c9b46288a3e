package models

import "time"

// DeviceEvent is a single journal entry derived from a device frame.
type DeviceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // HEATING | PROTECTION | ALARM | OTA | LANGUAGE | NAVIGATION | STATUS | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
