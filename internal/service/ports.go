package service

// Sender delivers frames to the device. *connection.Manager satisfies it.
type Sender interface {
	Send(frame string) error
	Connected() bool
}

// Event is a UI update pushed to whoever renders the gateway state.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// UI event types.
const (
	EventConnection     = "connection"
	EventStatusWord     = "status_word"
	EventNavigate       = "navigate"
	EventReload         = "reload"
	EventAlert          = "alert"
	EventStatusMessages = "status_messages"
	EventHeating        = "heating"
	EventHeatingPicker  = "heating_picker"
	EventBells          = "bells"
	EventBellStrike     = "bell_strike"
	EventAlarms         = "alarms"
	EventAlarmStats     = "alarm_stats"
	EventAlarmForm      = "alarm_form"
	EventLanguage       = "language"
	EventConfig         = "config"
	EventPIN            = "pin"
	EventOTA            = "ota"
)

// Publisher receives UI events. Implementations must not block.
type Publisher interface {
	Publish(ev Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ev Event)

func (f PublisherFunc) Publish(ev Event) { f(ev) }

type fanout []Publisher

func (f fanout) Publish(ev Event) {
	for _, p := range f {
		p.Publish(ev)
	}
}

// Fanout publishes every event to each non-nil publisher in order.
func Fanout(pubs ...Publisher) Publisher {
	out := make(fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Confirmer asks a person a yes/no question before a destructive command.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed and Declined are fixed answers, used when the caller already asked.
var (
	Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })
	Declined  Confirmer = ConfirmFunc(func(string) bool { return false })
)

// Alert is a blocking notice the UI must acknowledge.
type Alert struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}
