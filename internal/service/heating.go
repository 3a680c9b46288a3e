package service

import (
	"fmt"
	"sync"
	"time"

	"campanario/internal/logger"
	"campanario/internal/protocol"
)

const (
	// DefaultHeatingMinutes is the configured run length before anyone changes it.
	DefaultHeatingMinutes = 30
	countdownStep         = time.Second
)

// HeatingView is the published heating state.
type HeatingView struct {
	On                bool   `json:"on"`
	Running           bool   `json:"running"`
	RemainingSeconds  int    `json:"remaining_seconds"`
	ConfiguredMinutes int    `json:"configured_minutes"`
	Display           string `json:"display"`
	AwaitingRemaining bool   `json:"awaiting_remaining"`
}

type countdown struct {
	ticker Ticker
	done   chan struct{}
}

// Heating owns the heating on/off state, the local countdown and the minute picker.
// Toggle is optimistic; the next status word corrects it.
type Heating struct {
	mu sync.Mutex

	sender Sender
	pub    Publisher
	board  *StatusBoard
	tr     *Translator
	clock  Clock
	log    *logger.Logger

	on                bool
	remaining         int
	configured        Digits
	countdown         *countdown
	awaitingRemaining bool
	picker            MinutePicker
	onTimeout         func()
}

func NewHeating(sender Sender, pub Publisher, board *StatusBoard, tr *Translator, clock Clock, log *logger.Logger) *Heating {
	return &Heating{
		sender:     sender,
		pub:        pub,
		board:      board,
		tr:         tr,
		clock:      clock,
		log:        log,
		configured: DigitsOf(DefaultHeatingMinutes),
	}
}

// View returns the current heating state.
func (h *Heating) View() HeatingView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewLocked()
}

func (h *Heating) viewLocked() HeatingView {
	v := HeatingView{
		On:                h.on,
		Running:           h.countdown != nil,
		RemainingSeconds:  h.remaining,
		ConfiguredMinutes: h.configured.Total(),
		AwaitingRemaining: h.awaitingRemaining,
	}
	if v.Running {
		v.Display = fmt.Sprintf("%03d:%02d", h.remaining/60, h.remaining%60)
	} else {
		v.Display = fmt.Sprintf("%03dm", v.ConfiguredMinutes)
	}
	return v
}

func (h *Heating) publish(v HeatingView) {
	h.pub.Publish(Event{Type: EventHeating, Data: v})
}

// Toggle flips the heating state locally and sends the matching command.
func (h *Heating) Toggle() error {
	if !h.sender.Connected() {
		h.board.Post(LevelError, h.tr.T("sin_conexion"))
		return ErrNotConnected
	}

	h.mu.Lock()
	h.on = !h.on
	var frame string
	if h.on {
		minutes := h.configured.Total()
		frame = protocol.WithValue(protocol.PrefixHeatingOn, minutes)
		if minutes > 0 {
			h.startCountdownLocked(minutes * 60)
		}
	} else {
		frame = protocol.Plain(protocol.CmdHeatingOff)
		h.stopCountdownLocked()
	}
	h.awaitingRemaining = false
	view := h.viewLocked()
	h.mu.Unlock()

	h.publish(view)
	if err := h.sender.Send(frame); err != nil {
		h.log.Errorw("heating_send_failed", "frame", frame, "err", err)
		h.board.Post(LevelError, h.tr.T("sin_conexion"))
		return err
	}
	h.log.Infow("heating_toggled", "on", view.On, "minutes", view.ConfiguredMinutes)
	return nil
}

// SetOn turns heating on or off; a request matching the current state is a no-op.
func (h *Heating) SetOn(on bool) error {
	h.mu.Lock()
	same := h.on == on
	h.mu.Unlock()
	if same {
		return nil
	}
	return h.Toggle()
}

func (h *Heating) TurnOn() error  { return h.SetOn(true) }
func (h *Heating) TurnOff() error { return h.SetOn(false) }

// ApplyStatus reconciles with the CALEFACCION bit of a status word.
func (h *Heating) ApplyStatus(on bool) {
	h.mu.Lock()
	request := false
	if on {
		h.on = true
		if h.countdown == nil && !h.awaitingRemaining {
			h.awaitingRemaining = true
			request = true
		}
	} else {
		h.on = false
		h.awaitingRemaining = false
		h.stopCountdownLocked()
	}
	view := h.viewLocked()
	h.mu.Unlock()

	h.publish(view)
	if request {
		if err := h.sender.Send(protocol.Plain(protocol.CmdGetHeatingTime)); err != nil {
			h.log.Warnw("heating_remaining_request_failed", "err", err)
			h.mu.Lock()
			h.awaitingRemaining = false
			h.mu.Unlock()
		}
	}
}

// HandleMessage consumes heating frames.
func (h *Heating) HandleMessage(msg protocol.Message) {
	if msg.Err != nil {
		h.log.Warnw("heating_frame_invalid", "frame", msg.Raw, "err", msg.Err)
		if msg.Kind == protocol.KindHeatingTime {
			h.mu.Lock()
			h.awaitingRemaining = false
			h.mu.Unlock()
		}
		return
	}

	h.mu.Lock()
	var alert string
	switch msg.Kind {
	case protocol.KindHeatingTime:
		h.awaitingRemaining = false
		if msg.Int > 0 {
			h.on = true
			h.startCountdownLocked(msg.Int)
		} else {
			h.on = false
			h.stopCountdownLocked()
		}
	case protocol.KindHeatingOn:
		h.on = true
		if msg.HasInt && msg.Int > 0 {
			h.startCountdownLocked(msg.Int * 60)
		}
	case protocol.KindHeatingOff:
		h.on = false
		h.awaitingRemaining = false
		h.stopCountdownLocked()
	case protocol.KindHeatingError:
		h.on = false
		h.awaitingRemaining = false
		h.stopCountdownLocked()
		alert = msg.Text
		if alert == "" {
			alert = h.tr.T("calefaccion_error")
		}
	default:
		h.mu.Unlock()
		return
	}
	view := h.viewLocked()
	h.mu.Unlock()

	h.publish(view)
	if alert != "" {
		h.log.Warnw("heating_device_error", "message", alert)
		h.pub.Publish(Event{Type: EventAlert, Data: Alert{Source: "heating", Message: alert}})
	}
}

// OnDisconnected forgets any outstanding remaining-time request so the
// next status word after reconnect asks again.
func (h *Heating) OnDisconnected() {
	h.mu.Lock()
	h.awaitingRemaining = false
	h.mu.Unlock()
}

// startCountdownLocked replaces any running countdown.
func (h *Heating) startCountdownLocked(seconds int) {
	h.stopCountdownLocked()
	h.remaining = seconds
	cd := &countdown{ticker: h.clock.NewTicker(countdownStep), done: make(chan struct{})}
	h.countdown = cd
	go h.runCountdown(cd)
}

func (h *Heating) stopCountdownLocked() {
	if h.countdown == nil {
		return
	}
	h.countdown.ticker.Stop()
	close(h.countdown.done)
	h.countdown = nil
	h.remaining = 0
}

func (h *Heating) runCountdown(cd *countdown) {
	for {
		select {
		case <-cd.done:
			return
		case <-cd.ticker.C():
			if !h.tick(cd) {
				return
			}
		}
	}
}

// tick advances cd by one second. It reports false once cd is no longer the
// active countdown, either superseded or finished.
func (h *Heating) tick(cd *countdown) bool {
	h.mu.Lock()
	if h.countdown != cd {
		h.mu.Unlock()
		return false
	}
	if h.remaining > 0 {
		h.remaining--
	}
	if h.remaining > 0 {
		view := h.viewLocked()
		h.mu.Unlock()
		h.publish(view)
		return true
	}
	h.stopCountdownLocked()
	h.on = false
	view := h.viewLocked()
	hook := h.onTimeout
	h.mu.Unlock()

	h.publish(view)
	h.log.Infow("heating_countdown_finished")
	if err := h.sender.Send(protocol.Plain(protocol.CmdHeatingTimeout)); err != nil {
		h.log.Warnw("heating_timeout_send_failed", "err", err)
	}
	if hook != nil {
		hook()
	}
	return false
}

// OnTimeout registers a hook run when a countdown reaches zero.
func (h *Heating) OnTimeout(f func()) {
	h.mu.Lock()
	h.onTimeout = f
	h.mu.Unlock()
}

// OpenPicker starts editing a copy of the configured minutes.
func (h *Heating) OpenPicker() PickerView {
	h.mu.Lock()
	h.picker.Open(h.configured)
	v := h.picker.View()
	h.mu.Unlock()
	h.pub.Publish(Event{Type: EventHeatingPicker, Data: v})
	return v
}

// StepPicker increments (up) or decrements one picker position.
func (h *Heating) StepPicker(pos int, up bool) (PickerView, error) {
	h.mu.Lock()
	var err error
	if up {
		err = h.picker.Increment(pos)
	} else {
		err = h.picker.Decrement(pos)
	}
	v := h.picker.View()
	h.mu.Unlock()
	if err != nil {
		return v, err
	}
	if v.LimitWarning {
		h.board.Post(LevelError, h.tr.T("limite_minutos"))
	}
	h.pub.Publish(Event{Type: EventHeatingPicker, Data: v})
	return v, nil
}

// AcceptPicker stores the picker value as the configured minutes.
func (h *Heating) AcceptPicker() (HeatingView, error) {
	h.mu.Lock()
	d, err := h.picker.Accept()
	if err != nil {
		view := h.viewLocked()
		h.mu.Unlock()
		h.board.Post(LevelError, h.tr.T("limite_minutos"))
		return view, err
	}
	h.configured = d
	view := h.viewLocked()
	h.mu.Unlock()
	h.publish(view)
	return view, nil
}

// SetMinutes stores the configured minutes directly.
func (h *Heating) SetMinutes(minutes int) (HeatingView, error) {
	if minutes < 0 || minutes > MaxHeatingMinutes {
		return h.View(), invalid("minutes", "limite_minutos")
	}
	h.mu.Lock()
	h.configured = DigitsOf(minutes)
	view := h.viewLocked()
	h.mu.Unlock()
	h.publish(view)
	return view, nil
}

// PickerView returns the picker state.
func (h *Heating) PickerView() PickerView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.picker.View()
}
