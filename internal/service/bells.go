package service

import (
	"sync"
	"time"

	"campanario/internal/logger"
	"campanario/internal/protocol"
)

const strikeDisplay = 400 * time.Millisecond

// Sequence is a manual bell-ringing sequence.
type Sequence string

const (
	SeqMisa     Sequence = protocol.CmdMisa
	SeqDifuntos Sequence = protocol.CmdDifuntos
	SeqFiesta   Sequence = protocol.CmdFiesta
)

func (s Sequence) Valid() bool {
	return s == SeqMisa || s == SeqDifuntos || s == SeqFiesta
}

type BellsView struct {
	Protected bool `json:"protected"`
	Striking  int  `json:"striking"` // bell currently animated, 0 when idle
}

// Bells triggers manual sequences and tracks the protection lockout.
type Bells struct {
	mu sync.Mutex

	sender Sender
	pub    Publisher
	board  *StatusBoard
	tr     *Translator
	clock  Clock
	log    *logger.Logger

	protected   bool
	striking    int
	strikeTimer Timer
}

func NewBells(sender Sender, pub Publisher, board *StatusBoard, tr *Translator, clock Clock, log *logger.Logger) *Bells {
	return &Bells{sender: sender, pub: pub, board: board, tr: tr, clock: clock, log: log}
}

func (b *Bells) View() BellsView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BellsView{Protected: b.protected, Striking: b.striking}
}

// Trigger starts a sequence. It is refused while protection is on.
func (b *Bells) Trigger(seq Sequence) error {
	if !seq.Valid() {
		return invalid("sequence", "accion_invalida")
	}
	b.mu.Lock()
	locked := b.protected
	b.mu.Unlock()
	if locked {
		b.board.Post(LevelError, b.tr.T("campanas_protegidas"))
		return ErrProtected
	}
	if !b.sender.Connected() {
		b.board.Post(LevelError, b.tr.T("sin_conexion"))
		return ErrNotConnected
	}
	if err := b.sender.Send(protocol.Plain(string(seq))); err != nil {
		return err
	}
	b.log.Infow("bells_sequence_sent", "sequence", string(seq))
	return nil
}

// Stop asks for confirmation and sends PARAR. A declined prompt returns (false, nil).
func (b *Bells) Stop(c Confirmer) (bool, error) {
	if !c.Confirm(b.tr.T("confirmar_parar")) {
		return false, nil
	}
	if !b.sender.Connected() {
		b.board.Post(LevelError, b.tr.T("sin_conexion"))
		return true, ErrNotConnected
	}
	if err := b.sender.Send(protocol.Plain(protocol.CmdStop)); err != nil {
		return true, err
	}
	b.log.Infow("bells_stop_sent")
	return true, nil
}

// SetProtection locks or unlocks the manual triggers.
func (b *Bells) SetProtection(on bool) {
	b.mu.Lock()
	changed := b.protected != on
	b.protected = on
	view := BellsView{Protected: b.protected, Striking: b.striking}
	b.mu.Unlock()
	if changed {
		b.log.Infow("bells_protection", "on", on)
		b.pub.Publish(Event{Type: EventBells, Data: view})
	}
}

// Strike animates one bell for a short moment.
func (b *Bells) Strike(bell int) {
	if bell != 1 && bell != 2 {
		b.log.Debugw("bells_strike_ignored", "bell", bell)
		return
	}
	b.mu.Lock()
	if b.strikeTimer != nil {
		b.strikeTimer.Stop()
	}
	b.striking = bell
	b.strikeTimer = b.clock.AfterFunc(strikeDisplay, b.clearStrike)
	b.mu.Unlock()
	b.pub.Publish(Event{Type: EventBellStrike, Data: bell})
}

func (b *Bells) clearStrike() {
	b.mu.Lock()
	b.striking = 0
	b.strikeTimer = nil
	b.mu.Unlock()
	b.pub.Publish(Event{Type: EventBellStrike, Data: 0})
}

func (b *Bells) HandleMessage(msg protocol.Message) {
	switch msg.Kind {
	case protocol.KindProtectionOn:
		b.SetProtection(true)
	case protocol.KindProtectionOff:
		b.SetProtection(false)
	case protocol.KindBellStrike:
		if msg.Err != nil {
			return
		}
		b.Strike(msg.Int)
	}
}
