package service

import (
	"sync"

	"campanario/internal/logger"
	"campanario/internal/protocol"
)

// Pages the UI can be sent to.
const (
	HomePage     = "/index.html"
	SequencePage = "/Campanas.html"
)

// Synchronizer owns the device status word and applies it to the other controllers.
type Synchronizer struct {
	mu    sync.Mutex
	word  protocol.StatusWord
	known bool
	page  string

	sender  Sender
	pub     Publisher
	heating *Heating
	bells   *Bells
	log     *logger.Logger
}

func NewSynchronizer(sender Sender, pub Publisher, heating *Heating, bells *Bells, log *logger.Logger) *Synchronizer {
	return &Synchronizer{sender: sender, pub: pub, heating: heating, bells: bells, log: log, page: HomePage}
}

// RequestStatus asks the device for a fresh status word.
func (s *Synchronizer) RequestStatus() error {
	return s.sender.Send(protocol.Plain(protocol.CmdGetStatus))
}

// Status returns the last status word and whether one was ever received.
func (s *Synchronizer) Status() (protocol.StatusWord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.word, s.known
}

// Page returns the page the UI is on.
func (s *Synchronizer) Page() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetPage records a page change made by the UI itself.
func (s *Synchronizer) SetPage(path string) {
	s.mu.Lock()
	s.page = path
	s.mu.Unlock()
}

func (s *Synchronizer) HandleMessage(msg protocol.Message) {
	switch msg.Kind {
	case protocol.KindStatus:
		if msg.Err != nil {
			s.log.Warnw("status_word_invalid", "frame", msg.Raw, "err", msg.Err)
			return
		}
		s.Apply(msg.Status)
	case protocol.KindRedirect:
		if msg.Text == "" {
			return
		}
		s.navigate(msg.Text)
	case protocol.KindActiveSequence:
		s.log.Debugw("active_sequence", "value", msg.Int)
	}
}

// Apply runs the status word through navigation, heating and protection, in that order.
func (s *Synchronizer) Apply(w protocol.StatusWord) {
	s.mu.Lock()
	s.word = w
	s.known = true
	goSequence := w.Has(protocol.BitSecuencia) && s.page != SequencePage
	s.mu.Unlock()

	s.pub.Publish(Event{Type: EventStatusWord, Data: w.Flags()})
	if goSequence {
		s.navigate(SequencePage)
	}
	s.heating.ApplyStatus(w.Has(protocol.BitCalefaccion))
	s.bells.SetProtection(w.Has(protocol.BitProteccionCampanadas))
}

func (s *Synchronizer) navigate(path string) {
	s.mu.Lock()
	s.page = path
	s.mu.Unlock()
	s.log.Infow("navigate", "path", path)
	s.pub.Publish(Event{Type: EventNavigate, Data: path})
}
