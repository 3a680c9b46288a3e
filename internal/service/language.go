package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"campanario/internal/logger"
	"campanario/internal/models"
	"campanario/internal/protocol"
)

// LanguagePreferenceKey is the persisted preference holding the UI language.
const LanguagePreferenceKey = "idioma_campanario"

const preferenceTimeout = 2 * time.Second

// PreferenceStore persists small settings. repository.PreferenceRepo satisfies it.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Language keeps the in-memory, persisted and device language aligned.
// The device value wins whenever it disagrees.
type Language struct {
	mu      sync.Mutex
	current models.Language

	store  PreferenceStore
	sender Sender
	pub    Publisher
	board  *StatusBoard
	tr     *Translator
	log    *logger.Logger
}

// NewLanguage starts from the stored preference, or the default.
func NewLanguage(store PreferenceStore, sender Sender, pub Publisher, board *StatusBoard, tr *Translator, log *logger.Logger) *Language {
	l := &Language{store: store, sender: sender, pub: pub, board: board, tr: tr, log: log, current: models.DefaultLanguage}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), preferenceTimeout)
		v, ok, err := store.Get(ctx, LanguagePreferenceKey)
		cancel()
		switch {
		case err != nil:
			log.Warnw("language_preference_load_failed", "err", err)
		case ok && models.Language(strings.ToLower(v)).Valid():
			l.current = models.Language(strings.ToLower(v))
		}
	}
	tr.SetLanguage(l.current)
	return l
}

func (l *Language) Current() models.Language {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Change switches language locally and tells the device when connected.
func (l *Language) Change(lang models.Language) error {
	if !lang.Valid() {
		return invalid("idioma", "idioma_invalido")
	}
	l.set(lang)
	if !l.sender.Connected() {
		return nil
	}
	return l.sender.Send(protocol.WithValue(protocol.PrefixSetLanguage, lang))
}

// RequestCurrent asks the device for its language.
func (l *Language) RequestCurrent() error {
	return l.sender.Send(protocol.Plain(protocol.CmdGetLanguage))
}

// set overwrites, persists and publishes once; unchanged values do nothing.
func (l *Language) set(lang models.Language) bool {
	l.mu.Lock()
	if l.current == lang {
		l.mu.Unlock()
		return false
	}
	l.current = lang
	l.mu.Unlock()

	l.tr.SetLanguage(lang)
	l.persist(lang)
	l.log.Infow("language_changed", "language", string(lang))
	l.pub.Publish(Event{Type: EventLanguage, Data: lang})
	return true
}

func (l *Language) persist(lang models.Language) {
	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), preferenceTimeout)
	defer cancel()
	if err := l.store.Set(ctx, LanguagePreferenceKey, string(lang)); err != nil {
		l.log.Warnw("language_preference_save_failed", "err", err)
	}
}

func (l *Language) HandleMessage(msg protocol.Message) {
	switch msg.Kind {
	case protocol.KindLanguageCurrent, protocol.KindLanguageChanged, protocol.KindLanguageServer:
		if msg.Err != nil {
			l.log.Warnw("language_frame_invalid", "frame", msg.Raw, "err", msg.Err)
			return
		}
		l.set(msg.Language)
	case protocol.KindLanguageError:
		l.log.Warnw("language_device_error", "message", msg.Text)
		text := msg.Text
		if text == "" {
			text = l.tr.T("error_idioma")
		}
		l.pub.Publish(Event{Type: EventAlert, Data: Alert{Source: "language", Message: text}})
	}
}
