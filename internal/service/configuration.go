package service

import (
	"context"
	"strings"
	"sync"

	"campanario/internal/logger"
	"campanario/internal/models"
	"campanario/internal/protocol"
)

// ConfigView is the published configuration state.
type ConfigView struct {
	Unlocked bool                  `json:"unlocked"`
	Telegram models.TelegramConfig `json:"telegram"`
	Version  string                `json:"version,omitempty"`
}

// Configuration handles the PIN gate, Telegram settings and system reset.
// Replies carry no request id, so one reply resolves every waiter of its type.
type Configuration struct {
	mu sync.Mutex

	sender Sender
	enc    *protocol.Encoder
	pub    Publisher
	board  *StatusBoard
	tr     *Translator
	log    *logger.Logger

	unlocked bool
	telegram models.TelegramConfig
	version  string

	pinWaiters      []chan bool
	telegramWaiters []chan models.TelegramConfig
}

func NewConfiguration(sender Sender, enc *protocol.Encoder, pub Publisher, board *StatusBoard, tr *Translator, log *logger.Logger) *Configuration {
	return &Configuration{
		sender:   sender,
		enc:      enc,
		pub:      pub,
		board:    board,
		tr:       tr,
		log:      log,
		telegram: models.DefaultTelegramConfig(),
	}
}

func (c *Configuration) View() ConfigView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConfigView{Unlocked: c.unlocked, Telegram: c.telegram, Version: c.version}
}

// Unlocked reports whether the last PIN check succeeded.
func (c *Configuration) Unlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unlocked
}

// Lock closes the configuration section again.
func (c *Configuration) Lock() {
	c.mu.Lock()
	c.unlocked = false
	c.mu.Unlock()
	c.pub.Publish(Event{Type: EventPIN, Data: false})
}

// VerifyPIN sends the PIN and waits for PIN_OK or PIN_ERROR.
func (c *Configuration) VerifyPIN(ctx context.Context, pin string) (bool, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return false, invalid("pin", "pin_incorrecto")
	}
	if !c.sender.Connected() {
		c.board.Post(LevelError, c.tr.T("sin_conexion"))
		return false, ErrNotConnected
	}
	ch := make(chan bool, 1)
	c.mu.Lock()
	c.pinWaiters = append(c.pinWaiters, ch)
	c.mu.Unlock()

	if err := c.sender.Send(protocol.WithValue(protocol.PrefixVerifyPIN, pin)); err != nil {
		c.dropPINWaiter(ch)
		return false, err
	}
	select {
	case ok := <-ch:
		return ok, nil
	case <-ctx.Done():
		c.dropPINWaiter(ch)
		return false, ctx.Err()
	}
}

func (c *Configuration) dropPINWaiter(ch chan bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.pinWaiters {
		if w == ch {
			c.pinWaiters = append(c.pinWaiters[:i], c.pinWaiters[i+1:]...)
			return
		}
	}
}

func (c *Configuration) dropTelegramWaiter(ch chan models.TelegramConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.telegramWaiters {
		if w == ch {
			c.telegramWaiters = append(c.telegramWaiters[:i], c.telegramWaiters[i+1:]...)
			return
		}
	}
}

// LoadTelegram fetches the device settings. When disconnected it returns
// the local copy together with ErrNotConnected.
func (c *Configuration) LoadTelegram(ctx context.Context) (models.TelegramConfig, error) {
	if !c.sender.Connected() {
		return c.View().Telegram, ErrNotConnected
	}
	ch := make(chan models.TelegramConfig, 1)
	c.mu.Lock()
	c.telegramWaiters = append(c.telegramWaiters, ch)
	c.mu.Unlock()

	if err := c.sender.Send(protocol.Plain(protocol.CmdGetTelegram)); err != nil {
		c.dropTelegramWaiter(ch)
		return c.View().Telegram, err
	}
	select {
	case cfg := <-ch:
		return cfg, nil
	case <-ctx.Done():
		c.dropTelegramWaiter(ch)
		return c.View().Telegram, ctx.Err()
	}
}

// SaveTelegram sends the settings and keeps them as the local copy.
func (c *Configuration) SaveTelegram(cfg models.TelegramConfig) error {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Location = strings.TrimSpace(cfg.Location)
	if cfg.Name == "" {
		c.board.Post(LevelError, c.tr.T("nombre_dispositivo"))
		return invalid("nombre", "nombre_dispositivo")
	}
	if !c.sender.Connected() {
		c.board.Post(LevelError, c.tr.T("sin_conexion"))
		return ErrNotConnected
	}
	frame, err := c.enc.WithJSON(protocol.PrefixSaveTelegram, cfg)
	if err != nil {
		return err
	}
	if err := c.sender.Send(frame); err != nil {
		return err
	}
	c.mu.Lock()
	c.telegram = cfg
	view := ConfigView{Unlocked: c.unlocked, Telegram: c.telegram, Version: c.version}
	c.mu.Unlock()

	c.board.Post(LevelSuccess, c.tr.T("config_guardada"))
	c.pub.Publish(Event{Type: EventConfig, Data: view})
	return nil
}

// ResetSystem reboots the device after confirmation.
func (c *Configuration) ResetSystem(confirm Confirmer) (bool, error) {
	if !confirm.Confirm(c.tr.T("confirmar_reinicio")) {
		return false, nil
	}
	if !c.sender.Connected() {
		c.board.Post(LevelError, c.tr.T("sin_conexion"))
		return true, ErrNotConnected
	}
	if err := c.sender.Send(protocol.Plain(protocol.CmdResetSystem)); err != nil {
		return true, err
	}
	c.log.Infow("config_reset_sent")
	c.board.Post(LevelInfo, c.tr.T("reiniciando"))
	return true, nil
}

func (c *Configuration) HandleMessage(msg protocol.Message) {
	switch msg.Kind {
	case protocol.KindPinOK, protocol.KindPinError:
		ok := msg.Kind == protocol.KindPinOK
		c.mu.Lock()
		c.unlocked = ok
		waiters := c.pinWaiters
		c.pinWaiters = nil
		c.mu.Unlock()
		for _, w := range waiters {
			w <- ok
		}
		if ok {
			c.board.Post(LevelSuccess, c.tr.T("pin_correcto"))
		} else {
			c.board.Post(LevelError, c.tr.T("pin_incorrecto"))
		}
		c.pub.Publish(Event{Type: EventPIN, Data: ok})
	case protocol.KindTelegramConfig:
		if msg.Err != nil {
			c.log.Warnw("telegram_config_invalid", "err", msg.Err)
			return
		}
		c.mu.Lock()
		c.telegram = msg.Telegram
		waiters := c.telegramWaiters
		c.telegramWaiters = nil
		view := ConfigView{Unlocked: c.unlocked, Telegram: c.telegram, Version: c.version}
		c.mu.Unlock()
		for _, w := range waiters {
			w <- msg.Telegram
		}
		c.pub.Publish(Event{Type: EventConfig, Data: view})
	case protocol.KindOTAVersion:
		c.mu.Lock()
		c.version = msg.Text
		view := ConfigView{Unlocked: c.unlocked, Telegram: c.telegram, Version: c.version}
		c.mu.Unlock()
		c.pub.Publish(Event{Type: EventConfig, Data: view})
	}
}
