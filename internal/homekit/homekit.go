// Package homekit exposes heating and the mass sequence as HomeKit switches.
package homekit

import (
	"context"
	"errors"
	"sync"

	"campanario/internal/logger"
	"campanario/internal/service"

	"github.com/brutella/hc"
	"github.com/brutella/hc/accessory"
	hclog "github.com/brutella/hc/log"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"
)

const (
	defaultName  = "Campanario"
	defaultPin   = "80000000"
	manufacturer = "campanario"
	model        = "Bell tower gateway"
)

// ErrNotBound is returned by Run before Bind was called.
var ErrNotBound = errors.New("homekit: bridge has no controls bound")

type Config struct {
	Name        string
	Pin         string
	StoragePath string
	Port        string
}

// Bridge mirrors heating into a HomeKit switch and offers a momentary
// switch that rings the mass sequence.
type Bridge struct {
	cfg Config
	log *logger.Logger

	heatingSwitch *accessory.Switch
	misaSwitch    *accessory.Switch

	mu      sync.Mutex
	heating service.HeatingControl
	bells   service.BellControl
}

func New(cfg Config, log *logger.Logger) *Bridge {
	if cfg.Name == "" {
		cfg.Name = defaultName
	}
	if cfg.Pin == "" {
		cfg.Pin = defaultPin
	}
	if log == nil {
		log = logger.Nop()
	}
	b := &Bridge{
		cfg: cfg,
		log: log,
		heatingSwitch: accessory.NewSwitch(accessory.Info{
			Name:         cfg.Name + " Calefacción",
			SerialNumber: "1",
			Manufacturer: manufacturer,
			Model:        model,
		}),
		misaSwitch: accessory.NewSwitch(accessory.Info{
			Name:         cfg.Name + " Misa",
			SerialNumber: "2",
			Manufacturer: manufacturer,
			Model:        model,
		}),
	}
	b.heatingSwitch.Switch.On.OnValueRemoteUpdate(b.remoteHeating)
	b.misaSwitch.Switch.On.OnValueRemoteUpdate(b.remoteMisa)
	return b
}

// Bind attaches the controls that remote updates are applied to.
func (b *Bridge) Bind(heating service.HeatingControl, bells service.BellControl) {
	b.mu.Lock()
	b.heating = heating
	b.bells = bells
	b.mu.Unlock()
	if heating != nil {
		b.heatingSwitch.Switch.On.SetValue(heating.View().On)
	}
}

// Publish keeps the heating switch in step with the gateway.
func (b *Bridge) Publish(ev service.Event) {
	switch ev.Type {
	case service.EventHeating:
		if v, ok := ev.Data.(service.HeatingView); ok {
			b.heatingSwitch.Switch.On.SetValue(v.On)
		}
	case service.EventConnection:
		if connected, ok := ev.Data.(bool); ok && !connected {
			b.misaSwitch.Switch.On.SetValue(false)
		}
	}
}

func (b *Bridge) remoteHeating(on bool) {
	b.mu.Lock()
	heating := b.heating
	b.mu.Unlock()
	if heating == nil {
		b.heatingSwitch.Switch.On.SetValue(!on)
		return
	}
	if err := heating.SetOn(on); err != nil {
		b.log.Errorw("homekit_heating_failed", "on", on, "err", err)
		b.heatingSwitch.Switch.On.SetValue(heating.View().On)
		return
	}
	b.log.Infow("homekit_heating", "on", on)
}

// remoteMisa rings the sequence and springs back to off.
func (b *Bridge) remoteMisa(on bool) {
	defer b.misaSwitch.Switch.On.SetValue(false)
	if !on {
		return
	}
	b.mu.Lock()
	bells := b.bells
	b.mu.Unlock()
	if bells == nil {
		return
	}
	if err := bells.Trigger(service.SeqMisa); err != nil {
		b.log.Errorw("homekit_misa_failed", "err", err)
		return
	}
	b.log.Infow("homekit_misa")
}

// Run serves the accessories until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	b.mu.Lock()
	bound := b.heating != nil || b.bells != nil
	b.mu.Unlock()
	if !bound {
		return ErrNotBound
	}

	info := &zapio.Writer{Log: b.log.Desugar().Named("hap"), Level: zapcore.DebugLevel}
	defer func() { _ = info.Close() }()
	hclog.Info.SetOutput(info)
	hclog.Debug.SetOutput(info)

	t, err := hc.NewIPTransport(hc.Config{
		Pin:         b.cfg.Pin,
		StoragePath: b.cfg.StoragePath,
		Port:        b.cfg.Port,
	}, b.heatingSwitch.Accessory, b.misaSwitch.Accessory)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		<-t.Stop()
		b.log.Infow("homekit_stopped")
	}()

	b.log.Infow("homekit_started", "name", b.cfg.Name, "port", b.cfg.Port)
	t.Start()
	return nil
}
