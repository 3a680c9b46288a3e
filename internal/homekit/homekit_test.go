package homekit

import (
	"context"
	"errors"
	"testing"

	"campanario/internal/service"
)

type fakeHeating struct {
	service.HeatingControl
	on    bool
	err   error
	calls []bool
}

func (f *fakeHeating) View() service.HeatingView { return service.HeatingView{On: f.on} }

func (f *fakeHeating) SetOn(on bool) error {
	f.calls = append(f.calls, on)
	if f.err != nil {
		return f.err
	}
	f.on = on
	return nil
}

type fakeBells struct {
	service.BellControl
	err       error
	triggered []service.Sequence
}

func (f *fakeBells) Trigger(seq service.Sequence) error {
	f.triggered = append(f.triggered, seq)
	return f.err
}

func TestBridge_PublishMirrorsHeating(t *testing.T) {
	b := New(Config{}, nil)
	b.Publish(service.Event{Type: service.EventHeating, Data: service.HeatingView{On: true}})
	if !b.heatingSwitch.Switch.On.GetValue() {
		t.Fatalf("switch should be on")
	}
	b.Publish(service.Event{Type: service.EventHeating, Data: "garbage"})
	if !b.heatingSwitch.Switch.On.GetValue() {
		t.Fatalf("unexpected payload must be ignored")
	}
	b.Publish(service.Event{Type: service.EventHeating, Data: service.HeatingView{On: false}})
	if b.heatingSwitch.Switch.On.GetValue() {
		t.Fatalf("switch should be off")
	}
}

func TestBridge_BindSeedsSwitch(t *testing.T) {
	b := New(Config{}, nil)
	b.Bind(&fakeHeating{on: true}, nil)
	if !b.heatingSwitch.Switch.On.GetValue() {
		t.Fatalf("Bind should copy the current heating state")
	}
}

func TestBridge_RemoteHeating(t *testing.T) {
	heating := &fakeHeating{}
	b := New(Config{}, nil)
	b.Bind(heating, nil)

	b.remoteHeating(true)
	if len(heating.calls) != 1 || !heating.calls[0] || !heating.on {
		t.Fatalf("SetOn calls = %v", heating.calls)
	}

	heating.err = service.ErrNotConnected
	b.heatingSwitch.Switch.On.SetValue(false)
	b.remoteHeating(false)
	if !b.heatingSwitch.Switch.On.GetValue() {
		t.Fatalf("failed update must revert the switch to the real state")
	}
}

func TestBridge_RemoteMisaIsMomentary(t *testing.T) {
	bells := &fakeBells{}
	b := New(Config{}, nil)
	b.Bind(nil, bells)

	b.misaSwitch.Switch.On.SetValue(true)
	b.remoteMisa(true)
	if len(bells.triggered) != 1 || bells.triggered[0] != service.SeqMisa {
		t.Fatalf("triggered = %v", bells.triggered)
	}
	if b.misaSwitch.Switch.On.GetValue() {
		t.Fatalf("misa switch should spring back to off")
	}

	b.remoteMisa(false)
	bells.err = errors.New("locked")
	b.remoteMisa(true)
	if len(bells.triggered) != 2 || b.misaSwitch.Switch.On.GetValue() {
		t.Fatalf("triggered = %v", bells.triggered)
	}
}

func TestBridge_RunRequiresBind(t *testing.T) {
	b := New(Config{StoragePath: t.TempDir()}, nil)
	if err := b.Run(context.Background()); !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound, got %v", err)
	}
}
