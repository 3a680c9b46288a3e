package service

import (
	"context"
	"testing"

	"campanario/internal/models"
	"campanario/internal/protocol"
	"campanario/internal/repository"
	"campanario/internal/router"
)

func TestCore_OnConnectedRequestsSnapshots(t *testing.T) {
	hs := newHarness(t)
	hs.core.OnConnected()

	got := hs.sender.sent()
	want := []string{"GET_CAMPANARIO", "GET_IDIOMA", "GET_ALARMAS_WEB", "GET_STATS_ALARMAS_WEB", "GET_VERSION_OTA"}
	if len(got) != len(want) {
		t.Fatalf("frames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames = %v, want %v", got, want)
		}
	}
	ev, ok := hs.pub.last(EventConnection)
	if !ok || ev.Data != true {
		t.Fatalf("expected connection=true event")
	}
}

func TestCore_OnDisconnected(t *testing.T) {
	hs := newHarness(t)
	hs.deliver("ESTADO_CAMPANARIO:32")
	hs.core.OnDisconnected(nil)

	ev, ok := hs.pub.last(EventConnection)
	if !ok || ev.Data != false {
		t.Fatalf("expected connection=false event")
	}
	if hs.core.Heating.View().AwaitingRemaining {
		t.Fatalf("pending remaining-time request should be forgotten")
	}
}

func TestCore_RoutesReachEveryController(t *testing.T) {
	hs := newHarness(t)
	r := router.New(nil)
	hs.core.Routes(r)

	frames := map[string]int{
		"ESTADO_CAMPANARIO:0":   1,
		"PROTECCION:ON":         1,
		"TIEMPO_CALEFACCION:60": 1,
		"ALARMA_CREADA_WEB:1":   1,
		"PIN_OK":                1,
		"VERSION_OTA:1.0.0":     2,
		"NO_UPDATE":             1,
		"IDIOMA_ACTUAL:es":      1,
		"SECUENCIAACTIVA:0":     1,
		"HOLA":                  0,
	}
	for frame, want := range frames {
		if got := r.Dispatch(protocol.Decode(frame)); got != want {
			t.Errorf("%s matched %d routes, want %d", frame, got, want)
		}
	}
	if hs.core.Language.Current() != models.LangES || !hs.core.Config.Unlocked() {
		t.Fatalf("frames did not reach the controllers")
	}
}

func TestCore_JournalRouteAndTimeoutHook(t *testing.T) {
	sender := newFakeSender()
	clock := newFakeClock()
	repo := &fakeEventRepo{}
	journal := NewEventLogService(repo, nil)
	core := NewCore(Deps{Sender: sender, Publisher: &recorder{}, Journal: journal, Clock: clock})
	t.Cleanup(func() {
		core.Heating.mu.Lock()
		core.Heating.stopCountdownLocked()
		core.Heating.mu.Unlock()
	})

	r := router.New(nil)
	core.Routes(r)
	if got := r.Dispatch(protocol.Decode("PROTECCION:ON")); got != 2 {
		t.Fatalf("expected bells and journal routes, got %d", got)
	}

	r.Dispatch(protocol.Decode("TIEMPO_CALEFACCION:1"))
	cd := activeCountdown(t, core.Heating)
	core.Heating.tick(cd)

	entries := repo.entries()
	if len(entries) != 2 {
		t.Fatalf("expected protection and timeout entries, got %+v", entries)
	}
	if entries[1].Type != JournalHeating || entries[1].Description != "Heating countdown finished" {
		t.Fatalf("unexpected timeout entry %+v", entries[1])
	}
}

func TestMonitoringService_GetState(t *testing.T) {
	hs := newHarness(t)
	mon := NewMonitoringService(hs.core)

	s, err := mon.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !s.Connected || s.Status != nil || s.Page != HomePage || s.Language != models.LangCA {
		t.Fatalf("unexpected baseline snapshot %+v", s)
	}
	if s.Heating.Display != "030m" || s.Alarms.Stats.FreeSlots != -1 {
		t.Fatalf("unexpected baseline snapshot %+v", s)
	}

	hs.deliver("ESTADO_CAMPANARIO:64")
	s, _ = mon.GetState(context.Background())
	if s.Status == nil || !s.Status.NoInternet {
		t.Fatalf("status flags missing: %+v", s.Status)
	}
	if s.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt must be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mon.GetState(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestNewService_Wiring(t *testing.T) {
	hs := newHarness(t)
	repos := &repository.Repository{Auth: &mockAuthRepo{}, EventRepo: &fakeEventRepo{}}
	journal := NewEventLogService(repos.EventRepo, nil)
	svc := NewService(hs.core, repos, journal, AuthConfig{SigningKey: "k"})

	if svc.Heating == nil || svc.Bells == nil || svc.Alarms == nil || svc.Config == nil ||
		svc.OTA == nil || svc.Language == nil || svc.Monitoring == nil || svc.EventLog == nil || svc.Authorization == nil {
		t.Fatalf("incomplete service %+v", svc)
	}
	if _, err := svc.IssueConfigToken(1); err != nil {
		t.Fatalf("auth not configured: %v", err)
	}
}

func TestFanoutSkipsNil(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := Fanout(a, nil, b)
	f.Publish(Event{Type: EventReload})
	if a.count(EventReload) != 1 || b.count(EventReload) != 1 {
		t.Fatalf("fanout should reach every publisher")
	}
}
