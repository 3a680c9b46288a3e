package service

import (
	"strings"
	"testing"

	"campanario/internal/models"
)

const twoAlarms = `ALARMAS_WEB:{"alarmas":[` +
	`{"id":1,"nombre":"Misa diaria","dia":7,"hora":8,"minuto":0,"accion":"Misa","habilitada":true},` +
	`{"id":2,"nombre":"Calefaccion domingo","dia":0,"hora":10,"minuto":30,"accion":"Calefaccion","duracion":45,"habilitada":false}]}`

func validFields() models.AlarmFields {
	return models.AlarmFields{Name: "Angelus", Day: 7, Hour: 12, Minute: 0, Action: models.ActionMisa}
}

func TestValidateAlarm(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(f *models.AlarmFields)
		field string
	}{
		{"valid", func(f *models.AlarmFields) {}, ""},
		{"empty name", func(f *models.AlarmFields) { f.Name = "   " }, "nombre"},
		{"long name", func(f *models.AlarmFields) { f.Name = strings.Repeat("a", MaxAlarmNameLength+1) }, "nombre"},
		{"max name", func(f *models.AlarmFields) { f.Name = strings.Repeat("ñ", MaxAlarmNameLength) }, ""},
		{"day above", func(f *models.AlarmFields) { f.Day = 8 }, "dia"},
		{"hour 24", func(f *models.AlarmFields) { f.Hour = 24 }, "hora"},
		{"minute 60", func(f *models.AlarmFields) { f.Minute = 60 }, "minuto"},
		{"unknown action", func(f *models.AlarmFields) { f.Action = "Boda" }, "accion"},
		{"duration 121", func(f *models.AlarmFields) { f.Duration = 121 }, "duracion"},
		{"duration 120", func(f *models.AlarmFields) { f.Duration = 120 }, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.edit(&f)
			err := ValidateAlarm(f)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok || ve.Field != tc.field {
				t.Fatalf("expected validation error on %q, got %v", tc.field, err)
			}
		})
	}
}

func TestAlarms_RequestSnapshotAndApply(t *testing.T) {
	hs := newHarness(t)
	a := hs.core.Alarms

	if err := a.RequestSnapshot(); err != nil {
		t.Fatalf("RequestSnapshot: %v", err)
	}
	if got := hs.sender.sent(); len(got) != 2 || got[0] != "GET_ALARMAS_WEB" || got[1] != "GET_STATS_ALARMAS_WEB" {
		t.Fatalf("unexpected frames %v", got)
	}
	if a.View().State != AlarmsLoading {
		t.Fatalf("expected LOADING")
	}

	hs.deliver(twoAlarms)
	v := a.View()
	if v.State != AlarmsLoaded || len(v.Alarms) != 2 {
		t.Fatalf("unexpected view %+v", v)
	}
	if v.Stats.Total != 2 || v.Stats.Enabled != 1 || v.Stats.Disabled != 1 || v.Stats.FreeSlots != -1 {
		t.Fatalf("stats should be derived from the cache: %+v", v.Stats)
	}
}

func TestAlarms_DeviceStatsWin(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(`STATS_ALARMAS_WEB:{"totalAlarmas":2,"habilitadas":2,"deshabilitadas":0,"espacioLibre":48}`, twoAlarms)

	s := hs.core.Alarms.View().Stats
	if s.Computed || s.FreeSlots != 48 || s.Enabled != 2 {
		t.Fatalf("device stats must not be overwritten by the snapshot: %+v", s)
	}
}

func TestAlarms_StatsParseFailureFallsBack(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms, "STATS_ALARMAS_WEB:{oops")

	s := hs.core.Alarms.View().Stats
	if !s.Computed || s.Total != 2 || s.FreeSlots != -1 {
		t.Fatalf("expected computed fallback: %+v", s)
	}
}

func TestAlarms_BadSnapshotKeepsCache(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms, "ALARMAS_WEB:not json")
	if n := len(hs.core.Alarms.View().Alarms); n != 2 {
		t.Fatalf("cache must survive a bad snapshot, got %d alarms", n)
	}
}

func TestAlarms_CreateHasNoOptimisticUpdate(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms)
	hs.sender.reset()

	if err := hs.core.Alarms.Create(validFields()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := hs.sender.sent()
	if len(got) != 1 || !strings.HasPrefix(got[0], "ADD_ALARMA_WEB:{") || !strings.Contains(got[0], `"habilitada":true`) {
		t.Fatalf("unexpected frames %v", got)
	}
	v := hs.core.Alarms.View()
	if len(v.Alarms) != 2 || v.State != AlarmsStale {
		t.Fatalf("cache must wait for the device: %+v", v)
	}
}

func TestAlarms_AckSchedulesRefetch(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms)
	hs.sender.reset()

	hs.core.Alarms.form.Name = "borrador"
	hs.deliver("ALARMA_CREADA_WEB:3")
	if hs.core.Alarms.View().Form.Name != "" {
		t.Fatalf("form should reset after a create ack")
	}
	if len(hs.sender.sent()) != 0 {
		t.Fatalf("refetch must wait for the delay")
	}
	if n := hs.clock.fire(alarmRefreshDelay); n != 1 {
		t.Fatalf("expected one refresh timer, got %d", n)
	}
	if n := hs.sender.count("GET_ALARMAS_WEB"); n != 1 {
		t.Fatalf("expected a refetch, got %v", hs.sender.sent())
	}
}

func TestAlarms_RepeatedAcksCoalesce(t *testing.T) {
	hs := newHarness(t)
	hs.deliver("ALARMA_ELIMINADA_WEB:1", "ALARMA_TOGGLED_WEB:2:ON")
	if n := hs.clock.pendingTimers(alarmRefreshDelay); n != 1 {
		t.Fatalf("expected one pending refresh, got %d", n)
	}
}

func TestAlarms_ToggleAckMessage(t *testing.T) {
	cases := []struct {
		frame string
		key   string
	}{
		{"ALARMA_TOGGLED_WEB:2:ON", "alarma_habilitada"},
		{"ALARMA_TOGGLED_WEB:2:false", "alarma_deshabilitada"},
		{"ALARMA_TOGGLED_WEB:2", "alarma_actualizada"},
	}
	for _, tc := range cases {
		t.Run(tc.frame, func(t *testing.T) {
			hs := newHarness(t)
			hs.deliver(tc.frame)
			msgs := hs.core.Board.Messages()
			if len(msgs) == 0 || msgs[len(msgs)-1].Text != hs.core.Tr.T(tc.key) {
				t.Fatalf("messages = %+v, want %q", msgs, hs.core.Tr.T(tc.key))
			}
			if n := hs.clock.pendingTimers(alarmRefreshDelay); n != 1 {
				t.Fatalf("expected a scheduled refresh, got %d", n)
			}
		})
	}
}

func TestAlarms_EditingSurvivesCreateAck(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms)
	a := hs.core.Alarms

	f, err := a.BeginEdit(2)
	if err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if f.Name != "Calefaccion domingo" || f.Duration != 45 {
		t.Fatalf("unexpected form %+v", f)
	}

	hs.deliver("ALARMA_CREADA_WEB:9")
	if v := a.View(); v.EditingID != 2 || v.Form.Name != "Calefaccion domingo" {
		t.Fatalf("create ack must not reset an edit in progress: %+v", v)
	}

	hs.deliver("ALARMA_MODIFICADA_WEB:2")
	if v := a.View(); v.EditingID != 0 || v.Form.Name != "" {
		t.Fatalf("modify ack ends the edit: %+v", v)
	}
}

func TestAlarms_UpdateKeepsEnabledFlag(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms)
	hs.sender.reset()

	f := validFields()
	if err := hs.core.Alarms.Update(2, f); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := hs.sender.sent()
	if len(got) != 1 || !strings.HasPrefix(got[0], "EDIT_ALARMA_WEB:") ||
		!strings.Contains(got[0], `"id":2`) || !strings.Contains(got[0], `"habilitada":false`) {
		t.Fatalf("unexpected frames %v", got)
	}
}

func TestAlarms_ToggleSendsInverse(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms)
	hs.sender.reset()

	if err := hs.core.Alarms.Toggle(1); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if got := hs.sender.sent(); len(got) != 1 || got[0] != `TOGGLE_ALARMA_WEB:{"id":1,"habilitada":false}` {
		t.Fatalf("unexpected frames %v", got)
	}
	wantErr(t, hs.core.Alarms.Toggle(99), ErrNotFound)
}

func TestAlarms_ToggleDisconnected(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms)
	hs.sender.setConnected(false)
	wantErr(t, hs.core.Alarms.Toggle(1), ErrNotConnected)
}

func TestAlarms_DeleteNeedsConfirmation(t *testing.T) {
	hs := newHarness(t)
	hs.deliver(twoAlarms)
	hs.sender.reset()

	var prompt string
	done, err := hs.core.Alarms.Delete(1, ConfirmFunc(func(p string) bool { prompt = p; return false }))
	if done || err != nil {
		t.Fatalf("declined delete = %v, %v", done, err)
	}
	if !strings.Contains(prompt, "Misa diaria") {
		t.Fatalf("prompt should name the alarm: %q", prompt)
	}
	if len(hs.sender.sent()) != 0 {
		t.Fatalf("declined delete must not send")
	}

	done, err = hs.core.Alarms.Delete(1, Confirmed)
	if !done || err != nil {
		t.Fatalf("confirmed delete = %v, %v", done, err)
	}
	if got := hs.sender.sent(); len(got) != 1 || got[0] != `DELETE_ALARMA_WEB:{"id":1}` {
		t.Fatalf("unexpected frames %v", got)
	}
}

func TestAlarms_InvalidInputSendsNothing(t *testing.T) {
	hs := newHarness(t)
	f := validFields()
	f.Hour = 25
	wantErr(t, hs.core.Alarms.Create(f), ErrValidation)
	if len(hs.sender.sent()) != 0 {
		t.Fatalf("nothing may be sent for invalid input")
	}
	if len(hs.core.Board.Messages()) != 1 {
		t.Fatalf("expected a validation message")
	}
}

func TestAlarms_DeviceErrorPostsMessage(t *testing.T) {
	hs := newHarness(t)
	hs.deliver("ERROR_ALARMA_WEB:sin espacio")
	msgs := hs.core.Board.Messages()
	if len(msgs) != 1 || msgs[0].Text != "sin espacio" || msgs[0].Level != LevelError {
		t.Fatalf("unexpected messages %+v", msgs)
	}
}
