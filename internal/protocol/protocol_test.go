package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"campanario/internal/models"
)

func TestDecode_Kinds(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{"ESTADO_CAMPANARIO:32", KindStatus},
		{"REDIRECT:/Campanas.html", KindRedirect},
		{"CAMPANA:1", KindBellStrike},
		{"SECUENCIAACTIVA:2", KindActiveSequence},
		{"PROTECCION:ON", KindProtectionOn},
		{"PROTECCION:OFF", KindProtectionOff},
		{`ALARMAS_WEB:{"alarmas":[]}`, KindAlarms},
		{`STATS_ALARMAS_WEB:{"totalAlarmas":1}`, KindAlarmStats},
		{"ALARMA_CREADA_WEB:7", KindAlarmCreated},
		{"ALARMA_MODIFICADA_WEB:7", KindAlarmModified},
		{"ALARMA_ELIMINADA_WEB:7", KindAlarmDeleted},
		{"ALARMA_TOGGLED_WEB:7:true", KindAlarmToggled},
		{"ERROR_ALARMA_WEB:sin espacio", KindAlarmError},
		{"CALEFACCION:ON", KindHeatingOn},
		{"CALEFACCION:ON:30", KindHeatingOn},
		{"CALEFACCION:OFF", KindHeatingOff},
		{"CALEFACCION:ERROR", KindHeatingError},
		{"ESTADO_CALEFACCION:ON", KindHeatingOn},
		{"ESTADO_CALEFACCION:OFF", KindHeatingOff},
		{"TIEMPO_CALEFACCION:600", KindHeatingTime},
		{"PIN_OK", KindPinOK},
		{"PIN_ERROR", KindPinError},
		{`CONFIG_TELEGRAM:{"nombre":"Torre"}`, KindTelegramConfig},
		{"IDIOMA_ACTUAL:ca", KindLanguageCurrent},
		{"IDIOMA_CAMBIADO:es", KindLanguageChanged},
		{"IDIOMA_SERVIDOR:ca", KindLanguageServer},
		{"ERROR_IDIOMA:bad", KindLanguageError},
		{"VERSION_OTA:1.2.0", KindOTAVersion},
		{"UPDATE_AVAILABLE:1.3.0:http://a/fw.bin:http://a/fs.bin:notes", KindUpdateAvailable},
		{"NO_UPDATE", KindNoUpdate},
		{"OTA_PROGRESS:40:Descargando", KindOTAProgress},
		{"OTA_SUCCESS:1.3.0", KindOTASuccess},
		{"OTA_ERROR:flash", KindOTAError},
		{"HELLO", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m := Decode(tt.raw)
			if m.Kind != tt.kind {
				t.Fatalf("Decode(%q).Kind = %v, want %v", tt.raw, m.Kind, tt.kind)
			}
			if m.Err != nil {
				t.Fatalf("unexpected error: %v", m.Err)
			}
			if m.Raw != tt.raw {
				t.Fatalf("Raw not preserved")
			}
		})
	}
}

func TestDecode_StatusWord(t *testing.T) {
	m := Decode("ESTADO_CAMPANARIO:161")
	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	if !m.Status.Has(BitSecuencia) || !m.Status.Has(BitCalefaccion) || !m.Status.Has(BitProteccionCampanadas) {
		t.Fatalf("bits not decoded: %#x", int(m.Status))
	}
	if m.Status.Has(BitHora) {
		t.Fatalf("HORA should be clear")
	}
	f := m.Status.Flags()
	if !f.Heating || !f.Protection || !f.SequenceActive || f.NoInternet {
		t.Fatalf("unexpected flags: %+v", f)
	}
}

func TestDecode_MalformedKeepsKind(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{"ESTADO_CAMPANARIO:abc", KindStatus},
		{"TIEMPO_CALEFACCION:", KindHeatingTime},
		{"ALARMAS_WEB:{not json", KindAlarms},
		{"STATS_ALARMAS_WEB:oops", KindAlarmStats},
		{"ALARMA_TOGGLED_WEB:x", KindAlarmToggled},
		{"ALARMA_TOGGLED_WEB:3:maybe", KindAlarmToggled},
		{"IDIOMA_ACTUAL:fr", KindLanguageCurrent},
		{"OTA_PROGRESS:x:y", KindOTAProgress},
		{"CALEFACCION:ON:abc", KindHeatingOn},
		{"UPDATE_AVAILABLE:", KindUpdateAvailable},
	}
	for _, tt := range tests {
		m := Decode(tt.raw)
		if m.Kind != tt.kind {
			t.Fatalf("Decode(%q).Kind = %v, want %v", tt.raw, m.Kind, tt.kind)
		}
		if !errors.Is(m.Err, ErrMalformed) {
			t.Fatalf("Decode(%q).Err = %v, want ErrMalformed", tt.raw, m.Err)
		}
	}
}

func TestDecode_HeatingMinutes(t *testing.T) {
	m := Decode("CALEFACCION:ON:45")
	if !m.HasInt || m.Int != 45 {
		t.Fatalf("minutes = %d (has=%v), want 45", m.Int, m.HasInt)
	}
	m = Decode("CALEFACCION:ON")
	if m.HasInt {
		t.Fatalf("bare ON should carry no minutes")
	}
}

func TestDecode_Toggle(t *testing.T) {
	tests := []struct {
		raw  string
		id   int
		want bool
	}{
		{"ALARMA_TOGGLED_WEB:4:true", 4, true},
		{"ALARMA_TOGGLED_WEB:4:false", 4, false},
		{"ALARMA_TOGGLED_WEB:5:ON", 5, true},
		{"ALARMA_TOGGLED_WEB:5:OFF", 5, false},
	}
	for _, tt := range tests {
		m := Decode(tt.raw)
		if m.Err != nil || m.Int != tt.id || m.Bool != tt.want || !m.HasBool {
			t.Fatalf("Decode(%q) = id %d state %v err %v", tt.raw, m.Int, m.Bool, m.Err)
		}
	}
}

func TestDecode_ToggleWithoutState(t *testing.T) {
	m := Decode("ALARMA_TOGGLED_WEB:5")
	if m.Kind != KindAlarmToggled || m.Err != nil {
		t.Fatalf("Decode = kind %v err %v", m.Kind, m.Err)
	}
	if m.Int != 5 || m.HasBool {
		t.Fatalf("id %d, has state %v", m.Int, m.HasBool)
	}
}

func TestDecode_UpdateAvailableKeepsURLColons(t *testing.T) {
	m := Decode("UPDATE_AVAILABLE:1.3.0:https://ota.example.org/fw.bin:https://ota.example.org:8443/fs.bin:Fix: alarms")
	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	want := UpdateInfo{
		Version:     "1.3.0",
		FirmwareURL: "https://ota.example.org/fw.bin",
		DataURL:     "https://ota.example.org:8443/fs.bin",
		Notes:       "Fix: alarms",
	}
	if m.Update != want {
		t.Fatalf("got %+v, want %+v", m.Update, want)
	}
}

func TestDecode_AlarmsAndStats(t *testing.T) {
	m := Decode(`ALARMAS_WEB:{"alarmas":[{"id":1,"nombre":"Misa domingo","dia":7,"hora":11,"minuto":30,"accion":"Misa","habilitada":true,"diaNombre":"Todos"}]}`)
	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	if len(m.Alarms) != 1 || m.Alarms[0].Name != "Misa domingo" || !m.Alarms[0].Enabled || m.Alarms[0].DayName != "Todos" {
		t.Fatalf("unexpected alarms: %+v", m.Alarms)
	}

	m = Decode(`ALARMAS_WEB:{}`)
	if m.Alarms == nil || len(m.Alarms) != 0 {
		t.Fatalf("missing list should decode as empty, got %#v", m.Alarms)
	}

	m = Decode(`STATS_ALARMAS_WEB:{"totalAlarmas":3,"habilitadas":2,"deshabilitadas":1}`)
	if m.Stats.Total != 3 || m.Stats.Enabled != 2 || m.Stats.FreeSlots != -1 {
		t.Fatalf("unexpected stats: %+v", m.Stats)
	}
}

func TestDecode_TelegramDefaults(t *testing.T) {
	m := Decode(`CONFIG_TELEGRAM:{"nombre":"Torre","ubicacion":"Plaza","notificaciones":{"misa":false}}`)
	if m.Err != nil {
		t.Fatalf("unexpected error: %v", m.Err)
	}
	if m.Telegram.Name != "Torre" || m.Telegram.Location != "Plaza" {
		t.Fatalf("unexpected config: %+v", m.Telegram)
	}
	if m.Telegram.Notifications.Misa {
		t.Fatalf("misa should be false")
	}
}

func TestDecode_Language(t *testing.T) {
	m := Decode("IDIOMA_SERVIDOR: ES")
	if m.Err != nil || m.Language != models.LangES {
		t.Fatalf("got %q err %v", m.Language, m.Err)
	}
}

func TestDecode_ProgressClamped(t *testing.T) {
	m := Decode("OTA_PROGRESS:140")
	if m.Int != 100 || m.Text != "" {
		t.Fatalf("got %d %q", m.Int, m.Text)
	}
}

func TestPlainAndWithValue(t *testing.T) {
	if got := Plain(CmdStop); got != "PARAR" {
		t.Fatalf("Plain = %q", got)
	}
	if got := WithValue(PrefixHeatingOn, 30); got != "CALEFACCION_ON:30" {
		t.Fatalf("WithValue = %q", got)
	}
	if got := WithValue(PrefixVerifyPIN, "0042"); got != "VERIFY_PIN:0042" {
		t.Fatalf("WithValue = %q", got)
	}
}

func TestEncoder_WithJSON(t *testing.T) {
	enc := NewEncoder(false)
	frame, err := enc.WithJSON(PrefixAddAlarm, AlarmPayload{Name: "Test", Day: 1, Hour: 8, Action: "Misa", Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prefix, body, ok := strings.Cut(frame, ":")
	if !ok || prefix != PrefixAddAlarm {
		t.Fatalf("bad frame %q", frame)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if got["nombre"] != "Test" || got["hora"] != float64(8) || got["habilitada"] != true {
		t.Fatalf("unexpected payload %v", got)
	}
	if _, ok := got["rid"]; ok {
		t.Fatalf("rid must be absent by default")
	}
}

func TestEncoder_RequestIDsAreMonotonic(t *testing.T) {
	enc := NewEncoder(true)
	var last float64
	for i := 0; i < 3; i++ {
		frame, err := enc.WithJSON(PrefixDeleteAlarm, AlarmRef{ID: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, body, _ := strings.Cut(frame, ":")
		var got map[string]any
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			t.Fatalf("payload is not json: %v", err)
		}
		rid, ok := got["rid"].(float64)
		if !ok || rid <= last {
			t.Fatalf("rid %v not increasing after %v", got["rid"], last)
		}
		if got["id"] != float64(2) {
			t.Fatalf("original members lost: %v", got)
		}
		last = rid
	}
}
