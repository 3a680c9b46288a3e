package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"campanario/internal/models"
	"campanario/internal/service"
)

func TestDeviceHandlers_StateRequiresAuth(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	mon := &mockMonitoring{state: service.Snapshot{Connected: true, Page: service.HomePage, Language: models.LangCA}}
	r := newTestRouter(&service.Service{Authorization: auth, Monitoring: mon})

	if w := serve(r, http.MethodGet, "/api/v1/state", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w := serve(r, http.MethodGet, "/api/v1/state", "", "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d, body=%s", w.Code, w.Body.String())
	}
	var st service.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if !st.Connected || st.Page != service.HomePage || st.Language != models.LangCA {
		t.Fatalf("unexpected state: %+v", st)
	}

	mon.err = errors.New("boom")
	if w := serve(r, http.MethodGet, "/api/v1/state", "", "valid"); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestDeviceHandlers_SetPage(t *testing.T) {
	mon := &mockMonitoring{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Monitoring: mon})

	w := serve(r, http.MethodPut, "/api/v1/page", `{"path":"/Campanas.html"}`, "valid")
	if w.Code != http.StatusOK || mon.lastPage != "/Campanas.html" {
		t.Fatalf("status=%d page=%q", w.Code, mon.lastPage)
	}
	if m := decodeBody(t, w); m["state"] == nil {
		t.Fatalf("response should embed the state: %v", m)
	}

	if w := serve(r, http.MethodPut, "/api/v1/page", `{}`, "valid"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without path, got %d", w.Code)
	}
}

func TestBellHandlers_TriggerErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"sent", nil, http.StatusOK, ""},
		{"protected", service.ErrProtected, http.StatusConflict, errProtected},
		{"offline", service.ErrNotConnected, http.StatusServiceUnavailable, errNotConnected},
		{"unknown sequence", &service.ValidationError{Field: "sequence", Key: "accion_invalida"}, http.StatusBadRequest, "invalid sequence: accion_invalida"},
		{"write failed", errors.New("broken pipe"), http.StatusInternalServerError, errSendCommand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bells := &mockBells{triggerErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Monitoring: &mockMonitoring{}, Bells: bells})

			w := serve(r, http.MethodPost, "/api/v1/bells/trigger", `{"sequence":"Fiesta"}`, "valid")
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if bells.lastTrigger != service.SeqFiesta {
				t.Fatalf("Trigger got %q", bells.lastTrigger)
			}
			m := decodeBody(t, w)
			if tc.wantErr != "" && m["error"] != tc.wantErr {
				t.Fatalf("error = %v, want %q", m["error"], tc.wantErr)
			}
			if tc.name == "unknown sequence" && (m["field"] != "sequence" || m["key"] != "accion_invalida") {
				t.Fatalf("validation details missing: %v", m)
			}
		})
	}
}

func TestBellHandlers_StopNeedsConfirm(t *testing.T) {
	bells := &mockBells{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Monitoring: &mockMonitoring{}, Bells: bells})

	w := serve(r, http.MethodPost, "/api/v1/bells/stop", "", "valid")
	if w.Code != http.StatusOK || bells.stopSent != 0 {
		t.Fatalf("unconfirmed stop: status=%d sent=%d", w.Code, bells.stopSent)
	}
	m := decodeBody(t, w)
	if m["cancelled"] != true || m["prompt"] != "¿Detener la secuencia?" {
		t.Fatalf("expected a cancelled response with the prompt, got %v", m)
	}

	w = serve(r, http.MethodPost, "/api/v1/bells/stop?confirm=true", "", "valid")
	if w.Code != http.StatusOK || bells.stopSent != 1 {
		t.Fatalf("confirmed stop: status=%d sent=%d", w.Code, bells.stopSent)
	}
	if m := decodeBody(t, w); m["status"] != statusSent {
		t.Fatalf("unexpected body %v", m)
	}
}

func TestHeatingHandlers(t *testing.T) {
	heating := &mockHeating{
		view:   service.HeatingView{On: true, ConfiguredMinutes: 45, Display: "045m"},
		picker: service.PickerView{Digits: service.Digits{0, 4, 5}, Total: 45, Display: "045", AcceptEnabled: true},
	}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Heating: heating})

	if w := serve(r, http.MethodPost, "/api/v1/heating/toggle", "", "valid"); w.Code != http.StatusOK || heating.toggles != 1 {
		t.Fatalf("toggle: status=%d toggles=%d", w.Code, heating.toggles)
	}

	w := serve(r, http.MethodPut, "/api/v1/heating", `{"on":false}`, "valid")
	if w.Code != http.StatusOK || heating.lastOn == nil || *heating.lastOn {
		t.Fatalf("set: status=%d on=%v", w.Code, heating.lastOn)
	}
	if w := serve(r, http.MethodPut, "/api/v1/heating", `{}`, "valid"); w.Code != http.StatusBadRequest {
		t.Fatalf("missing on flag should be rejected, got %d", w.Code)
	}

	w = serve(r, http.MethodPut, "/api/v1/heating/minutes", `{"minutes":45}`, "valid")
	if w.Code != http.StatusOK || heating.lastMinutes != 45 {
		t.Fatalf("minutes: status=%d minutes=%d", w.Code, heating.lastMinutes)
	}
	var hv service.HeatingView
	_ = json.Unmarshal(w.Body.Bytes(), &hv)
	if hv.Display != "045m" {
		t.Fatalf("unexpected view %+v", hv)
	}

	w = serve(r, http.MethodPost, "/api/v1/heating/picker/step", `{"position":1,"up":true}`, "valid")
	if w.Code != http.StatusOK || heating.lastPos != 1 || !heating.lastUp {
		t.Fatalf("step: status=%d pos=%d up=%v", w.Code, heating.lastPos, heating.lastUp)
	}
	var pv service.PickerView
	_ = json.Unmarshal(w.Body.Bytes(), &pv)
	if pv.Total != 45 || !pv.AcceptEnabled {
		t.Fatalf("unexpected picker %+v", pv)
	}

	for _, path := range []string{"/api/v1/heating/picker", "/api/v1/heating"} {
		if w := serve(r, http.MethodGet, path, "", "valid"); w.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d", path, w.Code)
		}
	}
	if w := serve(r, http.MethodPost, "/api/v1/heating/picker/open", "", "valid"); w.Code != http.StatusOK {
		t.Fatalf("open picker status=%d", w.Code)
	}
}

func TestHeatingHandlers_Errors(t *testing.T) {
	cases := []struct {
		method, path, body string
		err                error
		wantCode           int
	}{
		{http.MethodPost, "/api/v1/heating/toggle", "", service.ErrNotConnected, http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/heating/picker/accept", "", &service.ValidationError{Field: "minutes", Key: "limite_minutos"}, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/heating/picker/step", `{"position":9}`, fmt.Errorf("step: %w", service.ErrValidation), http.StatusBadRequest},
		{http.MethodPut, "/api/v1/heating/minutes", `{"minutes":500}`, &service.ValidationError{Field: "minutes", Key: "limite_minutos"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Heating: &mockHeating{err: tc.err}})
			if w := serve(r, tc.method, tc.path, tc.body, "valid"); w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}
