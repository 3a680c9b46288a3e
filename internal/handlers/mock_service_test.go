package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campanario/internal/models"
	"campanario/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	cfgToken      string
	cfgTokenErr   error
	cfgParseID    int
	cfgParseErr   error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
	lastIssuedFor      int
	lastCfgToken       string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) IssueConfigToken(userID int) (string, error) {
	m.lastIssuedFor = userID
	return m.cfgToken, m.cfgTokenErr
}
func (m *mockAuth) ParseConfigToken(token string) (int, error) {
	m.lastCfgToken = token
	return m.cfgParseID, m.cfgParseErr
}

type mockMonitoring struct {
	state    service.Snapshot
	err      error
	lastPage string
	pages    chan string
}

func (m *mockMonitoring) GetState(ctx context.Context) (service.Snapshot, error) {
	return m.state, m.err
}
func (m *mockMonitoring) SetPage(path string) {
	m.lastPage = path
	if m.pages != nil {
		m.pages <- path
	}
}

type mockBells struct {
	view        service.BellsView
	triggerErr  error
	stopErr     error
	lastTrigger service.Sequence
	stopSent    int
}

func (m *mockBells) View() service.BellsView { return m.view }
func (m *mockBells) Trigger(seq service.Sequence) error {
	m.lastTrigger = seq
	return m.triggerErr
}
func (m *mockBells) Stop(c service.Confirmer) (bool, error) {
	if !c.Confirm("¿Detener la secuencia?") {
		return false, nil
	}
	m.stopSent++
	return true, m.stopErr
}

type mockHeating struct {
	view        service.HeatingView
	picker      service.PickerView
	err         error
	toggles     int
	lastOn      *bool
	lastMinutes int
	lastPos     int
	lastUp      bool
}

func (m *mockHeating) View() service.HeatingView { return m.view }
func (m *mockHeating) Toggle() error {
	m.toggles++
	return m.err
}
func (m *mockHeating) SetOn(on bool) error {
	m.lastOn = &on
	return m.err
}
func (m *mockHeating) SetMinutes(minutes int) (service.HeatingView, error) {
	m.lastMinutes = minutes
	return m.view, m.err
}
func (m *mockHeating) OpenPicker() service.PickerView { return m.picker }
func (m *mockHeating) StepPicker(pos int, up bool) (service.PickerView, error) {
	m.lastPos, m.lastUp = pos, up
	return m.picker, m.err
}
func (m *mockHeating) AcceptPicker() (service.HeatingView, error) { return m.view, m.err }
func (m *mockHeating) PickerView() service.PickerView            { return m.picker }

type mockAlarms struct {
	view       service.AlarmsView
	err        error
	refreshes  int
	lastFields models.AlarmFields
	lastID     int
	deleted    int
	cancelled  int
}

func (m *mockAlarms) View() service.AlarmsView { return m.view }
func (m *mockAlarms) RequestSnapshot() error {
	m.refreshes++
	return m.err
}
func (m *mockAlarms) Create(f models.AlarmFields) error {
	m.lastFields = f
	return m.err
}
func (m *mockAlarms) Update(id int, f models.AlarmFields) error {
	m.lastID, m.lastFields = id, f
	return m.err
}
func (m *mockAlarms) Toggle(id int) error {
	m.lastID = id
	return m.err
}
func (m *mockAlarms) Delete(id int, c service.Confirmer) (bool, error) {
	m.lastID = id
	if m.err != nil {
		return false, m.err
	}
	if !c.Confirm("¿Eliminar alarma? Misa") {
		return false, nil
	}
	m.deleted++
	return true, nil
}
func (m *mockAlarms) BeginEdit(id int) (models.AlarmFields, error) {
	m.lastID = id
	return m.lastFields, m.err
}
func (m *mockAlarms) CancelEdit() { m.cancelled++ }

type mockConfig struct {
	view     service.ConfigView
	pinOK    bool
	pinErr   error
	telegram models.TelegramConfig
	loadErr  error
	saveErr  error
	resetErr error

	lastPIN   string
	lastSaved models.TelegramConfig
	resets    int
	locks     int
}

func (m *mockConfig) View() service.ConfigView { return m.view }
func (m *mockConfig) VerifyPIN(ctx context.Context, pin string) (bool, error) {
	m.lastPIN = pin
	if m.pinOK && m.pinErr == nil {
		m.view.Unlocked = true
	}
	return m.pinOK, m.pinErr
}
func (m *mockConfig) LoadTelegram(ctx context.Context) (models.TelegramConfig, error) {
	return m.telegram, m.loadErr
}
func (m *mockConfig) SaveTelegram(cfg models.TelegramConfig) error {
	m.lastSaved = cfg
	return m.saveErr
}
func (m *mockConfig) ResetSystem(c service.Confirmer) (bool, error) {
	if !c.Confirm("¿Reiniciar el sistema?") {
		return false, nil
	}
	m.resets++
	return true, m.resetErr
}
func (m *mockConfig) Lock() {
	m.locks++
	m.view.Unlocked = false
}

type mockOTA struct {
	view       service.OTAView
	err        error
	opens      int
	checks     int
	lastKind   service.UpdateKind
	installs   int
	installErr error
}

func (m *mockOTA) View() service.OTAView { return m.view }
func (m *mockOTA) Open() error {
	m.opens++
	return m.err
}
func (m *mockOTA) Check() error {
	m.checks++
	return m.err
}
func (m *mockOTA) Install(kind service.UpdateKind, c service.Confirmer) (bool, error) {
	m.lastKind = kind
	if m.installErr != nil {
		return false, m.installErr
	}
	if !c.Confirm("¿Instalar la actualización?") {
		return false, nil
	}
	m.installs++
	return true, nil
}

type mockLanguage struct {
	current models.Language
	err     error
}

func (m *mockLanguage) Current() models.Language { return m.current }
func (m *mockLanguage) Change(lang models.Language) error {
	if m.err != nil {
		return m.err
	}
	m.current = lang
	return nil
}

type mockEventLog struct {
	resp     []models.DeviceEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	calls    int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DeviceEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.calls++
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// serve sends one request through r with the bearer token (if any) and extra headers.
func serve(r http.Handler, method, target, body, token string, extra ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	for i := 0; i+1 < len(extra); i += 2 {
		req.Header.Set(extra[i], extra[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return m
}
