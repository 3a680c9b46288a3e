package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"campanario/internal/logger"
	"campanario/internal/models"
	"campanario/internal/protocol"
)

const (
	// MaxAlarmNameLength bounds alarm names before they reach the device.
	MaxAlarmNameLength = 50
	alarmRefreshDelay  = 500 * time.Millisecond
)

// AlarmListState tracks the freshness of the cached alarm list.
type AlarmListState string

const (
	AlarmsLoading AlarmListState = "LOADING"
	AlarmsLoaded  AlarmListState = "LOADED"
	AlarmsStale   AlarmListState = "STALE"
)

var validActions = map[string]bool{
	models.ActionMisa:        true,
	models.ActionDifuntos:    true,
	models.ActionFiesta:      true,
	models.ActionCalefaccion: true,
}

// ValidateAlarm checks the editable fields before anything is sent.
func ValidateAlarm(f models.AlarmFields) error {
	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		return invalid("nombre", "nombre_obligatorio")
	case len([]rune(name)) > MaxAlarmNameLength:
		return invalid("nombre", "nombre_largo")
	case f.Day < 0 || f.Day > models.EveryDay:
		return invalid("dia", "dia_invalido")
	case f.Hour < 0 || f.Hour > 23:
		return invalid("hora", "hora_invalida")
	case f.Minute < 0 || f.Minute > 59:
		return invalid("minuto", "minuto_invalido")
	case !validActions[f.Action]:
		return invalid("accion", "accion_invalida")
	case f.Duration < 0 || f.Duration > MaxHeatingMinutes:
		return invalid("duracion", "duracion_invalida")
	}
	return nil
}

// AlarmsView is the published alarm state.
type AlarmsView struct {
	State     AlarmListState     `json:"state"`
	Alarms    []models.Alarm     `json:"alarms"`
	Stats     models.AlarmStats  `json:"stats"`
	EditingID int                `json:"editing_id,omitempty"`
	Form      models.AlarmFields `json:"form"`
}

// Alarms mirrors the device alarm table. The cache only changes on a
// device snapshot; mutations send a command and re-fetch after the ack.
type Alarms struct {
	mu sync.Mutex

	sender Sender
	enc    *protocol.Encoder
	pub    Publisher
	board  *StatusBoard
	tr     *Translator
	clock  Clock
	log    *logger.Logger

	state     AlarmListState
	alarms    []models.Alarm
	stats     models.AlarmStats
	editingID int
	form      models.AlarmFields
	refresh   Timer
}

func NewAlarms(sender Sender, enc *protocol.Encoder, pub Publisher, board *StatusBoard, tr *Translator, clock Clock, log *logger.Logger) *Alarms {
	return &Alarms{
		sender: sender,
		enc:    enc,
		pub:    pub,
		board:  board,
		tr:     tr,
		clock:  clock,
		log:    log,
		state:  AlarmsStale,
		alarms: []models.Alarm{},
		stats:  statsFromCache(nil),
		form:   emptyAlarmForm(),
	}
}

func emptyAlarmForm() models.AlarmFields {
	return models.AlarmFields{Action: models.ActionMisa}
}

func (a *Alarms) View() AlarmsView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked()
}

func (a *Alarms) viewLocked() AlarmsView {
	list := make([]models.Alarm, len(a.alarms))
	copy(list, a.alarms)
	return AlarmsView{
		State:     a.state,
		Alarms:    list,
		Stats:     a.stats,
		EditingID: a.editingID,
		Form:      a.form,
	}
}

// RequestSnapshot asks for the alarm list and stats.
func (a *Alarms) RequestSnapshot() error {
	if !a.sender.Connected() {
		a.board.Post(LevelError, a.tr.T("sin_conexion"))
		return ErrNotConnected
	}
	for _, cmd := range []string{protocol.CmdGetAlarms, protocol.CmdGetAlarmStats} {
		if err := a.sender.Send(protocol.Plain(cmd)); err != nil {
			return err
		}
	}
	a.mu.Lock()
	a.state = AlarmsLoading
	a.mu.Unlock()
	a.board.Post(LevelInfo, a.tr.T("solicitando_alarmas"))
	return nil
}

func payloadOf(id int, f models.AlarmFields, enabled bool) protocol.AlarmPayload {
	return protocol.AlarmPayload{
		ID:          id,
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Day:         f.Day,
		Hour:        f.Hour,
		Minute:      f.Minute,
		Action:      f.Action,
		Duration:    f.Duration,
		Enabled:     enabled,
	}
}

// send validates connectivity, encodes and sends one mutation.
func (a *Alarms) send(prefix string, payload any) error {
	if !a.sender.Connected() {
		a.board.Post(LevelError, a.tr.T("sin_conexion"))
		return ErrNotConnected
	}
	frame, err := a.enc.WithJSON(prefix, payload)
	if err != nil {
		return err
	}
	if err := a.sender.Send(frame); err != nil {
		return err
	}
	a.mu.Lock()
	a.state = AlarmsStale
	a.mu.Unlock()
	a.board.Post(LevelInfo, a.tr.T("procesando"))
	return nil
}

func (a *Alarms) find(id int) (models.Alarm, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, al := range a.alarms {
		if al.ID == id {
			return al, true
		}
	}
	return models.Alarm{}, false
}

// Create sends a new enabled alarm.
func (a *Alarms) Create(f models.AlarmFields) error {
	if err := a.reject(ValidateAlarm(f)); err != nil {
		return err
	}
	return a.send(protocol.PrefixAddAlarm, payloadOf(0, f, true))
}

// Update replaces the fields of an existing alarm, keeping its enabled flag.
func (a *Alarms) Update(id int, f models.AlarmFields) error {
	if err := a.reject(ValidateAlarm(f)); err != nil {
		return err
	}
	enabled := true
	if al, ok := a.find(id); ok {
		enabled = al.Enabled
	} else if id <= 0 {
		return fmt.Errorf("alarm %d: %w", id, ErrNotFound)
	}
	return a.send(protocol.PrefixEditAlarm, payloadOf(id, f, enabled))
}

// Toggle asks the device to flip the enabled flag of a cached alarm.
func (a *Alarms) Toggle(id int) error {
	al, ok := a.find(id)
	if !ok {
		return fmt.Errorf("alarm %d: %w", id, ErrNotFound)
	}
	return a.send(protocol.PrefixToggleAlarm, protocol.AlarmToggle{ID: id, Enabled: !al.Enabled})
}

// Delete removes an alarm after confirmation. Declining sends nothing.
func (a *Alarms) Delete(id int, c Confirmer) (bool, error) {
	al, ok := a.find(id)
	if !ok {
		return false, fmt.Errorf("alarm %d: %w", id, ErrNotFound)
	}
	if !c.Confirm(a.tr.T("confirmar_eliminar") + " " + al.Name) {
		return false, nil
	}
	return true, a.send(protocol.PrefixDeleteAlarm, protocol.AlarmRef{ID: id})
}

// BeginEdit loads a cached alarm into the form.
func (a *Alarms) BeginEdit(id int) (models.AlarmFields, error) {
	al, ok := a.find(id)
	if !ok {
		return models.AlarmFields{}, fmt.Errorf("alarm %d: %w", id, ErrNotFound)
	}
	f := models.FieldsOf(al)
	a.mu.Lock()
	a.editingID = id
	a.form = f
	view := a.viewLocked()
	a.mu.Unlock()
	a.pub.Publish(Event{Type: EventAlarmForm, Data: view})
	a.board.Post(LevelInfo, a.tr.T("editando_alarma")+": "+al.Name)
	return f, nil
}

// CancelEdit leaves edit mode and clears the form.
func (a *Alarms) CancelEdit() {
	a.mu.Lock()
	a.editingID = 0
	a.form = emptyAlarmForm()
	view := a.viewLocked()
	a.mu.Unlock()
	a.pub.Publish(Event{Type: EventAlarmForm, Data: view})
}

func (a *Alarms) reject(err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		a.board.Post(LevelError, a.tr.T(ve.Key))
	}
	return err
}

func (a *Alarms) HandleMessage(msg protocol.Message) {
	switch msg.Kind {
	case protocol.KindAlarms:
		a.applySnapshot(msg)
	case protocol.KindAlarmStats:
		a.applyStats(msg)
	case protocol.KindAlarmCreated:
		a.acknowledge("alarma_creada", func() {
			if a.editingID == 0 {
				a.form = emptyAlarmForm()
			}
		})
	case protocol.KindAlarmModified:
		a.acknowledge("alarma_modificada", func() {
			a.editingID = 0
			a.form = emptyAlarmForm()
		})
	case protocol.KindAlarmDeleted:
		a.acknowledge("alarma_eliminada", nil)
	case protocol.KindAlarmToggled:
		key := "alarma_actualizada"
		switch {
		case msg.HasBool && msg.Bool:
			key = "alarma_habilitada"
		case msg.HasBool:
			key = "alarma_deshabilitada"
		}
		a.acknowledge(key, nil)
	case protocol.KindAlarmError:
		a.log.Warnw("alarm_device_error", "message", msg.Text)
		a.board.Post(LevelError, msg.Text)
	}
}

func (a *Alarms) applySnapshot(msg protocol.Message) {
	if msg.Err != nil {
		a.log.Warnw("alarms_snapshot_invalid", "err", msg.Err)
		a.board.Post(LevelError, a.tr.T("error_datos_alarmas"))
		return
	}
	a.mu.Lock()
	a.alarms = msg.Alarms
	a.state = AlarmsLoaded
	if a.stats.Computed {
		a.stats = statsFromCache(a.alarms)
	}
	view := a.viewLocked()
	a.mu.Unlock()

	a.pub.Publish(Event{Type: EventAlarms, Data: view})
	a.board.Post(LevelSuccess, fmt.Sprintf("%s (%d)", a.tr.T("alarmas_cargadas"), len(view.Alarms)))
}

func (a *Alarms) applyStats(msg protocol.Message) {
	a.mu.Lock()
	if msg.Err != nil {
		a.log.Warnw("alarm_stats_invalid", "err", msg.Err)
		a.stats = statsFromCache(a.alarms)
	} else {
		a.stats = msg.Stats
	}
	stats := a.stats
	a.mu.Unlock()
	a.pub.Publish(Event{Type: EventAlarmStats, Data: stats})
}

// statsFromCache derives counts when the device did not send usable stats.
func statsFromCache(list []models.Alarm) models.AlarmStats {
	s := models.AlarmStats{Total: len(list), FreeSlots: -1, Computed: true}
	for _, al := range list {
		if al.Enabled {
			s.Enabled++
		} else {
			s.Disabled++
		}
	}
	return s
}

// acknowledge reports a device ack, applies formUpdate and schedules a re-fetch.
func (a *Alarms) acknowledge(key string, formUpdate func()) {
	a.mu.Lock()
	if formUpdate != nil {
		formUpdate()
	}
	a.state = AlarmsStale
	if a.refresh != nil {
		a.refresh.Stop()
	}
	a.refresh = a.clock.AfterFunc(alarmRefreshDelay, a.refetch)
	view := a.viewLocked()
	a.mu.Unlock()

	a.board.Post(LevelSuccess, a.tr.T(key))
	a.pub.Publish(Event{Type: EventAlarmForm, Data: view})
}

func (a *Alarms) refetch() {
	if err := a.RequestSnapshot(); err != nil {
		a.log.Warnw("alarms_refetch_failed", "err", err)
	}
}
